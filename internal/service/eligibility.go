package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tollpass/internal/domain"
	"tollpass/internal/redis"
	"tollpass/internal/repository"
	"tollpass/internal/routing"
)

// Booking eligibility policy. The distance interval is closed at both ends
// and applied per booth; the slot window is how long the driver has to pass
// the booth after the predicted arrival.
const (
	minBookableKm = 5.0
	maxBookableKm = 20.0

	slotWindow = 10 * time.Minute

	maxCandidates     = 5
	prefilterRadiusKm = 60.0
)

// Verdict is the bookability classification of a (driver, booth) pair.
type Verdict string

const (
	VerdictTooClose Verdict = "too_close"
	VerdictBookable Verdict = "bookable"
	VerdictTooFar   Verdict = "too_far"
)

// Classify maps a driving distance onto a verdict. Bookable iff
// 5 <= distanceKm <= 20, boundaries included.
func Classify(distanceKm float64) Verdict {
	switch {
	case distanceKm < minBookableKm:
		return VerdictTooClose
	case distanceKm > maxBookableKm:
		return VerdictTooFar
	default:
		return VerdictBookable
	}
}

// ArrivalWindow computes the arrival window: predicted arrival at
// now + travel duration, window closing slotWindow later.
func ArrivalWindow(now time.Time, travelDurationMinutes float64) (start, end time.Time) {
	start = now.Add(time.Duration(travelDurationMinutes * float64(time.Minute)))
	return start, start.Add(slotWindow)
}

// DeriveTimeSlot renders the arrival window for a travel duration.
func DeriveTimeSlot(now time.Time, travelDurationMinutes float64) string {
	return FormatTimeSlot(ArrivalWindow(now, travelDurationMinutes))
}

// ComputeFee returns the amount charged for an express booking at the booth.
// The stored booking amount is the express fee alone; there is no base fee.
func ComputeFee(booth *domain.TollBooth) decimal.Decimal {
	return booth.ExpressFee
}

// Candidate is one quoted toll booth. Unavailable candidates had a
// per-destination provider failure and cannot be booked, but are still shown
// so the driver understands why a nearby booth is excluded.
type Candidate struct {
	Booth           *domain.TollBooth
	DistanceKm      decimal.Decimal
	DurationMinutes float64
	Verdict         Verdict
	TimeSlot        string
	Fee             decimal.Decimal
	Unavailable     bool
}

// EligibilityService quotes bookable toll booths for a driver's location.
type EligibilityService struct {
	boothRepo  repository.TollBoothRepository
	boothIndex redis.BoothIndexInterface
	cacheStore *redis.CacheStore
	provider   routing.Provider
	now        func() time.Time
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(
	boothRepo repository.TollBoothRepository,
	boothIndex redis.BoothIndexInterface,
	cacheStore *redis.CacheStore,
	provider routing.Provider,
) *EligibilityService {
	return &EligibilityService{
		boothRepo:  boothRepo,
		boothIndex: boothIndex,
		cacheStore: cacheStore,
		provider:   provider,
		now:        time.Now,
	}
}

// QuoteCandidates returns up to five booths nearest the origin, each
// annotated with driving distance, verdict, derived time slot and fee.
// A provider failure for the whole call aborts the quote (fail closed);
// a per-booth failure marks just that booth unavailable.
func (s *EligibilityService) QuoteCandidates(ctx context.Context, origin routing.Point) ([]Candidate, error) {
	booths, err := s.nearestBooths(ctx, origin)
	if err != nil {
		return nil, err
	}
	if len(booths) == 0 {
		return nil, ErrNoBoothAvailable
	}

	dests := make([]routing.Point, len(booths))
	for i, b := range booths {
		dests[i] = routing.Point{Lat: b.Lat, Lng: b.Lng}
	}

	results, err := s.provider.Distances(ctx, origin, dests)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	now := s.now()
	candidates := make([]Candidate, 0, len(booths))
	for i, booth := range booths {
		res := results[i]
		if res.Err != nil {
			candidates = append(candidates, Candidate{Booth: booth, Unavailable: true, Fee: ComputeFee(booth)})
			continue
		}

		distanceKm := res.DistanceKm()
		candidates = append(candidates, Candidate{
			Booth:           booth,
			DistanceKm:      decimal.NewFromFloat(distanceKm).Round(2),
			DurationMinutes: res.DurationMinutes(),
			Verdict:         Classify(distanceKm),
			TimeSlot:        DeriveTimeSlot(now, res.DurationMinutes()),
			Fee:             ComputeFee(booth),
		})
	}

	// Available candidates ascending by driving distance; unavailable ones
	// keep their relative order at the end. The candidate set was already
	// capped to the nearest booths in nearestBooths, so nothing near is
	// dropped here even when a provider failure pushed it last.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Unavailable != candidates[j].Unavailable {
			return !candidates[i].Unavailable
		}
		if candidates[i].Unavailable {
			return false
		}
		return candidates[i].DistanceKm.LessThan(candidates[j].DistanceKm)
	})

	return candidates, nil
}

// nearestBooths prefilters candidates through the Redis geo index, falling
// back to the full booth table when the index is unavailable or empty. The
// prefilter only bounds the provider call; it never decides eligibility.
func (s *EligibilityService) nearestBooths(ctx context.Context, origin routing.Point) ([]*domain.TollBooth, error) {
	if s.boothIndex != nil {
		nearby, err := s.boothIndex.Nearest(ctx, origin.Lat, origin.Lng, prefilterRadiusKm, maxCandidates)
		if err == nil && len(nearby) > 0 {
			booths := make([]*domain.TollBooth, 0, len(nearby))
			for _, loc := range nearby {
				booth, err := s.getBooth(ctx, loc.BoothID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						continue
					}
					return nil, err
				}
				booths = append(booths, booth)
			}
			if len(booths) > 0 {
				return booths, nil
			}
		}
	}

	booths, err := s.boothRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// With the index down there is no stored ordering, so rank by
	// great-circle distance to pick the nearest candidates. This only
	// bounds the set handed to the provider; verdicts and displayed
	// distances still come from provider driving distance.
	sort.SliceStable(booths, func(i, j int) bool {
		return haversineKm(origin.Lat, origin.Lng, booths[i].Lat, booths[i].Lng) <
			haversineKm(origin.Lat, origin.Lng, booths[j].Lat, booths[j].Lng)
	})
	if len(booths) > maxCandidates {
		booths = booths[:maxCandidates]
	}
	return booths, nil
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// getBooth reads a booth through the cache, falling back to the repository.
func (s *EligibilityService) getBooth(ctx context.Context, boothID string) (*domain.TollBooth, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetBooth(ctx, boothID); err == nil && cached != nil {
			if fee, err := decimal.NewFromString(cached.ExpressFee); err == nil {
				return &domain.TollBooth{
					ID:         cached.ID,
					Name:       cached.Name,
					Highway:    cached.Highway,
					Lat:        cached.Lat,
					Lng:        cached.Lng,
					ExpressFee: fee,
				}, nil
			}
		}
	}

	booth, err := s.boothRepo.GetByID(ctx, boothID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetBooth(ctx, &redis.CachedBooth{
			ID:         booth.ID,
			Name:       booth.Name,
			Highway:    booth.Highway,
			Lat:        booth.Lat,
			Lng:        booth.Lng,
			ExpressFee: booth.ExpressFee.String(),
		})
	}

	return booth, nil
}
