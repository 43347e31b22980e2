package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tollpass/internal/auth"
	"tollpass/internal/domain"
	"tollpass/internal/metrics"
	"tollpass/internal/redis"
	"tollpass/internal/repository"
	"tollpass/internal/routing"
)

// fastTagFee is the flat FastTag charge, independent of booth fees.
var fastTagFee = decimal.NewFromInt(100)

const sweepLockTTL = 30 * time.Second

// BookingService owns the booking lifecycle: creation, driver cancellation
// and the expiry sweep. Every operation that moves money runs the booking
// mutation and the balance delta inside one database transaction; the two
// are never durable without each other.
type BookingService struct {
	db          *sql.DB
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	boothRepo   repository.TollBoothRepository
	ledgerRepo  repository.LedgerRepository
	provider    routing.Provider
	lockStore   redis.LockStoreInterface
	notifier    *NotificationService
	now         func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	boothRepo repository.TollBoothRepository,
	ledgerRepo repository.LedgerRepository,
	provider routing.Provider,
	lockStore redis.LockStoreInterface,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		boothRepo:   boothRepo,
		ledgerRepo:  ledgerRepo,
		provider:    provider,
		lockStore:   lockStore,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateBookingRequest contains the parameters for booking an express lane.
type CreateBookingRequest struct {
	TollBoothID string
	Origin      routing.Point
}

// Create books an express-lane passage. The driving distance is quoted
// fresh from the provider (single-destination path); eligibility and balance
// are checked before any mutation, and the booking row plus the fee debit
// commit in one transaction.
func (s *BookingService) Create(ctx context.Context, sess auth.Session, req CreateBookingRequest) (*domain.Booking, error) {
	if req.TollBoothID == "" {
		return nil, ErrInvalidBoothID
	}
	if !validPoint(req.Origin) {
		return nil, ErrInvalidLocation
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	booth, err := s.boothRepo.GetByID(ctx, req.TollBoothID)
	if err != nil {
		return nil, err
	}

	res, err := s.provider.Distance(ctx, req.Origin, routing.Point{Lat: booth.Lat, Lng: booth.Lng})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	distanceKm := res.DistanceKm()
	switch Classify(distanceKm) {
	case VerdictTooClose:
		return nil, ErrTooClose
	case VerdictTooFar:
		return nil, ErrTooFar
	}

	fee := ComputeFee(booth)
	if user.Balance.LessThan(fee) {
		return nil, ErrInsufficientBalance
	}

	// The booking date is the arrival day, not the day the booking was made,
	// so a slot derived shortly before midnight resolves to the right day.
	arrival, windowEnd := ArrivalWindow(s.now(), res.DurationMinutes())
	booking := &domain.Booking{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		TollBoothID: booth.ID,
		BookingDate: dateOf(arrival),
		TimeSlot:    FormatTimeSlot(arrival, windowEnd),
		DistanceKm:  decimal.NewFromFloat(distanceKm).Round(2),
		Amount:      fee,
		Status:      domain.BookingStatusConfirmed,
	}

	if err := s.chargeAndInsert(ctx, booking, user.ID,
		fmt.Sprintf("express lane booking at %s", booth.Name)); err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("express").Inc()
	s.notifier.NotifyBookingCreated(ctx, user, booth, booking)

	return booking, nil
}

// CreateFastTagRequest contains the parameters for a FastTag booking.
type CreateFastTagRequest struct {
	Origin routing.Point
}

// CreateFastTag books the nearest booth's FastTag lane for a flat fee with
// no arrival window. Nearest is by provider-reported driving distance; the
// first minimal value wins, so the result is deterministic for a stable
// provider order.
func (s *BookingService) CreateFastTag(ctx context.Context, sess auth.Session, req CreateFastTagRequest) (*domain.Booking, error) {
	if !validPoint(req.Origin) {
		return nil, ErrInvalidLocation
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if user.Balance.LessThan(fastTagFee) {
		return nil, ErrInsufficientBalance
	}

	booths, err := s.boothRepo.GetAll(ctx)
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

	results, err := s.provider.Distances(ctx, req.Origin, dests)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
	}

	var nearest *domain.TollBooth
	best := math.Inf(1)
	for i, res := range results {
		if res.Err != nil {
			continue
		}
		if res.DistanceMeters < best {
			best = res.DistanceMeters
			nearest = booths[i]
		}
	}
	if nearest == nil {
		return nil, fmt.Errorf("%w: no booth reachable", ErrDistanceUnavailable)
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		TollBoothID: nearest.ID,
		BookingDate: dateOf(s.now()),
		TimeSlot:    domain.FastTagTimeSlot,
		DistanceKm:  decimal.Zero,
		Amount:      fastTagFee,
		Status:      domain.BookingStatusFastTag,
	}

	if err := s.chargeAndInsert(ctx, booking, user.ID,
		fmt.Sprintf("fasttag booking at %s", nearest.Name)); err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("fasttag").Inc()
	s.notifier.NotifyBookingCreated(ctx, user, nearest, booking)

	return booking, nil
}

// chargeAndInsert writes the booking row and debits its amount atomically.
// If the debit reports insufficient funds (a concurrent spend since the
// pre-flight check), the whole transaction rolls back and no booking exists.
func (s *BookingService) chargeAndInsert(ctx context.Context, booking *domain.Booking, userID, description string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := s.bookingRepo.WithTx(tx)
	txLedgerRepo := s.ledgerRepo.WithTx(tx)

	if err = txBookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	var ok bool
	ok, err = txLedgerRepo.ApplyDelta(ctx, repository.ApplyDeltaParams{
		UserID:      userID,
		Delta:       booking.Amount.Neg(),
		Type:        domain.LedgerTypeBookingPayment,
		Description: description,
		BookingID:   booking.ID,
	})
	if err != nil {
		return err
	}
	if !ok {
		err = ErrInsufficientBalance
		return err
	}

	return tx.Commit()
}

// Cancel lets a driver withdraw a still-confirmed booking before its arrival
// window closes. The full amount is credited back as a refund.
func (s *BookingService) Cancel(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrForbidden
	}

	if booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrNotCancellable
	}

	end, err := ParseSlotEnd(booking.TimeSlot, booking.BookingDate)
	if err != nil {
		return nil, err
	}
	if s.now().After(end) {
		// The sweep owns this booking now.
		return nil, ErrNotCancellable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := s.bookingRepo.WithTx(tx)
	txLedgerRepo := s.ledgerRepo.WithTx(tx)

	var ok bool
	ok, err = txBookingRepo.MarkCancelled(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		err = ErrNotCancellable
		return nil, err
	}

	if _, err = txLedgerRepo.ApplyDelta(ctx, repository.ApplyDeltaParams{
		UserID:      booking.UserID,
		Delta:       booking.Amount,
		Type:        domain.LedgerTypeRefund,
		Description: "booking cancelled by driver",
		BookingID:   booking.ID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	metrics.BookingsCancelledTotal.Inc()

	return booking, nil
}

// SweepExpired transitions every confirmed booking whose arrival window has
// closed to completed. It is idempotent: the per-row confirmed -> completed
// update is guarded, so redundant or concurrent sweeps are no-ops. Returns
// the number of bookings transitioned.
//
// A booking whose slot cannot be parsed is a data error: it is reported in
// the returned error and left untouched, never treated as "not expired".
func (s *BookingService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireSweepLock(ctx, sweepLockTTL)
		if err != nil {
			return 0, err
		}
		if !locked {
			// Another instance is sweeping.
			return 0, nil
		}
		defer func() { _ = s.lockStore.ReleaseSweepLock(ctx) }()
	}

	metrics.SweepRunsTotal.Inc()

	confirmed, err := s.bookingRepo.GetByStatus(ctx, domain.BookingStatusConfirmed)
	if err != nil {
		return 0, err
	}

	var expired int
	var sweepErrs []error
	for _, booking := range confirmed {
		end, err := ParseSlotEnd(booking.TimeSlot, booking.BookingDate)
		if err != nil {
			sweepErrs = append(sweepErrs, fmt.Errorf("booking %s: %w", booking.ID, err))
			continue
		}
		if !now.After(end) {
			continue
		}

		ok, err := s.bookingRepo.MarkCompleted(ctx, booking.ID)
		if err != nil {
			sweepErrs = append(sweepErrs, fmt.Errorf("booking %s: %w", booking.ID, err))
			continue
		}
		if ok {
			expired++
			metrics.BookingsExpiredTotal.Inc()
		}
	}

	return expired, errors.Join(sweepErrs...)
}

// Now returns the service clock. Callers that trigger a sweep outside the
// background loop use this instead of reading the wall clock themselves.
func (s *BookingService) Now() time.Time {
	return s.now()
}

// GetBooking retrieves a booking, restricted to its owner unless the session
// is an administrator.
func (s *BookingService) GetBooking(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return booking, nil
}

// ListBookings returns the session's bookings, or every booking for an
// administrator.
func (s *BookingService) ListBookings(ctx context.Context, sess auth.Session) ([]*domain.Booking, error) {
	if sess.IsAdmin() {
		return s.bookingRepo.GetAll(ctx)
	}
	return s.bookingRepo.GetByUser(ctx, sess.UserID)
}

func validPoint(p routing.Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// dateOf truncates a time to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
