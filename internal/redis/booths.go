package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const boothLocationKey = "tollbooths:locations"

// BoothDistance is a booth returned from a geo query, nearest first.
// DistanceKm is straight-line and is used only to prefilter candidates; the
// driving distance that eligibility decisions use always comes from the
// distance provider.
type BoothDistance struct {
	BoothID    string
	Lat        float64
	Lng        float64
	DistanceKm float64
}

// BoothIndex maintains the toll booth geo index in Redis.
type BoothIndex struct {
	client *redis.Client
}

// NewBoothIndex creates a new BoothIndex.
func NewBoothIndex(client *redis.Client) *BoothIndex {
	return &BoothIndex{client: client}
}

// Add indexes a booth's coordinate using GEOADD.
func (s *BoothIndex) Add(ctx context.Context, boothID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, boothLocationKey, &redis.GeoLocation{
		Name:      boothID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// Nearest returns up to limit booths within radiusKm, nearest first.
func (s *BoothIndex) Nearest(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]BoothDistance, error) {
	results, err := s.client.GeoRadius(ctx, boothLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	booths := make([]BoothDistance, 0, len(results))
	for _, r := range results {
		booths = append(booths, BoothDistance{
			BoothID:    r.Name,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
			DistanceKm: r.Dist,
		})
	}

	return booths, nil
}

// Remove drops a booth from the geo index.
func (s *BoothIndex) Remove(ctx context.Context, boothID string) error {
	return s.client.ZRem(ctx, boothLocationKey, boothID).Err()
}
