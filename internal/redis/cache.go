package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Booths are immutable reference data, so they cache well. Distances and
// durations are never cached: eligibility always asks the provider.
const (
	BoothCacheTTL = 10 * time.Minute

	boothCachePrefix = "cache:tollbooth:"
)

// CachedBooth represents a cached toll booth entity.
type CachedBooth struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Highway    string  `json:"highway"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ExpressFee string  `json:"express_fee"`
}

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetBooth retrieves a booth from cache. Returns nil on a miss.
func (s *CacheStore) GetBooth(ctx context.Context, boothID string) (*CachedBooth, error) {
	data, err := s.client.Get(ctx, boothCachePrefix+boothID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var booth CachedBooth
	if err := json.Unmarshal(data, &booth); err != nil {
		return nil, err
	}
	return &booth, nil
}

// SetBooth caches a booth.
func (s *CacheStore) SetBooth(ctx context.Context, booth *CachedBooth) error {
	data, err := json.Marshal(booth)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, boothCachePrefix+booth.ID, data, BoothCacheTTL).Err()
}

// InvalidateBooth drops a booth from cache.
func (s *CacheStore) InvalidateBooth(ctx context.Context, boothID string) error {
	return s.client.Del(ctx, boothCachePrefix+boothID).Err()
}
