package redis

import (
	"context"
	"time"
)

// BoothIndexInterface defines the interface for the booth geo index.
type BoothIndexInterface interface {
	Add(ctx context.Context, boothID string, lat, lng float64) error
	Nearest(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]BoothDistance, error)
	Remove(ctx context.Context, boothID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ BoothIndexInterface = (*BoothIndex)(nil)
	_ LockStoreInterface  = (*LockStore)(nil)
)
