package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "lock:booking-sweep"

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSweepLock attempts to take the expiry-sweep leader lock.
// Returns true if the lock was acquired, false if another instance holds it.
func (s *LockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, sweepLockKey, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseSweepLock releases the expiry-sweep leader lock.
func (s *LockStore) ReleaseSweepLock(ctx context.Context) error {
	return s.client.Del(ctx, sweepLockKey).Err()
}
