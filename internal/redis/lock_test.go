package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestAcquireSweepLock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewLockStore(client)

	mock.ExpectSetNX(sweepLockKey, "1", 30*time.Second).SetVal(true)

	ok, err := store.AcquireSweepLock(context.Background(), 30*time.Second)
	if err != nil {
		t.Fatalf("AcquireSweepLock() error = %v", err)
	}
	if !ok {
		t.Error("AcquireSweepLock() = false, want true")
	}
}

func TestAcquireSweepLockHeldElsewhere(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewLockStore(client)

	mock.ExpectSetNX(sweepLockKey, "1", 30*time.Second).SetVal(false)

	ok, err := store.AcquireSweepLock(context.Background(), 30*time.Second)
	if err != nil {
		t.Fatalf("AcquireSweepLock() error = %v", err)
	}
	if ok {
		t.Error("AcquireSweepLock() = true while held elsewhere, want false")
	}
}

func TestReleaseSweepLock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewLockStore(client)

	mock.ExpectDel(sweepLockKey).SetVal(1)

	if err := store.ReleaseSweepLock(context.Background()); err != nil {
		t.Fatalf("ReleaseSweepLock() error = %v", err)
	}
}
