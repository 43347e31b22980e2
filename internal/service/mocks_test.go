package service

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"tollpass/internal/domain"
	"tollpass/internal/redis"
	"tollpass/internal/repository"
	"tollpass/internal/routing"
)

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) WithTx(tx *sql.Tx) repository.UserRepository { return m }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// mockBoothRepo is an in-memory TollBoothRepository preserving insert order.
type mockBoothRepo struct {
	mu     sync.Mutex
	booths []*domain.TollBooth
}

func newMockBoothRepo(booths ...*domain.TollBooth) *mockBoothRepo {
	return &mockBoothRepo{booths: booths}
}

func (m *mockBoothRepo) Create(ctx context.Context, booth *domain.TollBooth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.booths = append(m.booths, booth)
	return nil
}

func (m *mockBoothRepo) GetByID(ctx context.Context, id string) (*domain.TollBooth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, booth := range m.booths {
		if booth.ID == id {
			return booth, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockBoothRepo) GetAll(ctx context.Context) ([]*domain.TollBooth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.TollBooth(nil), m.booths...), nil
}

// mockBookingRepo is an in-memory BookingRepository. WithTx returns the
// receiver so transactional service code can be exercised against it; the
// guarded transitions use the same status checks as the SQL implementation.
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking

	createCalls     atomic.Int32
	completedCalls  atomic.Int32
	adjudicateCalls atomic.Int32
}

func newMockBookingRepo(bookings ...*domain.Booking) *mockBookingRepo {
	m := &mockBookingRepo{bookings: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepo) WithTx(tx *sql.Tx) repository.BookingRepository { return m }

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	m.createCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *mockBookingRepo) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepo) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		copied := *b
		bookings = append(bookings, &copied)
	}
	return bookings, nil
}

func (m *mockBookingRepo) GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if b.Status == status {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepo) GetPendingAdjudication(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var bookings []*domain.Booking
	for _, b := range m.bookings {
		if !b.AdminProcessed && b.Status.IsAdjudicable() {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	m.completedCalls.Add(1)
	return m.guardedUpdate(id, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
}

func (m *mockBookingRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return m.guardedUpdate(id, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
}

func (m *mockBookingRepo) Adjudicate(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	m.adjudicateCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != from || booking.AdminProcessed {
		return false, nil
	}
	booking.Status = to
	booking.AdminProcessed = true
	return true, nil
}

func (m *mockBookingRepo) guardedUpdate(id string, from, to domain.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	return true, nil
}

// mockLedgerRepo records balance deltas. It mimics the stored procedure's
// negative-balance guard against a starting balance supplied per user.
type mockLedgerRepo struct {
	mu       sync.Mutex
	balances map[string]float64
	entries  []repository.ApplyDeltaParams

	applyCalls atomic.Int32
}

func newMockLedgerRepo(balances map[string]float64) *mockLedgerRepo {
	if balances == nil {
		balances = make(map[string]float64)
	}
	return &mockLedgerRepo{balances: balances}
}

func (m *mockLedgerRepo) WithTx(tx *sql.Tx) repository.LedgerRepository { return m }

func (m *mockLedgerRepo) ApplyDelta(ctx context.Context, params repository.ApplyDeltaParams) (bool, error) {
	m.applyCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	delta, _ := params.Delta.Float64()
	next := m.balances[params.UserID] + delta
	if next < 0 && !params.AllowNegative {
		return false, nil
	}

	m.balances[params.UserID] = next
	m.entries = append(m.entries, params)
	return true, nil
}

func (m *mockLedgerRepo) GetByUser(ctx context.Context, userID string) ([]*domain.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerRepo) GetByBooking(ctx context.Context, bookingID string) ([]*domain.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerRepo) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// mockProvider returns canned routing results keyed by destination index.
type mockProvider struct {
	results []routing.Result
	err     error

	distanceCalls atomic.Int32
}

func (m *mockProvider) Distance(ctx context.Context, origin, dest routing.Point) (routing.Result, error) {
	m.distanceCalls.Add(1)
	if m.err != nil {
		return routing.Result{}, m.err
	}
	return m.results[0], nil
}

func (m *mockProvider) Distances(ctx context.Context, origin routing.Point, dests []routing.Point) ([]routing.Result, error) {
	m.distanceCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockLockStore always grants the sweep lock unless told otherwise.
type mockLockStore struct {
	denied bool

	acquireCalls atomic.Int32
	releaseCalls atomic.Int32
}

func (m *mockLockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	m.acquireCalls.Add(1)
	return !m.denied, nil
}

func (m *mockLockStore) ReleaseSweepLock(ctx context.Context) error {
	m.releaseCalls.Add(1)
	return nil
}

// mockBoothIndex serves a canned nearest-booth list.
type mockBoothIndex struct {
	nearby []redis.BoothDistance
	err    error
}

func (m *mockBoothIndex) Add(ctx context.Context, boothID string, lat, lng float64) error { return nil }

func (m *mockBoothIndex) Nearest(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]redis.BoothDistance, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.nearby, nil
}

func (m *mockBoothIndex) Remove(ctx context.Context, boothID string) error { return nil }

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.UserRepository      = (*mockUserRepo)(nil)
	_ repository.TollBoothRepository = (*mockBoothRepo)(nil)
	_ repository.BookingRepository   = (*mockBookingRepo)(nil)
	_ repository.LedgerRepository    = (*mockLedgerRepo)(nil)
	_ routing.Provider               = (*mockProvider)(nil)
	_ redis.LockStoreInterface       = (*mockLockStore)(nil)
	_ redis.BoothIndexInterface      = (*mockBoothIndex)(nil)
)
