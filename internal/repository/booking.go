package repository

import (
	"context"
	"database/sql"

	"tollpass/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *sql.Tx) BookingRepository

	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByUser retrieves all bookings owned by a user, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByStatus retrieves all bookings in the given status.
	GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error)

	// GetPendingAdjudication retrieves completed and fasttag bookings that
	// have not yet been adjudicated.
	GetPendingAdjudication(ctx context.Context) ([]*domain.Booking, error)

	// MarkCompleted transitions a booking from confirmed to completed.
	// Returns false when the booking was not in confirmed state, which is
	// how a redundant sweep observes that the work is already done.
	MarkCompleted(ctx context.Context, id string) (bool, error)

	// MarkCancelled transitions a booking from confirmed to cancelled.
	// Returns false when the booking was not in confirmed state.
	MarkCancelled(ctx context.Context, id string) (bool, error)

	// Adjudicate atomically sets admin_processed and moves the booking from
	// one status to another. The guard admin_processed = FALSE is checked
	// and set in the same statement, so of two concurrent adjudications at
	// most one returns true.
	Adjudicate(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
}
