package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"tollpass/internal/domain"
)

// ApplyDeltaParams describes a single balance movement.
type ApplyDeltaParams struct {
	UserID      string
	Delta       decimal.Decimal // signed: negative debits, positive credits
	Type        domain.LedgerType
	Description string
	BookingID   string // empty when not tied to a booking
	// AllowNegative permits the balance to go below zero. Only fines set it.
	AllowNegative bool
}

// LedgerRepository is the single mutation path for account balances.
type LedgerRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *sql.Tx) LedgerRepository

	// ApplyDelta applies a balance change and appends the matching ledger
	// entry. Both happen server-side in the update_user_balance routine, so
	// the read-modify-write is atomic and concurrent deltas serialize.
	// Returns false when the delta would take the balance negative and
	// AllowNegative is not set; nothing is written in that case.
	ApplyDelta(ctx context.Context, params ApplyDeltaParams) (bool, error)

	// GetByUser retrieves a user's ledger entries, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.LedgerEntry, error)

	// GetByBooking retrieves the ledger entries tied to a booking.
	GetByBooking(ctx context.Context, bookingID string) ([]*domain.LedgerEntry, error)
}
