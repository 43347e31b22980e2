package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository using PostgreSQL.
//
// Balance mutation is delegated to the update_user_balance stored procedure
// (see migrations), which performs the read-modify-write and the ledger
// insert server-side in one routine. Client code never reads the balance and
// writes it back, so concurrent deltas cannot lose updates.
type LedgerRepository struct {
	q Querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{q: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *LedgerRepository) WithTx(tx *sql.Tx) repository.LedgerRepository {
	return &LedgerRepository{q: tx}
}

// ApplyDelta applies a balance change and appends the matching ledger entry.
func (r *LedgerRepository) ApplyDelta(ctx context.Context, params repository.ApplyDeltaParams) (bool, error) {
	query := `SELECT update_user_balance($1, $2, $3, $4, $5, $6, $7)`

	var bookingID sql.NullString
	if params.BookingID != "" {
		bookingID = sql.NullString{String: params.BookingID, Valid: true}
	}

	var ok bool
	err := r.q.QueryRowContext(ctx, query,
		uuid.New().String(),
		params.UserID,
		params.Delta,
		params.Type,
		params.Description,
		bookingID,
		params.AllowNegative,
	).Scan(&ok)
	if err != nil {
		return false, err
	}

	return ok, nil
}

// GetByUser retrieves a user's ledger entries, newest first.
func (r *LedgerRepository) GetByUser(ctx context.Context, userID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, user_id, booking_id, type, amount, description, created_at
		FROM ledger_entries WHERE user_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// GetByBooking retrieves the ledger entries tied to a booking.
func (r *LedgerRepository) GetByBooking(ctx context.Context, bookingID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, user_id, booking_id, type, amount, description, created_at
		FROM ledger_entries WHERE booking_id = $1 ORDER BY created_at
	`
	return r.list(ctx, query, bookingID)
}

func (r *LedgerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.LedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var bookingID sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&bookingID,
			&entry.Type,
			&entry.Amount,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		if bookingID.Valid {
			entry.BookingID = bookingID.String
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Ensure LedgerRepository implements repository.LedgerRepository.
var _ repository.LedgerRepository = (*LedgerRepository)(nil)
