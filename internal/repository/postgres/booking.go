package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

const bookingColumns = `
	id, user_id, toll_booth_id, booking_date, time_slot, distance_km,
	amount, status, admin_processed, created_at, updated_at
`

// BookingRepository implements repository.BookingRepository using PostgreSQL.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *BookingRepository) WithTx(tx *sql.Tx) repository.BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, toll_booth_id, booking_date, time_slot,
			distance_km, amount, status, admin_processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.TollBoothID,
		booking.BookingDate,
		booking.TimeSlot,
		booking.DistanceKm,
		booking.Amount,
		booking.Status,
		booking.AdminProcessed,
	)
	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetByUser retrieves all bookings owned by a user, newest first.
func (r *BookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// GetByStatus retrieves all bookings in the given status.
func (r *BookingRepository) GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at`
	return r.list(ctx, query, status)
}

// GetPendingAdjudication retrieves completed and fasttag bookings that have
// not yet been adjudicated.
func (r *BookingRepository) GetPendingAdjudication(ctx context.Context) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE admin_processed = FALSE AND status IN ($1, $2)
		ORDER BY created_at
	`
	return r.list(ctx, query, domain.BookingStatusCompleted, domain.BookingStatusFastTag)
}

// MarkCompleted transitions a booking from confirmed to completed.
func (r *BookingRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	return r.guardedStatusUpdate(ctx, id, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
}

// MarkCancelled transitions a booking from confirmed to cancelled.
func (r *BookingRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return r.guardedStatusUpdate(ctx, id, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
}

// Adjudicate atomically flips admin_processed and moves status from -> to.
// The WHERE clause is the compare-and-set: of two concurrent adjudications
// at most one statement matches the row.
func (r *BookingRepository) Adjudicate(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, admin_processed = TRUE, updated_at = now()
		WHERE id = $2 AND status = $3 AND admin_processed = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *BookingRepository) guardedStatusUpdate(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanBooking maps a row onto a Booking, normalizing the stored status onto
// the canonical enum. This is the only place raw status strings are seen.
func scanBooking(s scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var rawStatus string

	if err := s.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.TollBoothID,
		&booking.BookingDate,
		&booking.TimeSlot,
		&booking.DistanceKm,
		&booking.Amount,
		&rawStatus,
		&booking.AdminProcessed,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}

	status, ok := domain.NormalizeBookingStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("booking %s: unknown status %q", booking.ID, rawStatus)
	}
	booking.Status = status

	return &booking, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
