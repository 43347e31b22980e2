package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"tollpass/internal/auth"
	"tollpass/internal/domain"
	"tollpass/internal/metrics"
	"tollpass/internal/repository"
)

// Flat-rate adjudication amounts. The refund is a partial compensation for
// drivers who booked express but used the regular lane; the fine penalizes
// unauthorized FastTag lane use.
var (
	refundAmount = decimal.NewFromInt(50)
	fineAmount   = decimal.NewFromInt(1000)
)

// AdminService applies the one-time adjudication decisions to settled
// bookings. Every action pairs the compare-and-set on admin_processed with
// its ledger movement in a single transaction, so two administrators racing
// on the same booking produce exactly one durable outcome.
type AdminService struct {
	db          *sql.DB
	bookingRepo repository.BookingRepository
	ledgerRepo  repository.LedgerRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *sql.DB, bookingRepo repository.BookingRepository, ledgerRepo repository.LedgerRepository) *AdminService {
	return &AdminService{db: db, bookingRepo: bookingRepo, ledgerRepo: ledgerRepo}
}

// Refund credits a flat 50 units to a completed booking's owner and closes
// the booking as refund.
func (s *AdminService) Refund(ctx context.Context, sess auth.Session, bookingID string) error {
	return s.adjudicate(ctx, sess, bookingID, adjudication{
		action:      "refund",
		from:        domain.BookingStatusCompleted,
		to:          domain.BookingStatusRefund,
		delta:       refundAmount,
		ledgerType:  domain.LedgerTypeRefund,
		description: "express lane refund",
	})
}

// NoRefund closes a completed booking without compensation.
func (s *AdminService) NoRefund(ctx context.Context, sess auth.Session, bookingID string) error {
	return s.adjudicate(ctx, sess, bookingID, adjudication{
		action: "no_refund",
		from:   domain.BookingStatusCompleted,
		to:     domain.BookingStatusCompleted,
	})
}

// Fine debits a flat 1000 units from a fasttag booking's owner and closes
// the booking as fined. The debit applies regardless of balance sufficiency.
func (s *AdminService) Fine(ctx context.Context, sess auth.Session, bookingID string) error {
	return s.adjudicate(ctx, sess, bookingID, adjudication{
		action:        "fine",
		from:          domain.BookingStatusFastTag,
		to:            domain.BookingStatusFined,
		delta:         fineAmount.Neg(),
		ledgerType:    domain.LedgerTypeFine,
		description:   "fasttag lane misuse fine",
		allowNegative: true,
	})
}

// NoFine closes a fasttag booking without penalty; the status stays fasttag.
func (s *AdminService) NoFine(ctx context.Context, sess auth.Session, bookingID string) error {
	return s.adjudicate(ctx, sess, bookingID, adjudication{
		action: "no_fine",
		from:   domain.BookingStatusFastTag,
		to:     domain.BookingStatusFastTag,
	})
}

// PendingAdjudications lists bookings still awaiting an admin decision.
func (s *AdminService) PendingAdjudications(ctx context.Context, sess auth.Session) ([]*domain.Booking, error) {
	if !sess.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.bookingRepo.GetPendingAdjudication(ctx)
}

type adjudication struct {
	action        string
	from          domain.BookingStatus
	to            domain.BookingStatus
	delta         decimal.Decimal
	ledgerType    domain.LedgerType
	description   string
	allowNegative bool
}

func (s *AdminService) adjudicate(ctx context.Context, sess auth.Session, bookingID string, adj adjudication) error {
	if !sess.IsAdmin() {
		return ErrAdminOnly
	}
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.AdminProcessed {
		return ErrAlreadyAdjudicated
	}
	if booking.Status != adj.from {
		return ErrNotAdjudicable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The CAS: only one transaction can flip admin_processed. Losing a race
	// after the pre-flight read surfaces here as rowsAffected 0.
	var ok bool
	ok, err = s.bookingRepo.WithTx(tx).Adjudicate(ctx, bookingID, adj.from, adj.to)
	if err != nil {
		return err
	}
	if !ok {
		err = ErrAlreadyAdjudicated
		return err
	}

	if !adj.delta.IsZero() {
		if _, err = s.ledgerRepo.WithTx(tx).ApplyDelta(ctx, repository.ApplyDeltaParams{
			UserID:        booking.UserID,
			Delta:         adj.delta,
			Type:          adj.ledgerType,
			Description:   adj.description,
			BookingID:     booking.ID,
			AllowNegative: adj.allowNegative,
		}); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	metrics.AdjudicationsTotal.WithLabelValues(adj.action).Inc()
	return nil
}
