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

// LedgerService exposes the balance/ledger operations drivers call directly.
// All mutation goes through LedgerRepository.ApplyDelta; this service adds
// ownership checks and transaction boundaries.
type LedgerService struct {
	db         *sql.DB
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(db *sql.DB, ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository) *LedgerService {
	return &LedgerService{db: db, ledgerRepo: ledgerRepo, userRepo: userRepo}
}

// TopUp credits the session's own account.
func (s *LedgerService) TopUp(ctx context.Context, sess auth.Session, userID string, amount decimal.Decimal) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if userID != sess.UserID && !sess.IsAdmin() {
		return ErrForbidden
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
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

	if _, err = s.ledgerRepo.WithTx(tx).ApplyDelta(ctx, repository.ApplyDeltaParams{
		UserID:      userID,
		Delta:       amount,
		Type:        domain.LedgerTypeAccountTopup,
		Description: "account top-up",
	}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	metrics.TopUpsTotal.Inc()
	return nil
}

// History returns a user's ledger entries; drivers see only their own.
func (s *LedgerService) History(ctx context.Context, sess auth.Session, userID string) ([]*domain.LedgerEntry, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if userID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.ledgerRepo.GetByUser(ctx, userID)
}
