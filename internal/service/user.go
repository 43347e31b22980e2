package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

// UserService handles account registration. Driver accounts start with the
// seed balance, credited through the ledger so the opening position shows up
// in the audit trail like every other balance movement.
type UserService struct {
	db         *sql.DB
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, userRepo repository.UserRepository, ledgerRepo repository.LedgerRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo, ledgerRepo: ledgerRepo}
}

// RegisterUserRequest contains the parameters for account registration.
type RegisterUserRequest struct {
	Name         string
	Email        string
	LicensePlate string
	Role         domain.Role
}

// Register creates an account. For drivers the user row and the seed credit
// commit in one transaction, so a registered driver always has a matching
// account_topup entry.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		LicensePlate: domain.NormalizeLicensePlate(req.LicensePlate),
		Balance:      decimal.Zero,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == domain.RoleDriver {
		if _, err = s.ledgerRepo.WithTx(tx).ApplyDelta(ctx, repository.ApplyDeltaParams{
			UserID:      user.ID,
			Delta:       domain.SeedBalance,
			Type:        domain.LedgerTypeAccountTopup,
			Description: "signup seed balance",
		}); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if user.Role == domain.RoleDriver {
		user.Balance = domain.SeedBalance
	}
	return user, nil
}
