package repository

import (
	"context"
	"database/sql"

	"tollpass/internal/domain"
)

// UserRepository defines the persistence operations for user accounts.
//
// Note there is no balance setter here: balances move only through
// LedgerRepository.ApplyDelta.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// WithTx returns a copy of the repository bound to the transaction.
	WithTx(tx *sql.Tx) UserRepository
}
