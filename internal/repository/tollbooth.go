package repository

import (
	"context"

	"tollpass/internal/domain"
)

// TollBoothRepository defines the persistence operations for toll booths.
type TollBoothRepository interface {
	// Create persists a new toll booth.
	Create(ctx context.Context, booth *domain.TollBooth) error

	// GetByID retrieves a toll booth by ID.
	GetByID(ctx context.Context, id string) (*domain.TollBooth, error)

	// GetAll retrieves all toll booths.
	GetAll(ctx context.Context) ([]*domain.TollBooth, error)
}
