package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

// TollBoothRepository implements repository.TollBoothRepository using PostgreSQL.
type TollBoothRepository struct {
	q Querier
}

// NewTollBoothRepository creates a new TollBoothRepository.
func NewTollBoothRepository(db *sql.DB) *TollBoothRepository {
	return &TollBoothRepository{q: db}
}

// Create persists a new toll booth.
func (r *TollBoothRepository) Create(ctx context.Context, booth *domain.TollBooth) error {
	query := `
		INSERT INTO toll_booths (id, name, highway, lat, lng, express_fee)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		booth.ID,
		booth.Name,
		booth.Highway,
		booth.Lat,
		booth.Lng,
		booth.ExpressFee,
	)
	return err
}

// GetByID retrieves a toll booth by ID.
func (r *TollBoothRepository) GetByID(ctx context.Context, id string) (*domain.TollBooth, error) {
	query := `
		SELECT id, name, highway, lat, lng, express_fee, created_at
		FROM toll_booths WHERE id = $1
	`

	var booth domain.TollBooth
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&booth.ID,
		&booth.Name,
		&booth.Highway,
		&booth.Lat,
		&booth.Lng,
		&booth.ExpressFee,
		&booth.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &booth, nil
}

// GetAll retrieves all toll booths.
func (r *TollBoothRepository) GetAll(ctx context.Context) ([]*domain.TollBooth, error) {
	query := `
		SELECT id, name, highway, lat, lng, express_fee, created_at
		FROM toll_booths ORDER BY name
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var booths []*domain.TollBooth
	for rows.Next() {
		var booth domain.TollBooth
		if err := rows.Scan(
			&booth.ID,
			&booth.Name,
			&booth.Highway,
			&booth.Lat,
			&booth.Lng,
			&booth.ExpressFee,
			&booth.CreatedAt,
		); err != nil {
			return nil, err
		}
		booths = append(booths, &booth)
	}

	return booths, rows.Err()
}

// Ensure TollBoothRepository implements repository.TollBoothRepository.
var _ repository.TollBoothRepository = (*TollBoothRepository)(nil)
