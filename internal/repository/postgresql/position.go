package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/position"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

// EnsureByName implements position.PositionRepository.
func (r *positionRepositoryImpl) EnsureByName(ctx context.Context, name string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO positions (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`

	var result position.Position
	if err := q.QueryRow(ctx, query, name).Scan(&result.ID, &result.Name); err != nil {
		return position.Position{}, fmt.Errorf("failed to ensure position: %w", err)
	}
	return result, nil
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id int64) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name
		FROM positions
		WHERE id = $1
	`

	var result position.Position
	err := q.QueryRow(ctx, query, id).Scan(&result.ID, &result.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return result, nil
}
