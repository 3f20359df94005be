package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type programRepositoryImpl struct {
	db *database.DB
}

func NewProgramRepository(db *database.DB) program.ProgramRepository {
	return &programRepositoryImpl{db: db}
}

// EnsureByName implements program.ProgramRepository.
func (r *programRepositoryImpl) EnsureByName(ctx context.Context, name string) (program.Program, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO programs (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`

	var result program.Program
	if err := q.QueryRow(ctx, query, name).Scan(&result.ID, &result.Name); err != nil {
		return program.Program{}, fmt.Errorf("failed to ensure program: %w", err)
	}
	return result, nil
}

// GetByName implements program.ProgramRepository.
func (r *programRepositoryImpl) GetByName(ctx context.Context, name string) (program.Program, error) {
	q := GetQuerier(ctx, r.db)

	var result program.Program
	err := q.QueryRow(ctx, `SELECT id, name FROM programs WHERE LOWER(name) = LOWER($1)`, name).Scan(&result.ID, &result.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return program.Program{}, program.ErrProgramNotFound
		}
		return program.Program{}, fmt.Errorf("failed to get program: %w", err)
	}
	return result, nil
}
