package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type divisionRepositoryImpl struct {
	db *database.DB
}

func NewDivisionRepository(db *database.DB) division.DivisionRepository {
	return &divisionRepositoryImpl{db: db}
}

// EnsureByName implements division.DivisionRepository. An existing division
// keeps its program unless it had none.
func (r *divisionRepositoryImpl) EnsureByName(ctx context.Context, name string, programID *int64) (division.Division, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO divisions (name, program_id) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
			SET program_id = COALESCE(divisions.program_id, EXCLUDED.program_id)
		RETURNING id, name, program_id
	`

	var result division.Division
	if err := q.QueryRow(ctx, query, name, programID).Scan(&result.ID, &result.Name, &result.ProgramID); err != nil {
		return division.Division{}, fmt.Errorf("failed to ensure division: %w", err)
	}
	return result, nil
}

// GetByName implements division.DivisionRepository.
func (r *divisionRepositoryImpl) GetByName(ctx context.Context, name string) (division.Division, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.program_id, p.name
		FROM divisions d
		LEFT JOIN programs p ON p.id = d.program_id
		WHERE LOWER(d.name) = LOWER($1)
	`

	var result division.Division
	err := q.QueryRow(ctx, query, name).Scan(&result.ID, &result.Name, &result.ProgramID, &result.ProgramName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return division.Division{}, division.ErrDivisionNotFound
		}
		return division.Division{}, fmt.Errorf("failed to get division: %w", err)
	}
	return result, nil
}

// List implements division.DivisionRepository.
func (r *divisionRepositoryImpl) List(ctx context.Context) ([]division.Division, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.program_id, p.name
		FROM divisions d
		LEFT JOIN programs p ON p.id = d.program_id
		ORDER BY d.name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	defer rows.Close()

	var divisions []division.Division
	for rows.Next() {
		var d division.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.ProgramID, &d.ProgramName); err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return divisions, nil
}
