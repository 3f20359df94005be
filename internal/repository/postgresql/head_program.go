package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type headProgramRepositoryImpl struct {
	db *database.DB
}

func NewHeadProgramRepository(db *database.DB) headprogram.HeadProgramRepository {
	return &headProgramRepositoryImpl{db: db}
}

// Create implements headprogram.HeadProgramRepository.
func (r *headProgramRepositoryImpl) Create(ctx context.Context, hp headprogram.HeadProgram) (headprogram.HeadProgram, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO head_programs (name, program_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, program_id, user_id
	`

	var result headprogram.HeadProgram
	err := q.QueryRow(ctx, query, hp.Name, hp.ProgramID, hp.UserID).Scan(
		&result.ID, &result.Name, &result.ProgramID, &result.UserID,
	)
	if err != nil {
		return headprogram.HeadProgram{}, fmt.Errorf("failed to create head program: %w", err)
	}
	return result, nil
}

// GetByID implements headprogram.HeadProgramRepository.
func (r *headProgramRepositoryImpl) GetByID(ctx context.Context, id int64) (headprogram.HeadProgram, error) {
	return r.getOne(ctx, `SELECT id, name, program_id, user_id FROM head_programs WHERE id = $1`, id)
}

// GetByProgramID implements headprogram.HeadProgramRepository. The oldest row
// wins when a program has several.
func (r *headProgramRepositoryImpl) GetByProgramID(ctx context.Context, programID int64) (headprogram.HeadProgram, error) {
	return r.getOne(ctx, `
		SELECT id, name, program_id, user_id
		FROM head_programs
		WHERE program_id = $1
		ORDER BY id ASC
		LIMIT 1
	`, programID)
}

func (r *headProgramRepositoryImpl) getOne(ctx context.Context, query string, arg int64) (headprogram.HeadProgram, error) {
	q := GetQuerier(ctx, r.db)

	var result headprogram.HeadProgram
	err := q.QueryRow(ctx, query, arg).Scan(&result.ID, &result.Name, &result.ProgramID, &result.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return headprogram.HeadProgram{}, headprogram.ErrHeadProgramNotFound
		}
		return headprogram.HeadProgram{}, fmt.Errorf("failed to get head program: %w", err)
	}
	return result, nil
}
