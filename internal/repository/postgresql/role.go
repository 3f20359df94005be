package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/role"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type roleRepositoryImpl struct {
	db *database.DB
}

func NewRoleRepository(db *database.DB) role.RoleRepository {
	return &roleRepositoryImpl{db: db}
}

// EnsureByName implements role.RoleRepository.
func (r *roleRepositoryImpl) EnsureByName(ctx context.Context, name string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO roles (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`

	var result role.Role
	if err := q.QueryRow(ctx, query, name).Scan(&result.ID, &result.Name); err != nil {
		return role.Role{}, fmt.Errorf("failed to ensure role: %w", err)
	}
	return result, nil
}

// GetByName implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByName(ctx context.Context, name string) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	var result role.Role
	err := q.QueryRow(ctx, `SELECT id, name FROM roles WHERE LOWER(name) = LOWER($1)`, name).Scan(&result.ID, &result.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return result, nil
}

// GetByID implements role.RoleRepository.
func (r *roleRepositoryImpl) GetByID(ctx context.Context, id int64) (role.Role, error) {
	q := GetQuerier(ctx, r.db)

	var result role.Role
	err := q.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, id).Scan(&result.ID, &result.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return role.Role{}, role.ErrRoleNotFound
		}
		return role.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return result, nil
}
