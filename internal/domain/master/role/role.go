package role

import (
	"context"
	"errors"
)

var ErrRoleNotFound = errors.New("Role not found")

type Role struct {
	ID   int64
	Name string
}

type RoleRepository interface {
	// EnsureByName returns the role with name, creating it when missing.
	EnsureByName(ctx context.Context, name string) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	GetByID(ctx context.Context, id int64) (Role, error)
}
