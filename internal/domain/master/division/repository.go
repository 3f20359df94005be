package division

import "context"

type DivisionRepository interface {
	// EnsureByName returns the division with name, creating it under
	// programID when missing.
	EnsureByName(ctx context.Context, name string, programID *int64) (Division, error)
	GetByName(ctx context.Context, name string) (Division, error)
	List(ctx context.Context) ([]Division, error)
}
