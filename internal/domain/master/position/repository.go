package position

import "context"

type PositionRepository interface {
	// EnsureByName returns the position with name, creating it when missing.
	EnsureByName(ctx context.Context, name string) (Position, error)
	GetByID(ctx context.Context, id int64) (Position, error)
}
