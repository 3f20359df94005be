package program

import (
	"context"
	"errors"
)

var ErrProgramNotFound = errors.New("Program not found")

type Program struct {
	ID   int64
	Name string
}

type ProgramRepository interface {
	EnsureByName(ctx context.Context, name string) (Program, error)
	GetByName(ctx context.Context, name string) (Program, error)
}
