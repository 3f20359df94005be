package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores file under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Delete(ctx context.Context, path string) error

	// URL returns the public address of a stored key.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
