package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("hello"), "leave/7/doc.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "leave/7/doc.pdf", key)

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "leave", "7", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, key := range []string{"../escape.txt", "a/../../escape.txt", "/etc/passwd", ""} {
		_, err := s.Upload(ctx, strings.NewReader("x"), key, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, key)
	}
}

func TestLocalStorage_URL(t *testing.T) {
	s := newTestStorage(t)

	assert.Equal(t, "http://localhost:8080/uploads/attendance/2024-01-02/1.jpg", s.URL("attendance/2024-01-02/1.jpg"))
	assert.Equal(t, "", s.URL(""))
}
