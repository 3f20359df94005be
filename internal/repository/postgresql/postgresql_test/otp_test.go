package postgresql_test

import (
	"sync"
	"testing"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStore_Lifecycle(t *testing.T) {
	ctx := requireDB(t)
	store := postgresql.NewOTPStore(testDB)
	now := time.Now()

	_, err := store.Get(ctx, "x@example.com")
	assert.ErrorIs(t, err, otp.ErrChallengeNotFound)

	require.NoError(t, store.SaveCode(ctx, "X@example.com", "hash", now, now.Add(5*time.Minute)))
	reserved, err := store.ReserveAttempt(ctx, "x@example.com", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, reserved.Attempts)
	assert.Equal(t, "hash", reserved.CodeHash)

	c, err := store.Get(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Attempts)
	assert.Equal(t, "hash", c.CodeHash)
	assert.Nil(t, c.VerifiedUntil)

	ok, err := store.ConsumeVerified(ctx, "x@example.com", now)
	require.NoError(t, err)
	assert.False(t, ok, "unverified challenge must not be consumable")

	require.NoError(t, store.MarkVerified(ctx, "x@example.com", now.Add(15*time.Minute)))

	ok, err = store.ConsumeVerified(ctx, "x@example.com", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ConsumeVerified(ctx, "x@example.com", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPStore_PurgeExpired(t *testing.T) {
	ctx := requireDB(t)
	store := postgresql.NewOTPStore(testDB)
	purger, ok := store.(otp.Purger)
	require.True(t, ok)
	now := time.Now()

	require.NoError(t, store.SaveCode(ctx, "stale@example.com", "hash", now, now.Add(-time.Minute)))
	require.NoError(t, store.SaveCode(ctx, "live@example.com", "hash", now, now.Add(5*time.Minute)))
	require.NoError(t, store.SaveCode(ctx, "verified@example.com", "hash", now, now.Add(-time.Minute)))
	require.NoError(t, store.MarkVerified(ctx, "verified@example.com", now.Add(10*time.Minute)))

	n, err := purger.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Get(ctx, "stale@example.com")
	assert.ErrorIs(t, err, otp.ErrChallengeNotFound)
	_, err = store.Get(ctx, "live@example.com")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "verified@example.com")
	assert.NoError(t, err)
}

func TestOTPStore_ReserveAttemptStopsAtLimit(t *testing.T) {
	ctx := requireDB(t)
	store := postgresql.NewOTPStore(testDB)
	now := time.Now()

	_, err := store.ReserveAttempt(ctx, "x@example.com", 5)
	assert.ErrorIs(t, err, otp.ErrChallengeNotFound)

	require.NoError(t, store.SaveCode(ctx, "x@example.com", "hash", now, now.Add(5*time.Minute)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var granted int
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ReserveAttempt(ctx, "x@example.com", 5); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, granted)

	_, err = store.ReserveAttempt(ctx, "x@example.com", 5)
	assert.ErrorIs(t, err, otp.ErrChallengeNotFound)

	// A resend while the code is live keeps the count.
	require.NoError(t, store.SaveCode(ctx, "x@example.com", "again", now.Add(time.Minute), now.Add(6*time.Minute)))
	c, err := store.Get(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Attempts)
	assert.Equal(t, "again", c.CodeHash)

	// Once it has lapsed a resend starts over.
	require.NoError(t, store.SaveCode(ctx, "x@example.com", "fresh", now.Add(7*time.Minute), now.Add(12*time.Minute)))
	c, err = store.Get(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Zero(t, c.Attempts)
}
