package otp

import (
	"context"
	"time"
)

// Store persists OTP challenges outside the process so verification
// survives restarts and works across instances.
type Store interface {
	// SaveCode replaces any existing challenge for email with a fresh code
	// and clears a previous verification. Failed attempts carry over while
	// the replaced code was still live at issuedAt.
	SaveCode(ctx context.Context, email, codeHash string, issuedAt, expiresAt time.Time) error

	// Get returns the challenge or ErrChallengeNotFound.
	Get(ctx context.Context, email string) (Challenge, error)

	// ReserveAttempt atomically counts one verification attempt and returns
	// the updated challenge. It returns ErrChallengeNotFound when there is
	// no challenge or maxAttempts were already used.
	ReserveAttempt(ctx context.Context, email string, maxAttempts int) (Challenge, error)

	// MarkVerified drops the code and records a verification valid until until.
	MarkVerified(ctx context.Context, email string, until time.Time) error

	// ConsumeVerified atomically deletes a live verification and reports
	// whether one existed.
	ConsumeVerified(ctx context.Context, email string, now time.Time) (bool, error)
}

// Purger is implemented by stores without native expiry. PurgeExpired
// removes challenges whose code and verification have both lapsed.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
