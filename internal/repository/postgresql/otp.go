package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type otpStoreImpl struct {
	db *database.DB
}

func NewOTPStore(db *database.DB) otp.Store {
	return &otpStoreImpl{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SaveCode implements otp.Store.
func (s *otpStoreImpl) SaveCode(ctx context.Context, email, codeHash string, issuedAt, expiresAt time.Time) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO otp_codes (email, code_hash, expires_at, attempts, verified_until, created_at)
		VALUES ($1, $2, $3, 0, NULL, NOW())
		ON CONFLICT (email) DO UPDATE
			SET code_hash = EXCLUDED.code_hash,
			    expires_at = EXCLUDED.expires_at,
			    attempts = CASE WHEN otp_codes.expires_at > $4 THEN otp_codes.attempts ELSE 0 END,
			    verified_until = NULL,
			    created_at = NOW()
	`

	if _, err := q.Exec(ctx, query, normalizeEmail(email), codeHash, expiresAt, issuedAt); err != nil {
		return fmt.Errorf("failed to save otp code: %w", err)
	}
	return nil
}

// Get implements otp.Store.
func (s *otpStoreImpl) Get(ctx context.Context, email string) (otp.Challenge, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT email, code_hash, expires_at, attempts, verified_until
		FROM otp_codes
		WHERE email = $1
	`

	var c otp.Challenge
	err := q.QueryRow(ctx, query, normalizeEmail(email)).Scan(&c.Email, &c.CodeHash, &c.ExpiresAt, &c.Attempts, &c.VerifiedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return otp.Challenge{}, otp.ErrChallengeNotFound
		}
		return otp.Challenge{}, fmt.Errorf("failed to get otp challenge: %w", err)
	}
	return c, nil
}

// ReserveAttempt implements otp.Store.
func (s *otpStoreImpl) ReserveAttempt(ctx context.Context, email string, maxAttempts int) (otp.Challenge, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE otp_codes
		SET attempts = attempts + 1
		WHERE email = $1 AND attempts < $2
		RETURNING email, code_hash, expires_at, attempts, verified_until
	`

	var c otp.Challenge
	err := q.QueryRow(ctx, query, normalizeEmail(email), maxAttempts).Scan(&c.Email, &c.CodeHash, &c.ExpiresAt, &c.Attempts, &c.VerifiedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return otp.Challenge{}, otp.ErrChallengeNotFound
		}
		return otp.Challenge{}, fmt.Errorf("failed to reserve otp attempt: %w", err)
	}
	return c, nil
}

// MarkVerified implements otp.Store.
func (s *otpStoreImpl) MarkVerified(ctx context.Context, email string, until time.Time) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE otp_codes
		SET code_hash = '', attempts = 0, verified_until = $2
		WHERE email = $1
	`

	tag, err := q.Exec(ctx, query, normalizeEmail(email), until)
	if err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return otp.ErrChallengeNotFound
	}
	return nil
}

// ConsumeVerified implements otp.Store.
func (s *otpStoreImpl) ConsumeVerified(ctx context.Context, email string, now time.Time) (bool, error) {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1 AND verified_until > $2`, normalizeEmail(email), now)
	if err != nil {
		return false, fmt.Errorf("failed to consume otp verification: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// PurgeExpired implements otp.Purger.
func (s *otpStoreImpl) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		DELETE FROM otp_codes
		WHERE expires_at <= $1
		  AND (verified_until IS NULL OR verified_until <= $1)
	`

	tag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge otp codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
