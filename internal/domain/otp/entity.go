package otp

import "time"

// Challenge is the pending or verified OTP state for one email.
type Challenge struct {
	Email         string
	CodeHash      string
	ExpiresAt     time.Time
	Attempts      int
	VerifiedUntil *time.Time
}

func (c Challenge) CodeExpired(now time.Time) bool {
	return c.CodeHash == "" || !now.Before(c.ExpiresAt)
}
