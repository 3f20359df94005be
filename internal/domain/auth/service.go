package auth

import "context"

type AuthService interface {
	// Login verifies credentials and composes the profile payload. locale
	// selects the greeting language.
	Login(ctx context.Context, req LoginRequest, locale string) (LoginResponse, error)

	// ResetPassword consumes the OTP verification flag for the email and
	// stores the new password hash.
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
