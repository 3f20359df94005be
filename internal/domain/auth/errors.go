package auth

import "errors"

var (
	ErrEmailOrPasswordWrong = errors.New("Email or password is wrong")
	ErrInvalidPassword      = errors.New("Invalid password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrPasswordMismatch     = errors.New("Passwords do not match")
	ErrOTPNotVerified       = errors.New("OTP not verified or verification expired")
)
