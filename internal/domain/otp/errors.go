package otp

import "errors"

var (
	ErrUserNotRegistered = errors.New("User not registered")
	ErrInvalidOTP        = errors.New("Invalid OTP")
	ErrChallengeNotFound = errors.New("otp challenge not found")
	ErrSendFailed        = errors.New("Failed to send OTP")
)
