package otp

import "context"

// CodeLength is the number of digits in a generated OTP.
const CodeLength = 6

type OTPService interface {
	SendOTP(ctx context.Context, req SendOTPRequest, locale string) (SendOTPResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error

	// ConsumeVerification is used by password reset; it succeeds once per
	// successful VerifyOTP.
	ConsumeVerification(ctx context.Context, email string) (bool, error)
}
