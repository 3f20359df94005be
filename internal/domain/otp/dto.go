package otp

import "github.com/infinite-track/hris-backend-go/internal/pkg/validator"

type SendOTPRequest struct {
	Email string `json:"email"`
}

func (r *SendOTPRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "Email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	return errs.Err()
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "Email is required")
	}
	if validator.IsEmpty(r.OTP) {
		errs.Add("otp", "otp is required")
	} else if len(r.OTP) != CodeLength || !validator.IsNumeric(r.OTP) {
		errs.Add("otp", "otp must be a 6 digit code")
	}
	return errs.Err()
}

type SendOTPResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}
