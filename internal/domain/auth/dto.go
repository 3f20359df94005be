package auth

import "github.com/infinite-track/hris-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	errs.Required("password", r.Password)

	return errs.Err()
}

// LoginResponse is the profile payload returned after a successful login.
type LoginResponse struct {
	Token             string   `json:"token"`
	ExpiresAt         int64    `json:"expiresAt"`
	UserID            int64    `json:"userId"`
	UserName          string   `json:"userName"`
	Email             string   `json:"email"`
	Role              string   `json:"userRole"`
	Position          *string  `json:"position"`
	Division          *string  `json:"division"`
	Program           *string  `json:"program"`
	HeadProgram       *string  `json:"headProgram"`
	Greeting          string   `json:"greeting"`
	AnnualBalance     int      `json:"annualBalance"`
	AnnualUsed        int      `json:"annualUsed"`
	ProfileIncomplete bool     `json:"profileIncomplete"`
	MissingFields     []string `json:"missingFields"`
	PhotoURL          *string  `json:"photo,omitempty"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if len(r.NewPassword) < 8 {
		errs.Add("newPassword", "newPassword must be at least 8 characters")
	}
	errs.Required("confirmPassword", r.ConfirmPassword)

	return errs.Err()
}
