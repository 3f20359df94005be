package http

import (
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)

	SendOTP(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
	otpService  otp.OTPService
}

func NewAuthHandler(authService auth.AuthService, otpService otp.OTPService) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
		otpService:  otpService,
	}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	resp, err := h.authService.Login(r.Context(), req, i18n.LocaleFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", resp)
}

// ResetPassword implements AuthHandler.
func (h *authHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}

// SendOTP implements AuthHandler.
func (h *authHandlerImpl) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otp.SendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	resp, err := h.otpService.SendOTP(r.Context(), req, i18n.LocaleFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "OTP sent to email", resp)
}

// VerifyOTP implements AuthHandler.
func (h *authHandlerImpl) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otp.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	if err := h.otpService.VerifyOTP(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "OTP verified", nil)
}
