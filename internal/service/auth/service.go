package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
	leaveservice "github.com/infinite-track/hris-backend-go/internal/service/leave"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	otpService  otp.OTPService
	ledger      *leaveservice.Ledger
	fileService file.FileService
	translator  *i18n.Translator
	location    *time.Location
	now         func() time.Time
	bcryptCost  int
}

func NewAuthService(
	userRepository user.UserRepository,
	jwtService jwt.Service,
	otpService otp.OTPService,
	ledger *leaveservice.Ledger,
	fileService file.FileService,
	translator *i18n.Translator,
	location *time.Location,
) auth.AuthService {
	if location == nil {
		location = time.Local
	}
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		otpService:     otpService,
		ledger:         ledger,
		fileService:    fileService,
		translator:     translator,
		location:       location,
		now:            time.Now,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, locale string) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrEmailOrPasswordWrong
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidPassword
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.RoleName)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	// a user created before the ledger existed simply reports zero
	balance, err := a.ledger.Get(ctx, userData.ID)
	if err != nil && !errors.Is(err, leave.ErrBalanceNotFound) {
		return auth.LoginResponse{}, err
	}

	missing := userData.MissingProfileFields()
	hour := a.now().In(a.location).Hour()

	resp := auth.LoginResponse{
		Token:             token,
		ExpiresAt:         expiresAt,
		UserID:            userData.ID,
		UserName:          userData.Name,
		Email:             userData.Email,
		Role:              userData.RoleName,
		Position:          userData.PositionName,
		Division:          userData.DivisionName,
		Program:           userData.ProgramName,
		HeadProgram:       userData.HeadProgramName,
		Greeting:          a.translator.T(locale, auth.GreetingFor(hour)),
		AnnualBalance:     balance.AnnualBalance,
		AnnualUsed:        balance.AnnualUsed,
		ProfileIncomplete: len(missing) > 0,
		MissingFields:     missing,
	}
	if userData.PhotoPath != nil {
		url := a.fileService.GetFileURL(*userData.PhotoPath)
		resp.PhotoURL = &url
	}

	logger.From(ctx).Info("user logged in", slog.Int64("user_id", userData.ID), slog.String("role", userData.RoleName))
	return resp, nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return auth.ErrPasswordMismatch
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verified, err := a.otpService.ConsumeVerification(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return auth.ErrOTPNotVerified
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.UserRepository.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.From(ctx).Info("password reset", slog.String("email", email))
	return nil
}
