package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/email"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	CodeTTL     time.Duration
	VerifiedTTL time.Duration
	MaxAttempts int
	Now         func() time.Time
}

type OTPServiceImpl struct {
	store        otp.Store
	users        user.UserRepository
	emailService email.EmailService
	translator   *i18n.Translator
	opts         Options
	generate     func() (string, error)
	bcryptCost   int
}

func NewOTPService(store otp.Store, users user.UserRepository, emailService email.EmailService, translator *i18n.Translator, opts Options) otp.OTPService {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 5 * time.Minute
	}
	if opts.VerifiedTTL <= 0 {
		opts.VerifiedTTL = 15 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OTPServiceImpl{
		store:        store,
		users:        users,
		emailService: emailService,
		translator:   translator,
		opts:         opts,
		generate:     generateCode,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

var codeLimit = big.NewInt(1_000_000)

// generateCode returns a uniformly random zero-padded 6 digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeLimit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otp.CodeLength, n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendOTP implements otp.OTPService.
func (s *OTPServiceImpl) SendOTP(ctx context.Context, req otp.SendOTPRequest, locale string) (otp.SendOTPResponse, error) {
	if err := req.Validate(); err != nil {
		return otp.SendOTPResponse{}, err
	}
	address := normalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return otp.SendOTPResponse{}, otp.ErrUserNotRegistered
		}
		return otp.SendOTPResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := s.generate()
	if err != nil {
		return otp.SendOTPResponse{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return otp.SendOTPResponse{}, fmt.Errorf("failed to hash otp: %w", err)
	}

	expiresAt := s.opts.Now().Add(s.opts.CodeTTL)
	if err := s.store.SaveCode(ctx, address, string(hash), s.opts.Now(), expiresAt); err != nil {
		return otp.SendOTPResponse{}, fmt.Errorf("failed to save otp: %w", err)
	}

	subject := s.translator.T(locale, i18n.OTPEmailSubject)
	if err := s.emailService.SendOTP(address, u.Name, code, expiresAt, subject); err != nil {
		logger.From(ctx).Error("failed to send otp email", slog.String("email", address), slog.Any("error", err))
		return otp.SendOTPResponse{}, otp.ErrSendFailed
	}

	logger.From(ctx).Info("otp sent", slog.Int64("user_id", u.ID), slog.Time("expires_at", expiresAt))
	return otp.SendOTPResponse{Email: address, ExpiresAt: expiresAt.Format(time.RFC3339)}, nil
}

// VerifyOTP implements otp.OTPService.
func (s *OTPServiceImpl) VerifyOTP(ctx context.Context, req otp.VerifyOTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	address := normalizeEmail(req.Email)
	now := s.opts.Now()

	// The attempt is counted before the comparison so concurrent guesses
	// cannot exceed MaxAttempts.
	challenge, err := s.store.ReserveAttempt(ctx, address, s.opts.MaxAttempts)
	if err != nil {
		if errors.Is(err, otp.ErrChallengeNotFound) {
			s.logRejected(ctx, address)
			return otp.ErrInvalidOTP
		}
		return fmt.Errorf("failed to record otp attempt: %w", err)
	}

	if challenge.CodeExpired(now) {
		return otp.ErrInvalidOTP
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(req.OTP)); err != nil {
		logger.From(ctx).Warn("otp mismatch", slog.String("email", address), slog.Int("attempts", challenge.Attempts))
		return otp.ErrInvalidOTP
	}

	if err := s.store.MarkVerified(ctx, address, now.Add(s.opts.VerifiedTTL)); err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}
	return nil
}

// logRejected records why no attempt could be reserved.
func (s *OTPServiceImpl) logRejected(ctx context.Context, address string) {
	challenge, err := s.store.Get(ctx, address)
	switch {
	case errors.Is(err, otp.ErrChallengeNotFound):
		logger.From(ctx).Info("otp verification without challenge", slog.String("email", address))
	case err != nil:
		logger.From(ctx).Warn("failed to get otp", slog.String("email", address), slog.Any("error", err))
	default:
		logger.From(ctx).Warn("otp attempts exhausted", slog.String("email", address), slog.Int("attempts", challenge.Attempts))
	}
}

// ConsumeVerification implements otp.OTPService.
func (s *OTPServiceImpl) ConsumeVerification(ctx context.Context, email string) (bool, error) {
	ok, err := s.store.ConsumeVerified(ctx, normalizeEmail(email), s.opts.Now())
	if err != nil {
		return false, fmt.Errorf("failed to consume otp verification: %w", err)
	}
	return ok, nil
}
