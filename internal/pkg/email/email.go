package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/config"
	mailer "github.com/jordan-wright/email"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendOTP(to, name, code string, expiresAt time.Time, subject string) error
}

type sendFunc func(addr string, auth smtp.Auth, msg *mailer.Email) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send: func(addr string, auth smtp.Auth, msg *mailer.Email) error {
			return msg.Send(addr, auth)
		},
		// 1s, 2s, 4s
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

type otpEmailData struct {
	Name      string
	Code      string
	ExpiresAt string
	Minutes   int
}

func (s *emailServiceImpl) SendOTP(to, name, code string, expiresAt time.Time, subject string) error {
	data := otpEmailData{
		Name:      name,
		Code:      code,
		ExpiresAt: expiresAt.Format("15:04 MST"),
		Minutes:   int(time.Until(expiresAt).Round(time.Minute).Minutes()),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "otp.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, subject, body.Bytes())
}

func (s *emailServiceImpl) sendHTML(to, subject string, htmlBody []byte) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	msg := mailer.NewEmail()
	msg.From = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	msg.To = []string{to}
	msg.Subject = subject
	msg.HTML = htmlBody

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, msg)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			time.Sleep(s.backoff(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
