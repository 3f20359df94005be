package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/config"
	mailer "github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.backoff = func(int) time.Duration { return 0 }
	return impl
}

var smtpCfg = config.SMTPConfig{
	Host:     "smtp.test",
	Port:     587,
	From:     "noreply@infinite-track.test",
	FromName: "Infinite Track",
}

func TestSendOTP_RendersCode(t *testing.T) {
	var got *mailer.Email
	var gotAddr string
	svc := newTestService(t, smtpCfg, func(addr string, _ smtp.Auth, msg *mailer.Email) error {
		gotAddr = addr
		got = msg
		return nil
	})

	err := svc.SendOTP("budi@example.com", "Budi", "042917", time.Now().Add(5*time.Minute), "Password reset code")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"budi@example.com"}, got.To)
	assert.Equal(t, "Password reset code", got.Subject)
	assert.Equal(t, "Infinite Track <noreply@infinite-track.test>", got.From)
	assert.True(t, strings.Contains(string(got.HTML), "042917"))
	assert.True(t, strings.Contains(string(got.HTML), "Hi Budi"))
}

func TestSendOTP_RetriesThenFails(t *testing.T) {
	calls := 0
	svc := newTestService(t, smtpCfg, func(string, smtp.Auth, *mailer.Email) error {
		calls++
		return errors.New("connection refused")
	})

	err := svc.SendOTP("a@b.cd", "", "000000", time.Now().Add(time.Minute), "subject")
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestSendOTP_SucceedsOnRetry(t *testing.T) {
	calls := 0
	svc := newTestService(t, smtpCfg, func(string, smtp.Auth, *mailer.Email) error {
		calls++
		if calls < 2 {
			return errors.New("temporary")
		}
		return nil
	})

	require.NoError(t, svc.SendOTP("a@b.cd", "", "000000", time.Now().Add(time.Minute), "subject"))
	assert.Equal(t, 2, calls)
}

func TestSendOTP_SkipsWithoutHost(t *testing.T) {
	called := false
	svc := newTestService(t, config.SMTPConfig{}, func(string, smtp.Auth, *mailer.Email) error {
		called = true
		return nil
	})

	require.NoError(t, svc.SendOTP("a@b.cd", "", "000000", time.Now(), "subject"))
	assert.False(t, called)
}
