package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
)

// OTPJobs clears lapsed OTP challenges from stores that do not expire
// documents on their own.
type OTPJobs struct {
	purger   otp.Purger
	interval time.Duration
	now      func() time.Time
}

func NewOTPJobs(purger otp.Purger, interval time.Duration) *OTPJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OTPJobs{purger: purger, interval: interval, now: time.Now}
}

func (j *OTPJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_otp", j.interval, j.PurgeExpired)
}

func (j *OTPJobs) PurgeExpired(ctx context.Context) error {
	n, err := j.purger.PurgeExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("purge expired otp: %w", err)
	}
	if n > 0 {
		slog.Info("purged expired otp challenges", slog.Int64("count", n))
	}
	return nil
}
