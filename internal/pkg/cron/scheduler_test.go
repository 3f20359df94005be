package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var a, b int
	s.AddJob("a", time.Hour, func(context.Context) error { a++; return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { b++; return errors.New("boom") })

	s.RunOnce(t.Context())
	s.RunOnce(t.Context())

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b, "a failing job does not stop the others")
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("tick", time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start(t.Context())
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.EqualValues(t, 1, calls.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, NewScheduler().Stop)
}

type fakePurger struct {
	at  time.Time
	n   int64
	err error
}

func (f *fakePurger) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	f.at = now
	return f.n, f.err
}

func TestOTPJobs_PurgeExpired(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &fakePurger{n: 3}
	j := NewOTPJobs(p, 0)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.PurgeExpired(t.Context()))
	assert.Equal(t, fixed, p.at)
	assert.Equal(t, time.Hour, j.interval)

	p.err = errors.New("db down")
	assert.ErrorContains(t, j.PurgeExpired(t.Context()), "db down")
}

func TestOTPJobs_Register(t *testing.T) {
	s := NewScheduler()
	p := &fakePurger{}
	NewOTPJobs(p, time.Minute).RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "purge_expired_otp", s.jobs[0].Name)
	assert.Equal(t, time.Minute, s.jobs[0].Interval)
}
