package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 * * * *", true},
		{"*/15 * * * *", true},
		{"@hourly", true},
		{"@every 30m", true},
		{"* * * *", false},
		{"0 0 * * * *", false},
		{"every hour", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, time.March, 1, 10, 15, 0, 0, time.UTC)

	next, err := NextRunTime("0 * * * *", from)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestScheduler_AddRejectsInvalidSchedule(t *testing.T) {
	s := New()

	err := s.Add(Job{Name: "reconcile", Schedule: "nope", Run: func(context.Context) error { return nil }})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile")
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New()
	var runs atomic.Int32
	require.NoError(t, s.Add(Job{
		Name:     "tick",
		Schedule: "@every 1s",
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("failures are logged, not fatal")
		},
	}))

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(Job{Name: "noop", Schedule: "@hourly", Run: func(context.Context) error { return nil }}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !s.isRunning
	}, 2*time.Second, 10*time.Millisecond)

	// Stop after cancellation is a no-op
	s.Stop()
}
