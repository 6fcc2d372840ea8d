package sync

import (
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	cfg := Config{
		RetryBaseDelay: time.Second,
		RetryMaxDelay:  10 * time.Second,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{5, 10 * time.Second},
		{20, 10 * time.Second},
	}

	for _, tt := range tests {
		if got := retryDelay(cfg, tt.attempt); got != tt.want {
			t.Errorf("retryDelay(attempt=%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryDelayNeverExceedsCeiling(t *testing.T) {
	cfg := Config{
		RetryBaseDelay: 3 * time.Second,
		RetryMaxDelay:  4 * time.Second,
	}
	for attempt := 0; attempt < 10; attempt++ {
		if got := retryDelay(cfg, attempt); got > cfg.RetryMaxDelay {
			t.Errorf("retryDelay(attempt=%d) = %s exceeds ceiling %s", attempt, got, cfg.RetryMaxDelay)
		}
	}
}

func TestPollerInterval(t *testing.T) {
	p := &poller{cfg: Config{
		PollInterval:         2 * time.Second,
		DegradedPollInterval: 5 * time.Second,
	}}

	tests := []struct {
		state HealthState
		want  time.Duration
	}{
		{HealthUnknown, 2 * time.Second},
		{HealthHealthy, 2 * time.Second},
		{HealthUnhealthy, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := p.interval(tt.state); got != tt.want {
				t.Errorf("interval(%v) = %s, want %s", tt.state, got, tt.want)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	t.Run("zero value gets production defaults", func(t *testing.T) {
		got := Config{}.withDefaults()
		want := DefaultConfig()
		if got.PollInterval != want.PollInterval || got.RetryAttempts != want.RetryAttempts || got.MaxTextLength != want.MaxTextLength {
			t.Errorf("withDefaults() = %+v", got)
		}
	})

	t.Run("set fields are kept", func(t *testing.T) {
		got := Config{PollInterval: 50 * time.Millisecond, RetryAttempts: 1}.withDefaults()
		if got.PollInterval != 50*time.Millisecond {
			t.Errorf("PollInterval = %s, want 50ms", got.PollInterval)
		}
		if got.RetryAttempts != 1 {
			t.Errorf("RetryAttempts = %d, want 1", got.RetryAttempts)
		}
	})
}
