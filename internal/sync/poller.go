package sync

import (
	"context"
	"time"
)

// poller executes a single poll tick: call the job-list endpoint,
// retrying with exponential backoff, and post the outcome back to the
// run loop tagged with the tick's sequence number. The loop enforces
// the at-most-one-in-flight rule and discards stale responses; the
// poller itself is stateless.
type poller struct {
	cfg     Config
	backend Backend
	events  chan<- event
}

// interval returns the poll period for the given reachability state.
// The timer widens while the backend is unreachable and narrows back on
// the first success.
func (p *poller) interval(state HealthState) time.Duration {
	if state == HealthUnhealthy {
		return p.cfg.DegradedPollInterval
	}
	return p.cfg.PollInterval
}

// run performs one tick. A failed tick does not stop the poll timer; it
// only postpones the next successful merge.
func (p *poller) run(ctx context.Context, seq uint64) {
	var lastErr error
	for attempt := 0; attempt < p.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay(p.cfg, attempt-1)):
			}
		}

		records, err := p.backend.ListJobs(ctx)
		if err == nil {
			p.post(ctx, pollResult{seq: seq, records: records})
			return
		}
		lastErr = err

		if ctx.Err() != nil {
			return
		}
	}
	p.post(ctx, pollResult{seq: seq, err: lastErr})
}

func (p *poller) post(ctx context.Context, ev pollResult) {
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}

// retryDelay returns the backoff before retry number attempt (0-based):
// base doubled per attempt, capped at the configured ceiling, repeating
// at the ceiling from then on.
func retryDelay(cfg Config, attempt int) time.Duration {
	d := cfg.RetryBaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cfg.RetryMaxDelay {
			return cfg.RetryMaxDelay
		}
	}
	if d > cfg.RetryMaxDelay {
		return cfg.RetryMaxDelay
	}
	return d
}
