// Package sync implements the client-side job synchronization engine: it
// keeps a local view of outstanding TTS jobs converging with the server
// through periodic snapshots, drives per-job audio retrieval, and tracks
// backend reachability.
//
// All job state mutation happens on a single run-loop goroutine.
// Network calls and delays run in worker goroutines and re-enter the
// loop as completion events, so interleavings are confined to explicit
// suspension points and the store never needs write coordination beyond
// the loop itself.
package sync

import (
	"errors"
	"time"
)

// Common errors for the synchronization engine.
var (
	// ErrClosed is returned when an operation is attempted on a closed
	// synchronizer.
	ErrClosed = errors.New("synchronizer is closed")

	// ErrUnknownJob is returned when an operation names a job that is
	// not in the local view.
	ErrUnknownJob = errors.New("unknown job")

	// ErrFetchInFlight is returned when an audio fetch is requested for
	// a job that already has one running.
	ErrFetchInFlight = errors.New("audio fetch already in flight for this job")

	// ErrAudioUnavailable is returned when an audio fetch is requested
	// for a job the server has not completed yet.
	ErrAudioUnavailable = errors.New("job has no audio to fetch yet")
)

// Config holds the engine's timing and sizing parameters. The zero
// value of any field falls back to its default, which keeps production
// construction terse and lets tests shrink the clock.
type Config struct {
	// PollInterval is the snapshot poll period while the backend is
	// healthy or its state is unknown.
	PollInterval time.Duration

	// DegradedPollInterval replaces PollInterval while the backend is
	// unhealthy.
	DegradedPollInterval time.Duration

	// RetryAttempts is the number of list calls a single poll tick may
	// make before the tick counts as failed.
	RetryAttempts int

	// RetryBaseDelay seeds the exponential backoff between attempts.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the backoff.
	RetryMaxDelay time.Duration

	// HealthInterval is the reachability probe period.
	HealthInterval time.Duration

	// PreFetchDelay is waited before every audio retrieval. It absorbs
	// the window where the server marks a job complete slightly before
	// the audio artifact is durably written.
	PreFetchDelay time.Duration

	// MaxTextLength bounds submission text, enforced before any network
	// call.
	MaxTextLength int

	// AudioDir is where fetched audio is materialized. Empty means the
	// system temp directory.
	AudioDir string

	// EventBuffer sizes the run loop's event channel.
	EventBuffer int

	// NotificationBuffer sizes the user notification channel. When the
	// consumer falls behind, further notifications are dropped rather
	// than blocking the engine.
	NotificationBuffer int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:         2 * time.Second,
		DegradedPollInterval: 5 * time.Second,
		RetryAttempts:        3,
		RetryBaseDelay:       time.Second,
		RetryMaxDelay:        10 * time.Second,
		HealthInterval:       30 * time.Second,
		PreFetchDelay:        500 * time.Millisecond,
		MaxTextLength:        5000,
		EventBuffer:          64,
		NotificationBuffer:   16,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.DegradedPollInterval <= 0 {
		c.DegradedPollInterval = def.DegradedPollInterval
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = def.RetryAttempts
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = def.RetryBaseDelay
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = def.RetryMaxDelay
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = def.HealthInterval
	}
	if c.PreFetchDelay < 0 {
		c.PreFetchDelay = def.PreFetchDelay
	}
	if c.MaxTextLength <= 0 {
		c.MaxTextLength = def.MaxTextLength
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	if c.NotificationBuffer <= 0 {
		c.NotificationBuffer = def.NotificationBuffer
	}
	return c
}
