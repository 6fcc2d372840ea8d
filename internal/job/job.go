// Package job holds the local view of TTS conversion jobs: the closed
// status variant, the job record itself, and the ordered in-memory store
// shared between the synchronization engine and the UI.
package job

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/ttsdeck/internal/audio"
)

// Status represents the lifecycle state of a job.
type Status int

const (
	// StatusPending indicates the job is queued on the server.
	StatusPending Status = iota
	// StatusProcessing indicates the server is synthesizing audio.
	StatusProcessing
	// StatusCompleted indicates synthesis finished on the server.
	StatusCompleted
	// StatusReady indicates the audio has been fetched and a playable
	// resource exists locally. The server never reports this state.
	StatusReady
	// StatusFailed indicates synthesis failed on the server.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus converts a server-reported status string into a Status.
// Only the four states the server may report are accepted; "ready" is a
// local-only refinement and anything else is rejected outright rather
// than passed through.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "processing":
		return StatusProcessing, nil
	case "completed":
		return StatusCompleted, nil
	case "failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("unknown server job status %q", s)
	}
}

// CanFetchAudio reports whether audio retrieval may be started for a job
// in this state.
func (s Status) CanFetchAudio() bool {
	return s == StatusCompleted || s == StatusReady
}

// Active reports whether the server is still working on the job.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusProcessing
}

// Job is the local record for a single conversion job. The server owns
// ID, Status (except StatusReady) and the preview text; FetchingAudio,
// Audio and LocalError exist only on this side and survive snapshot
// merges untouched.
type Job struct {
	// ID is the opaque identifier assigned by the server at submission.
	ID string

	// Status is the job's lifecycle state.
	Status Status

	// TextPreview is a truncated display string, set at creation and
	// never mutated afterwards.
	TextPreview string

	// FetchingAudio is true strictly while an audio retrieval for this
	// job is in flight. At most one retrieval may run per job.
	FetchingAudio bool

	// Audio is the locally materialized playable resource, if any.
	// Present only when Status is completed or ready. The job record
	// owns it; the store releases it on removal or replacement.
	Audio *audio.Resource

	// LocalError holds the last failed operation's user-facing message.
	// Cleared at the start of any new operation on the job.
	LocalError string

	// SubmittedAt records when the job first appeared locally.
	SubmittedAt time.Time
}

// previewWidth bounds the display cells used by a job's text preview.
const previewWidth = 100

// Preview truncates text for display, honoring wide runes.
func Preview(text string) string {
	return runewidth.Truncate(text, previewWidth, "…")
}
