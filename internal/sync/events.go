package sync

import (
	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/audio"
)

// event is the closed set of messages the run loop consumes. Snapshot
// results, pushed deltas and user operations all arrive on the same
// channel, which is what serializes store mutation.
type event interface {
	isEvent()
}

// pollResult carries the outcome of one poll tick.
type pollResult struct {
	seq     uint64
	records []api.JobRecord
	err     error
}

// healthResult carries the outcome of one reachability probe.
type healthResult struct {
	report api.HealthReport
	err    error
}

// fetchResult carries the outcome of one audio retrieval.
type fetchResult struct {
	jobID string
	res   *audio.Resource
	err   error
}

// deleteResult carries the resolution of one delete call.
type deleteResult struct {
	jobID string
	err   error
}

// deltaEvent carries a pushed single-job status update.
type deltaEvent struct {
	delta api.Delta
}

// applyEvent runs fn on the loop and signals done, letting user-facing
// operations observe their own writes before returning.
type applyEvent struct {
	fn   func()
	done chan struct{}
}

func (pollResult) isEvent()   {}
func (healthResult) isEvent() {}
func (fetchResult) isEvent()  {}
func (deleteResult) isEvent() {}
func (deltaEvent) isEvent()   {}
func (applyEvent) isEvent()   {}
