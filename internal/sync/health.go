package sync

import (
	"sync"
	"time"

	"github.com/dgnsrekt/ttsdeck/internal/api"
)

// HealthState classifies backend reachability.
type HealthState int

const (
	// HealthUnknown is the state before the first verdict.
	HealthUnknown HealthState = iota
	// HealthHealthy means the last probe or poll reached the backend.
	HealthHealthy
	// HealthUnhealthy means the backend could not be reached.
	HealthUnhealthy
)

// String returns the string representation of the state.
func (s HealthState) String() string {
	switch s {
	case HealthHealthy:
		return "healthy"
	case HealthUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// HealthStatus is the current reachability verdict plus the latest
// full report for the status dashboard. Re-derived on every probe,
// never persisted.
type HealthStatus struct {
	State       HealthState
	LastChecked time.Time
	Report      api.HealthReport
}

// healthMonitor holds the process-wide reachability state and turns
// state edges into one-shot notifications. Repeated observations of
// the same state update the timestamp only; the lost/restored
// notifications fire exactly once per edge, and transitions out of
// HealthUnknown are silent because nothing was lost yet.
type healthMonitor struct {
	mu     sync.RWMutex
	status HealthStatus
	notify func(Notification)
}

func newHealthMonitor(notify func(Notification)) *healthMonitor {
	return &healthMonitor{notify: notify}
}

// Status returns the current verdict.
func (m *healthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// observe records a new verdict. Only called from the run loop.
func (m *healthMonitor) observe(state HealthState, report api.HealthReport, at time.Time) {
	m.mu.Lock()
	prev := m.status.State
	m.status.State = state
	m.status.LastChecked = at
	if report.Status != "" {
		m.status.Report = report
	}
	m.mu.Unlock()

	if prev == state || m.notify == nil {
		return
	}
	switch {
	case prev == HealthHealthy && state == HealthUnhealthy:
		m.notify(Notification{
			Kind:    NoteConnectionLost,
			Message: "Lost connection to the TTS server.",
		})
	case prev == HealthUnhealthy && state == HealthHealthy:
		m.notify(Notification{
			Kind:    NoteConnectionRestored,
			Message: "Connection to the TTS server restored.",
		})
	}
}
