package ui

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/ttsdeck/internal/job"
	"github.com/dgnsrekt/ttsdeck/internal/sync"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"0123456789", "0123456789"},
		{"0123456789abcdef", "0123456789"},
	}
	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status job.Status
		want   string
	}{
		{job.StatusPending, "●"},
		{job.StatusProcessing, "◐"},
		{job.StatusCompleted, "✓"},
		{job.StatusReady, "♪"},
		{job.StatusFailed, "✗"},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := statusGlyph(tt.status); !strings.Contains(got, tt.want) {
				t.Errorf("statusGlyph(%v) = %q, want it to contain %q", tt.status, got, tt.want)
			}
		})
	}

	if got := statusGlyph(job.Status(99)); got != "?" {
		t.Errorf("statusGlyph(unknown) = %q, want %q", got, "?")
	}
}

func TestHealthGlyph(t *testing.T) {
	tests := []struct {
		state sync.HealthState
		want  string
	}{
		{sync.HealthHealthy, "online"},
		{sync.HealthUnhealthy, "offline"},
		{sync.HealthUnknown, "checking…"},
	}
	for _, tt := range tests {
		if got := healthGlyph(tt.state); !strings.Contains(got, tt.want) {
			t.Errorf("healthGlyph(%v) = %q, want it to contain %q", tt.state, got, tt.want)
		}
	}
}
