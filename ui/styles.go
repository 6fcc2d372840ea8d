package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dgnsrekt/ttsdeck/internal/job"
	"github.com/dgnsrekt/ttsdeck/internal/sync"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AD58B4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED567A"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	statusColors = map[job.Status]lipgloss.Style{
		job.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		job.StatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		job.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		job.StatusReady:      lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true),
		job.StatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// statusGlyph returns the colored marker for a job state.
func statusGlyph(s job.Status) string {
	glyphs := map[job.Status]string{
		job.StatusPending:    "●",
		job.StatusProcessing: "◐",
		job.StatusCompleted:  "✓",
		job.StatusReady:      "♪",
		job.StatusFailed:     "✗",
	}
	style, ok := statusColors[s]
	if !ok {
		return "?"
	}
	return style.Render(glyphs[s])
}

// healthGlyph returns the colored reachability marker.
func healthGlyph(state sync.HealthState) string {
	switch state {
	case sync.HealthHealthy:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("online")
	case sync.HealthUnhealthy:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("offline")
	default:
		return dimStyle.Render("checking…")
	}
}
