// Package ui provides the terminal interface for ttsdeck: a job list
// kept live by the synchronization engine, a compose view for new
// submissions, and a status bar reflecting backend health.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/audio"
	"github.com/dgnsrekt/ttsdeck/internal/job"
	"github.com/dgnsrekt/ttsdeck/internal/sync"
)

// sessionState tracks which view is active.
type sessionState int

const (
	stateList sessionState = iota
	stateCompose
)

// composeField identifies the focused input in the compose view.
type composeField int

const (
	fieldText composeField = iota
	fieldVoice
	fieldPitch
	fieldSpeed
	fieldVolume
	fieldCount
)

// voicePresets are the voices the compose view cycles through.
var voicePresets = []string{"default", "male", "female"}

// Model is the top-level Bubble Tea model.
type Model struct {
	cfg    Config
	engine *sync.Synchronizer
	player audio.Player

	state    sessionState
	textarea textarea.Model
	spinner  spinner.Model

	focus  composeField
	voice  int
	pitch  float64
	speed  float64
	volume float64

	jobs   []job.Job
	cursor int
	health sync.HealthStatus

	toast   string
	toastID int

	width  int
	height int

	quitting bool
}

// NewProgram builds the Bubble Tea program around a started engine.
func NewProgram(cfg Config, engine *sync.Synchronizer, player audio.Player) *tea.Program {
	return tea.NewProgram(newModel(cfg, engine, player), tea.WithAltScreen())
}

func newModel(cfg Config, engine *sync.Synchronizer, player audio.Player) Model {
	ta := textarea.New()
	ta.Placeholder = "Type the text to synthesize…"
	ta.CharLimit = cfg.MaxTextLength
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		cfg:      cfg,
		engine:   engine,
		player:   player,
		textarea: ta,
		spinner:  sp,
		pitch:    cfg.Pitch,
		speed:    cfg.Speed,
		volume:   cfg.Volume,
	}
	for i, v := range voicePresets {
		if v == cfg.Voice {
			m.voice = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshCmd(), waitForNotification(m.engine))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		return m, nil

	case refreshMsg:
		m.jobs = m.engine.Jobs()
		m.health = m.engine.Health()
		if m.cursor >= len(m.jobs) && len(m.jobs) > 0 {
			m.cursor = len(m.jobs) - 1
		}
		return m, refreshCmd()

	case notificationMsg:
		if !msg.ok {
			return m, nil
		}
		m.toastID++
		m.toast = msg.note.Message
		return m, tea.Batch(waitForNotification(m.engine), expireToastCmd(m.toastID))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			m.toastID++
			m.toast = errorStyle.Render(msg.err.Error())
			return m, expireToastCmd(m.toastID)
		}
		m.state = stateList
		m.textarea.Reset()
		m.toastID++
		m.toast = fmt.Sprintf("Submitted job %s.", shortID(msg.job.ID))
		return m, expireToastCmd(m.toastID)

	case actionDoneMsg:
		if msg.err == nil {
			if msg.action == "copy" {
				m.toastID++
				m.toast = "Job ID copied to clipboard."
				return m, expireToastCmd(m.toastID)
			}
			return m, nil
		}
		m.toastID++
		m.toast = errorStyle.Render(msg.err.Error())
		return m, expireToastCmd(m.toastID)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == stateCompose {
			return m.updateCompose(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateList handles keys in the job list view.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "n":
		m.state = stateCompose
		return m, m.textarea.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.jobs)-1 {
			m.cursor++
		}

	case "f", "enter":
		if j, ok := m.selected(); ok {
			return m, fetchCmd(m.engine, j.ID)
		}

	case "p":
		if j, ok := m.selected(); ok && j.Audio != nil && m.player != nil {
			return m, playCmd(m.player, j.Audio)
		}

	case "c":
		if j, ok := m.selected(); ok {
			return m, copyCmd(j.ID)
		}

	case "x", "delete":
		if j, ok := m.selected(); ok {
			return m, removeCmd(m.engine, j.ID)
		}
	}

	return m, nil
}

// updateCompose handles keys in the compose view. Tab cycles between
// the textarea and the voice parameter fields; arrows adjust the
// focused parameter.
func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateList
		m.focus = fieldText
		m.textarea.Blur()
		return m, nil

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.focus = (m.focus + 1) % fieldCount
		} else {
			m.focus = (m.focus + fieldCount - 1) % fieldCount
		}
		if m.focus == fieldText {
			return m, m.textarea.Focus()
		}
		m.textarea.Blur()
		return m, nil

	case "ctrl+s":
		text := m.textarea.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.textarea.Blur()
		return m, submitCmd(m.engine, api.SubmitRequest{
			Text:   text,
			Voice:  voicePresets[m.voice],
			Pitch:  m.pitch,
			Speed:  m.speed,
			Volume: m.volume,
		})
	}

	if m.focus != fieldText {
		switch msg.String() {
		case "left", "h":
			m.adjustField(-1)
			return m, nil
		case "right", "l":
			m.adjustField(1)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// adjustField steps the focused parameter. Numeric parameters move in
// tenths and clamp to the server's accepted range.
func (m *Model) adjustField(dir int) {
	switch m.focus {
	case fieldVoice:
		m.voice = (m.voice + dir + len(voicePresets)) % len(voicePresets)
	case fieldPitch:
		m.pitch = clampParam(m.pitch + 0.1*float64(dir))
	case fieldSpeed:
		m.speed = clampParam(m.speed + 0.1*float64(dir))
	case fieldVolume:
		m.volume = clampParam(m.volume + 0.1*float64(dir))
	}
}

func clampParam(v float64) float64 {
	if v < 0.5 {
		return 0.5
	}
	if v > 2.0 {
		return 2.0
	}
	return v
}

func (m Model) selected() (job.Job, bool) {
	if m.cursor < 0 || m.cursor >= len(m.jobs) {
		return job.Job{}, false
	}
	return m.jobs[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ttsdeck"))
	b.WriteString("\n\n")

	switch m.state {
	case stateCompose:
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n")
		b.WriteString(m.paramsView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("ctrl+s submit • tab next field • ←/→ adjust • esc cancel"))
	default:
		b.WriteString(m.listView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("n new • f fetch audio • p play • c copy id • x delete • q quit"))
	}

	b.WriteString("\n")
	if m.toast != "" {
		b.WriteString(toastStyle.Render(m.toast))
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	return b.String()
}

// listView renders the job table.
func (m Model) listView() string {
	if len(m.jobs) == 0 {
		return dimStyle.Render("  No jobs yet. Press n to submit text for synthesis.") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i, j := range m.jobs {
		line := fmt.Sprintf("%s %-10s %-9s %s",
			statusGlyph(j.Status),
			shortID(j.ID),
			j.Status,
			j.TextPreview,
		)
		if j.FetchingAudio {
			line += " " + m.spinner.View() + dimStyle.Render("fetching audio")
		}
		if !j.SubmittedAt.IsZero() {
			line += dimStyle.Render("  " + humanize.Time(j.SubmittedAt))
		}
		line = truncate.StringWithTail(line, uint(width-2), "…") //nolint:gosec

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")

		if j.LocalError != "" {
			b.WriteString(errorStyle.Render("    " + j.LocalError))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// paramsView renders the voice parameter fields, highlighting the
// focused one.
func (m Model) paramsView() string {
	fields := []struct {
		field composeField
		label string
	}{
		{fieldVoice, fmt.Sprintf("voice %s", voicePresets[m.voice])},
		{fieldPitch, fmt.Sprintf("pitch %.1f", m.pitch)},
		{fieldSpeed, fmt.Sprintf("speed %.1f", m.speed)},
		{fieldVolume, fmt.Sprintf("volume %.1f", m.volume)},
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.field == m.focus {
			parts = append(parts, selectedStyle.Render("["+f.label+"]"))
			continue
		}
		parts = append(parts, dimStyle.Render(f.label))
	}
	return "  " + strings.Join(parts, "  ")
}

// statusBar renders backend health and queue stats.
func (m Model) statusBar() string {
	parts := []string{healthGlyph(m.health.State)}

	if m.health.State == sync.HealthHealthy {
		r := m.health.Report
		if r.Status != "" {
			parts = append(parts,
				fmt.Sprintf("queue %d", r.JobsInQueue),
				fmt.Sprintf("clients %d", r.ConnectedClients),
				fmt.Sprintf("cache %s", humanize.Bytes(uint64(r.MemoryUsage.JobsCacheSize)))) //nolint:gosec
		}
	}
	if !m.health.LastChecked.IsZero() {
		parts = append(parts, "checked "+humanize.Time(m.health.LastChecked))
	}
	parts = append(parts, fmt.Sprintf("%d job(s)", len(m.jobs)))

	bar := strings.Join(parts, " • ")
	if m.width > 0 {
		bar = truncate.String(bar, uint(m.width-2)) //nolint:gosec
	}
	return statusBarStyle.Render(bar)
}

// shortID trims a server job ID for display.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}
