package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/ttsdeck/internal/api"
	"github.com/dgnsrekt/ttsdeck/internal/audio"
	"github.com/dgnsrekt/ttsdeck/internal/job"
	"github.com/dgnsrekt/ttsdeck/internal/sync"
)

// refreshMsg drives the periodic re-read of engine state.
type refreshMsg struct{}

// notificationMsg wraps a one-shot engine notification.
type notificationMsg struct {
	note sync.Notification
	ok   bool
}

// submitDoneMsg is sent when a submission resolves.
type submitDoneMsg struct {
	job job.Job
	err error
}

// actionDoneMsg is sent when a fetch/remove/play/copy action resolves.
// Only failures carry information worth showing.
type actionDoneMsg struct {
	action string
	jobID  string
	err    error
}

// toastExpiredMsg clears the transient status message.
type toastExpiredMsg struct {
	id int
}

// refreshCmd schedules the next state re-read. The engine mutates its
// store on its own loop; the UI just samples it.
func refreshCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// waitForNotification blocks on the engine's notification stream.
func waitForNotification(engine *sync.Synchronizer) tea.Cmd {
	return func() tea.Msg {
		note, ok := <-engine.Notifications()
		return notificationMsg{note: note, ok: ok}
	}
}

// submitCmd submits a fully assembled conversion request.
func submitCmd(engine *sync.Synchronizer, req api.SubmitRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		j, err := engine.Submit(ctx, req)
		return submitDoneMsg{job: j, err: err}
	}
}

// fetchCmd starts audio retrieval for a job.
func fetchCmd(engine *sync.Synchronizer, jobID string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "fetch", jobID: jobID, err: engine.FetchAudio(jobID)}
	}
}

// removeCmd deletes a job.
func removeCmd(engine *sync.Synchronizer, jobID string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "delete", jobID: jobID, err: engine.Remove(jobID)}
	}
}

// playCmd plays a job's materialized audio resource.
func playCmd(player audio.Player, res *audio.Resource) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "play", err: player.Play(res)}
	}
}

// copyCmd copies a job ID to the system clipboard.
func copyCmd(jobID string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: "copy", jobID: jobID, err: clipboard.WriteAll(jobID)}
	}
}

// expireToastCmd clears the toast with the given id after a delay.
func expireToastCmd(id int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
