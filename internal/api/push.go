package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Delta is a single-job status update pushed by the legacy socket
// transport. It carries strictly less information than a snapshot
// record; the reconciler applies it with the same field-preservation
// rules.
type Delta struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// DeltaHandler consumes pushed status updates.
type DeltaHandler interface {
	HandleDelta(d Delta)
}

// pushEnvelope is the wire frame on the socket. Only job_status_update
// events are meaningful to the client.
type pushEnvelope struct {
	Event  string `json:"event"`
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// PushListener maintains a persistent socket to the service and forwards
// job_status_update events to a handler. It exists so the engine can run
// on either transport; polling remains the default.
type PushListener struct {
	wsURL   string
	handler DeltaHandler
	dialer  *websocket.Dialer
}

// NewPushListener creates a listener for the service at baseURL.
func NewPushListener(baseURL string, handler DeltaHandler) (*PushListener, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"

	return &PushListener{
		wsURL:   u.String(),
		handler: handler,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}, nil
}

// Listen connects and forwards events until ctx is cancelled, redialing
// with a capped backoff after connection loss. Connection failures are
// recovered locally and never fatal; the polling transport keeps the
// job list converging regardless.
func (l *PushListener) Listen(ctx context.Context) {
	delay := time.Second
	const maxDelay = 30 * time.Second

	for {
		if err := l.run(ctx); err != nil {
			log.Debug("push transport disconnected", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
}

func (l *PushListener) run(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Debug("push transport connected", "url", l.wsURL)

	// Unblock ReadJSON when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var env pushEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			return err
		}
		if env.Event != "job_status_update" || env.JobID == "" {
			continue
		}
		l.handler.HandleDelta(Delta{JobID: env.JobID, Status: env.Status})
	}
}
