package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingHandler struct {
	mu     sync.Mutex
	deltas []Delta
}

func (h *recordingHandler) HandleDelta(d Delta) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deltas = append(h.deltas, d)
}

func (h *recordingHandler) snapshot() []Delta {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Delta(nil), h.deltas...)
}

func TestNewPushListenerURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "http becomes ws", baseURL: "http://localhost:8000", want: "ws://localhost:8000/ws"},
		{name: "https becomes wss", baseURL: "https://tts.example.com", want: "wss://tts.example.com/ws"},
		{name: "trailing slash trimmed", baseURL: "http://localhost:8000/", want: "ws://localhost:8000/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewPushListener(tt.baseURL, &recordingHandler{})
			if err != nil {
				t.Fatalf("NewPushListener: %v", err)
			}
			if l.wsURL != tt.want {
				t.Errorf("wsURL = %q, want %q", l.wsURL, tt.want)
			}
		})
	}
}

func TestPushListenerForwardsStatusUpdates(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		frames := []map[string]string{
			{"event": "job_status_update", "job_id": "a", "status": "processing"},
			{"event": "client_connected", "job_id": "", "status": ""},
			{"event": "job_status_update", "job_id": "a", "status": "completed"},
		}
		for _, f := range frames {
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	handler := &recordingHandler{}
	listener, err := NewPushListener(srv.URL, handler)
	if err != nil {
		t.Fatalf("NewPushListener: %v", err)
	}
	// The test server upgrades any path, so the /ws suffix is fine, but
	// point straight at the root to keep the handler simple.
	listener.wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Listen(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(handler.snapshot()) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	got := handler.snapshot()
	if len(got) != 2 {
		t.Fatalf("forwarded %d deltas, want 2: %+v", len(got), got)
	}
	if got[0] != (Delta{JobID: "a", Status: "processing"}) {
		t.Errorf("first delta = %+v", got[0])
	}
	if got[1] != (Delta{JobID: "a", Status: "completed"}) {
		t.Errorf("second delta = %+v", got[1])
	}
}
