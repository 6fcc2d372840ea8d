package job

import (
	"strings"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "pending", input: "pending", want: StatusPending},
		{name: "processing", input: "processing", want: StatusProcessing},
		{name: "completed", input: "completed", want: StatusCompleted},
		{name: "failed", input: "failed", want: StatusFailed},
		{name: "ready is local only", input: "ready", wantErr: true},
		{name: "unknown string", input: "archived", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "case sensitive", input: "Pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusProcessing, "processing"},
		{StatusCompleted, "completed"},
		{StatusReady, "ready"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status   Status
		canFetch bool
		active   bool
	}{
		{StatusPending, false, true},
		{StatusProcessing, false, true},
		{StatusCompleted, true, false},
		{StatusReady, true, false},
		{StatusFailed, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.CanFetchAudio(); got != tt.canFetch {
				t.Errorf("CanFetchAudio() = %v, want %v", got, tt.canFetch)
			}
			if got := tt.status.Active(); got != tt.active {
				t.Errorf("Active() = %v, want %v", got, tt.active)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		if got := Preview("hello world"); got != "hello world" {
			t.Errorf("Preview = %q, want %q", got, "hello world")
		}
	})

	t.Run("long text is truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 500)
		got := Preview(long)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("Preview of long text should end with ellipsis, got %q", got)
		}
		if len([]rune(got)) >= 500 {
			t.Errorf("Preview did not shorten the text: %d runes", len([]rune(got)))
		}
	})

	t.Run("wide runes count double", func(t *testing.T) {
		wide := strings.Repeat("あ", 200)
		got := Preview(wide)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("Preview of wide text should end with ellipsis, got %q", got)
		}
		// 100 display cells hold at most 50 double-width runes.
		if n := len([]rune(got)); n > 51 {
			t.Errorf("Preview kept %d wide runes, want at most 51", n)
		}
	})
}
