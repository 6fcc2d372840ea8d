package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "deadline exceeded is unreachable",
			err:  context.DeadlineExceeded,
			want: KindNetworkUnreachable,
		},
		{
			name: "wrapped deadline is unreachable",
			err:  fmt.Errorf("polling: %w", context.DeadlineExceeded),
			want: KindNetworkUnreachable,
		},
		{
			name: "connection refused is unreachable",
			err:  &url.Error{Op: "Get", URL: "http://localhost:8000/tts/jobs", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			want: KindNetworkUnreachable,
		},
		{
			name: "dns failure is unreachable",
			err:  &url.Error{Op: "Get", URL: "http://nosuchhost/tts/jobs", Err: &net.DNSError{Name: "nosuchhost", IsNotFound: true}},
			want: KindNetworkUnreachable,
		},
		{
			name: "plain error is unknown",
			err:  errors.New("boom"),
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.want {
				t.Errorf("Classify kind = %v, want %v", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) && got.Err == nil {
				t.Error("classified error lost its cause")
			}
		})
	}
}

func TestClassifyPassthrough(t *testing.T) {
	orig := &Error{Kind: KindResourceNotReady, Status: 404}

	if got := Classify(orig); got != orig {
		t.Error("already classified error should pass through unchanged")
	}
	if got := Classify(fmt.Errorf("fetch: %w", orig)); got != orig {
		t.Error("wrapped classified error should unwrap to the original")
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "validation carries its own detail",
			err:  ValidationError("Text is required."),
			want: "Text is required.",
		},
		{
			name: "unreachable",
			err:  &Error{Kind: KindNetworkUnreachable},
			want: "Cannot reach the TTS server. Check your connection.",
		},
		{
			name: "not ready",
			err:  &Error{Kind: KindResourceNotReady, Status: 404},
			want: "Audio not ready yet. The job is still processing — try again in a moment.",
		},
		{
			name: "server error with detail",
			err:  &Error{Kind: KindServerError, Status: 500, Detail: "synthesis backend crashed"},
			want: "synthesis backend crashed",
		},
		{
			name: "server error without detail",
			err:  &Error{Kind: KindServerError, Status: 502},
			want: "The server reported an error (HTTP 502).",
		},
		{
			name: "unknown",
			err:  &Error{Kind: KindUnknown},
			want: "An unexpected error occurred.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.UserMessage(); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

// The not-ready and unreachable cases must never collapse into the same
// guidance: one says retry, the other says check the network.
func TestUserMessageDistinguishesNotReadyFromUnreachable(t *testing.T) {
	notReady := (&Error{Kind: KindResourceNotReady, Status: 404}).UserMessage()
	unreachable := (&Error{Kind: KindNetworkUnreachable}).UserMessage()
	if notReady == unreachable {
		t.Errorf("messages collapsed: %q", notReady)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "detail and status",
			err:  &Error{Kind: KindServerError, Status: 500, Detail: "boom"},
			want: "server error (HTTP 500): boom",
		},
		{
			name: "detail only",
			err:  &Error{Kind: KindValidation, Detail: "Text is required."},
			want: "validation: Text is required.",
		},
		{
			name: "cause only",
			err:  &Error{Kind: KindUnknown, Err: errors.New("boom")},
			want: "unknown: boom",
		},
		{
			name: "bare kind",
			err:  &Error{Kind: KindNetworkUnreachable},
			want: "network unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
