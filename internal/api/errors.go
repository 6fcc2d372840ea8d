package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// ErrorKind classifies a failed API call. The same raw failure always
// maps to the same kind and user message regardless of which operation
// produced it.
type ErrorKind int

const (
	// KindUnknown covers failures that fit no other bucket.
	KindUnknown ErrorKind = iota
	// KindValidation marks client-side input rejection; such errors are
	// never sent to the network.
	KindValidation
	// KindNetworkUnreachable marks a call that got no usable response:
	// timeout, refused connection, DNS failure.
	KindNetworkUnreachable
	// KindServerError marks a 4xx/5xx response with a structured body.
	KindServerError
	// KindResourceNotReady marks a 404/422 on an audio fetch: the server
	// is reachable but the artifact is not durably written yet. Distinct
	// from KindNetworkUnreachable on purpose.
	KindResourceNotReady
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetworkUnreachable:
		return "network unreachable"
	case KindServerError:
		return "server error"
	case KindResourceNotReady:
		return "resource not ready"
	default:
		return "unknown"
	}
}

// Error is a classified API failure.
type Error struct {
	Kind   ErrorKind
	Status int    // HTTP status, when one was received
	Detail string // server-provided detail, when present
	Err    error  // underlying error, when one exists
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Status != 0:
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to the user for this failure.
// "Try again, it's still processing" and "check your connection" must
// stay distinguishable.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return e.Detail
	case KindNetworkUnreachable:
		return "Cannot reach the TTS server. Check your connection."
	case KindResourceNotReady:
		return "Audio not ready yet. The job is still processing — try again in a moment."
	case KindServerError:
		if e.Detail != "" {
			return e.Detail
		}
		return fmt.Sprintf("The server reported an error (HTTP %d).", e.Status)
	default:
		return "An unexpected error occurred."
	}
}

// ValidationError builds a client-side validation failure.
func ValidationError(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// Classify maps a raw failure into the error taxonomy. Already
// classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if isUnreachable(err) {
		return &Error{Kind: KindNetworkUnreachable, Err: err}
	}

	return &Error{Kind: KindUnknown, Err: err}
}

// isUnreachable reports whether err means the server gave no usable
// response at all.
func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	// url.Error with no HTTP response underneath: transport-level failure.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			return true
		}
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) {
			return true
		}
	}

	return false
}
