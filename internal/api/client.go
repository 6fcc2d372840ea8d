// Package api is the HTTP client for the TTS processing service and the
// shared error taxonomy for its failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// JobRecord is one entry of the server's job listing: a point-in-time
// view of a single job. Status stays a raw string here; parsing and
// rejection of unknown values happen during reconciliation.
type JobRecord struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Text   string `json:"text"`
}

// SubmitRequest is the body of a conversion submission.
type SubmitRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice"`
	Pitch  float64 `json:"pitch"`
	Speed  float64 `json:"speed"`
	Volume float64 `json:"volume"`
}

// HealthReport is the payload of the service's health endpoint.
type HealthReport struct {
	Status           string `json:"status"`
	JobsInQueue      int    `json:"jobs_in_queue"`
	ConnectedClients int    `json:"connected_clients"`
	ServerTime       string `json:"server_time"`
	MemoryUsage      struct {
		JobsCacheSize int `json:"jobs_cache_size"`
	} `json:"memory_usage"`
}

// Config holds the client's fixed parameters. They are read once at
// startup and never change for the process lifetime.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds regular requests.
	Timeout time.Duration

	// HealthTimeout bounds health probes. Kept short and separate from
	// Timeout so a slow server still yields a timely health verdict.
	HealthTimeout time.Duration
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8000",
		Timeout:       10 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// Client talks to the TTS service. All methods return errors already
// classified into the package taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
	health  *http.Client
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		health:  &http.Client{Timeout: cfg.HealthTimeout},
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Submit posts a conversion request and returns the server-assigned job ID.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindUnknown, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, false)
	}

	var out struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Kind: KindUnknown, Err: fmt.Errorf("unable to decode submit response: %w", err)}
	}
	if out.JobID == "" {
		return "", &Error{Kind: KindUnknown, Detail: "submit response carried no job_id"}
	}
	return out.JobID, nil
}

// ListJobs fetches the full job list snapshot, in server order.
func (c *Client) ListJobs(ctx context.Context) ([]JobRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tts/jobs", nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, false)
	}

	var records []JobRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("unable to decode job list: %w", err)}
	}
	return records, nil
}

// FetchAudio retrieves the synthesized audio stream for a job. A 404 or
// 422 classifies as resource-not-ready, not as a generic server error.
func (c *Client) FetchAudio(ctx context.Context, jobID string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tts/audio/"+jobID, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, true)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(err)
	}
	return data, nil
}

// DeleteAudio asks the server to delete a job's audio artifact.
func (c *Client) DeleteAudio(ctx context.Context, jobID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/tts/audio/"+jobID, nil)
	if err != nil {
		return &Error{Kind: KindUnknown, Err: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, false)
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return nil
}

// Health probes the health endpoint with the short timeout.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, &Error{Kind: KindUnknown, Err: err}
	}

	resp, err := c.health.Do(httpReq)
	if err != nil {
		return HealthReport{}, Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthReport{}, statusError(resp, false)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, &Error{Kind: KindUnknown, Err: fmt.Errorf("unable to decode health report: %w", err)}
	}
	return report, nil
}

// statusError builds a classified error from a non-2xx response. The
// audioFetch flag routes 404/422 to resource-not-ready.
func statusError(resp *http.Response, audioFetch bool) *Error {
	detail := decodeDetail(resp.Body)

	kind := KindServerError
	if audioFetch && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity) {
		kind = KindResourceNotReady
	}

	return &Error{Kind: kind, Status: resp.StatusCode, Detail: detail}
}

// decodeDetail extracts the server's {"detail": ...} body, if any.
func decodeDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
