// Package gateway provides HTTP clients for the upstream services the
// mentoring pipeline depends on. Each client holds one long-lived
// connection pool and converts every transport-level failure into a typed
// TransportError instead of letting it propagate.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mentor/pkg/logx"
	"mentor/pkg/utils"
)

// StatusUnreachable is the sentinel status code for failures that never
// produced an HTTP response (DNS, refused connection, timeout).
const StatusUnreachable = 0

const (
	userAgent       = "mentor-gateway/1.0"
	contentTypeJSON = "application/json"

	// Error bodies are truncated to keep diagnostics readable.
	maxErrorBody = 500
)

// TransportError represents a failed upstream call: a non-2xx response or
// a transport-level failure. It never wraps a raw network error across
// the gateway boundary.
type TransportError struct {
	StatusCode int    // HTTP status, or StatusUnreachable
	Message    string // Diagnostic message or response body excerpt
}

func (e *TransportError) Error() string {
	if e.StatusCode == StatusUnreachable {
		return fmt.Sprintf("upstream unreachable: %s", e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client is a thin JSON-over-HTTP client for one upstream service.
// The underlying http.Client is reused across calls for connection
// pooling; per-call deadlines come from the Call timeout argument.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	logger     *logx.Logger
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		headers: map[string]string{
			"Content-Type": contentTypeJSON,
			"User-Agent":   userAgent,
		},
		logger: logx.NewLogger("gateway"),
	}
}

// BaseURL returns the upstream base URL this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call POSTs payload as JSON to baseURL+path and returns the response
// body with its HTTP status. A non-nil error is always a *TransportError;
// the raw body is still returned alongside it when one was received.
func (c *Client) Call(ctx context.Context, path string, payload any, timeout time.Duration) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodPost, path, payload, timeout, nil)
}

// Get issues a GET to baseURL+path with the same error contract as Call.
func (c *Client) Get(ctx context.Context, path string, timeout time.Duration) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodGet, path, nil, timeout, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, timeout time.Duration, extraHeaders map[string]string) (json.RawMessage, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, StatusUnreachable, &TransportError{
				StatusCode: StatusUnreachable,
				Message:    fmt.Sprintf("failed to marshal request: %v", err),
			}
		}
		body = bytes.NewReader(data)
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return nil, StatusUnreachable, &TransportError{
			StatusCode: StatusUnreachable,
			Message:    fmt.Sprintf("failed to create request: %v", err),
		}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("%s %s failed: %v", method, path, err)
		return nil, StatusUnreachable, &TransportError{
			StatusCode: StatusUnreachable,
			Message:    err.Error(),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response: %v", err),
		}
	}

	c.logger.Debug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, resp.StatusCode, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    utils.TruncateChars(string(raw), maxErrorBody),
		}
	}

	return raw, resp.StatusCode, nil
}
