// Package completion provides the language-model completion client used
// by the mentoring pipeline, with implementations for several providers
// behind a single interface.
package completion

import (
	"context"
	"fmt"
)

// Default generation parameters for mentoring completions.
const (
	DefaultMaxTokens   = 1200
	DefaultTemperature = 0.7
)

// Request represents a single-prompt completion request. Zero-valued
// MaxTokens or Temperature mean "use the client's configured defaults"
// (see WithParams); backends receiving zero values fall back to their
// API defaults.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Response represents a completion response.
type Response struct {
	Text string
}

// Result pairs completion text with whether it came from a live backend.
// Succeeded=false always carries non-empty fallback text, so callers must
// never branch on emptiness.
type Result struct {
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
}

// Client defines the interface for completion backends.
type Client interface {
	// Complete generates a completion synchronously.
	Complete(ctx context.Context, in Request) (Response, error)

	// ModelName returns the backend model identifier.
	ModelName() string
}

// Probe issues a minimal completion to check backend availability. Any
// failure reports unavailable; it never propagates an error.
func Probe(ctx context.Context, c Client) bool {
	if c == nil {
		return false
	}
	resp, err := c.Complete(ctx, Request{Prompt: "ping", MaxTokens: 1, Temperature: 0})
	return err == nil && resp.Text != ""
}

// emptyResponseError builds the error used when a backend returns HTTP
// success but no usable text.
func emptyResponseError(provider string) error {
	return fmt.Errorf("empty response from %s", provider)
}
