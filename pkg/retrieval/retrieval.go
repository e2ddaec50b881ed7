// Package retrieval provides the knowledge-retrieval client for the
// mentoring pipeline. It queries an external RAG service, normalizes the
// upstream payload into the canonical Result shape, and substitutes a
// deterministic fallback whenever the upstream cannot be used. Callers
// always receive a well-formed Result, never an error.
package retrieval

import (
	"context"
	"net/http"
	"time"

	"mentor/pkg/gateway"
	"mentor/pkg/logx"
	"mentor/pkg/utils"
)

// Fragment is one retrieved snippet of source content with a relevance
// score. Fragments are immutable once constructed.
type Fragment struct {
	Content      string  `json:"content"`
	SourceID     string  `json:"source"`
	Score        float64 `json:"score"`
	DocumentID   string  `json:"document_id"`
	OriginRegion string  `json:"folder"`
}

// Result is the canonical retrieval result. Fragments is never nil: an
// empty slice, not an absent field, represents "no matches".
type Result struct {
	Fragments         []Fragment     `json:"response"`
	SynthesizedAnswer string         `json:"groq_answer"`
	StatusCode        int            `json:"status"`
	Query             string         `json:"query"`
	Tags              []string       `json:"tags"`
	Metadata          map[string]any `json:"metadata"`
}

// Available reports whether the result came from a live upstream rather
// than the fallback path.
func (r *Result) Available() bool {
	return r.StatusCode == http.StatusOK
}

// Client queries the external RAG service.
type Client struct {
	gateway *gateway.Client
	timeout time.Duration
	logger  *logx.Logger
}

// NewClient creates a retrieval client for the given RAG endpoint. The
// endpoint is the full query URL; path handling stays in the gateway.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		gateway: gateway.NewClient(apiURL),
		timeout: timeout,
		logger:  logx.NewLogger("retrieval"),
	}
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Query retrieves knowledge for the given query string. Upstream failure,
// a non-200 status, or an unusable payload all degrade to the fallback
// result; Query never returns an error.
func (c *Client) Query(ctx context.Context, query string, topK int) *Result {
	raw, status, err := c.gateway.Call(ctx, "", queryRequest{Query: query, TopK: topK}, c.timeout)
	if err != nil || status != http.StatusOK {
		c.logger.Warn("RAG query failed (status %d): %v", status, err)
		return Fallback(query, topK)
	}

	result := Normalize(raw, query)
	c.logger.Debug("RAG returned %d fragments for %q", len(result.Fragments), truncateQuery(query))
	return result
}

// HealthCheck probes the RAG service with a minimal test query. A probe
// failure reports unavailable rather than propagating.
func (c *Client) HealthCheck(ctx context.Context) bool {
	result := c.Query(ctx, "test", 1)
	return result.Available()
}

func truncateQuery(q string) string {
	if t := utils.TruncateChars(q, 100); t != q {
		return t + "..."
	}
	return q
}
