package mentor

import (
	"context"
	"time"

	"mentor/pkg/completion"
)

// Health statuses reported by HealthCheck.
const (
	StatusHealthy  = "healthy"
	StatusPartial  = "partial"
	StatusDegraded = "degraded"
)

// Health reports the agent's view of its upstream dependencies.
type Health struct {
	Agent               string    `json:"agent"`
	Status              string    `json:"status"`
	RetrievalAvailable  bool      `json:"rag_api_available"`
	CompletionAvailable bool      `json:"completion_available"`
	Timestamp           time.Time `json:"timestamp"`
}

// HealthCheck probes both upstreams. healthy means both answered,
// partial means one, degraded means neither. Probe errors count as
// unavailable and are never returned.
func (a *Agent) HealthCheck(ctx context.Context) Health {
	h := Health{
		Agent:     a.name,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	if a.retrieval != nil {
		h.RetrievalAvailable = a.retrieval.HealthCheck(ctx)
	}
	if a.completion != nil {
		h.CompletionAvailable = completion.Probe(ctx, a.completion)
	}

	switch {
	case !h.RetrievalAvailable && !h.CompletionAvailable:
		h.Status = StatusDegraded
	case !h.RetrievalAvailable || !h.CompletionAvailable:
		h.Status = StatusPartial
	}

	return h
}
