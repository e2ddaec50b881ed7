package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// AgentStats represents aggregated pipeline statistics for one agent.
type AgentStats struct {
	Agent        string  `json:"agent"`
	Queries      int64   `json:"queries"`
	Fallbacks    int64   `json:"fallbacks"`
	PromptTokens int64   `json:"prompt_tokens"`
	FallbackRate float64 `json:"fallback_rate"`
}

// QueryService aggregates mentoring metrics from a Prometheus server.
type QueryService struct {
	client   api.Client
	queryAPI v1.API
}

// NewQueryService creates a metrics query service against prometheusURL.
func NewQueryService(prometheusURL string) (*QueryService, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &QueryService{
		client:   client,
		queryAPI: v1.NewAPI(client),
	}, nil
}

// GetAgentStats retrieves aggregated query and fallback statistics for a
// specific agent.
func (q *QueryService) GetAgentStats(ctx context.Context, agent string) (*AgentStats, error) {
	stats := &AgentStats{
		Agent: agent,
	}

	queriesQuery := fmt.Sprintf(`sum(mentor_queries_total{agent=%q})`, agent)
	queriesResult, _, err := q.queryAPI.Query(ctx, queriesQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	if vector, ok := queriesResult.(model.Vector); ok && len(vector) > 0 {
		stats.Queries = int64(vector[0].Value)
	}

	fallbacksQuery := fmt.Sprintf(`sum(mentor_fallbacks_total{agent=%q})`, agent)
	fallbacksResult, _, err := q.queryAPI.Query(ctx, fallbacksQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query fallbacks: %w", err)
	}
	if vector, ok := fallbacksResult.(model.Vector); ok && len(vector) > 0 {
		stats.Fallbacks = int64(vector[0].Value)
	}

	tokensQuery := fmt.Sprintf(`sum(mentor_prompt_tokens_total{agent=%q})`, agent)
	tokensResult, _, err := q.queryAPI.Query(ctx, tokensQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query prompt tokens: %w", err)
	}
	if vector, ok := tokensResult.(model.Vector); ok && len(vector) > 0 {
		stats.PromptTokens = int64(vector[0].Value)
	}

	if stats.Queries > 0 {
		stats.FallbackRate = float64(stats.Fallbacks) / float64(stats.Queries)
	}

	return stats, nil
}

// GetUpstreamOutcomes retrieves the success and error counts for each
// upstream service.
func (q *QueryService) GetUpstreamOutcomes(ctx context.Context) (map[string]map[string]int64, error) {
	result := make(map[string]map[string]int64)

	outcomesQuery := `sum by (service, outcome) (mentor_upstream_requests_total)`
	outcomesResult, _, err := q.queryAPI.Query(ctx, outcomesQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query upstream outcomes: %w", err)
	}

	if vector, ok := outcomesResult.(model.Vector); ok {
		for _, sample := range vector {
			service := string(sample.Metric["service"])
			outcome := string(sample.Metric["outcome"])
			if service == "" || outcome == "" {
				continue
			}
			if result[service] == nil {
				result[service] = make(map[string]int64)
			}
			result[service][outcome] = int64(sample.Value)
		}
	}

	return result, nil
}
