// Package metrics provides Prometheus-based metrics recording and
// aggregation for the mentoring service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records mentoring pipeline metrics.
type Recorder struct {
	queriesTotal     *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	promptTokens     *prometheus.CounterVec
}

// NewRecorder creates a Prometheus metrics recorder registered on the
// default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		queriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_queries_total",
				Help: "Total number of mentoring queries by agent and status",
			},
			[]string{"agent", "status"},
		),
		upstreamRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_upstream_requests_total",
				Help: "Total number of upstream service requests by service and outcome",
			},
			[]string{"service", "outcome"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_fallbacks_total",
				Help: "Total number of fallback responses by agent and kind",
			},
			[]string{"agent", "kind"},
		),
		queryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mentor_query_duration_seconds",
				Help:    "End-to-end mentoring query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent"},
		),
		promptTokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_prompt_tokens_total",
				Help: "Total number of prompt tokens sent to completion backends",
			},
			[]string{"agent"},
		),
	}
}

// ObserveQuery records one completed mentoring query.
func (r *Recorder) ObserveQuery(agent, status string, promptTokens int, duration time.Duration) {
	r.queriesTotal.WithLabelValues(agent, status).Inc()
	r.queryDuration.WithLabelValues(agent).Observe(duration.Seconds())
	if promptTokens > 0 {
		r.promptTokens.WithLabelValues(agent).Add(float64(promptTokens))
	}
}

// ObserveUpstream records an upstream service call outcome.
func (r *Recorder) ObserveUpstream(service string, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	r.upstreamRequests.WithLabelValues(service, outcome).Inc()
}

// IncFallback records a synthesized fallback response. kind names the
// degraded stage, retrieval or completion.
func (r *Recorder) IncFallback(agent, kind string) {
	r.fallbacksTotal.WithLabelValues(agent, kind).Inc()
}
