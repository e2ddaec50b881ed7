// Package handlers exposes the mentoring service over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mentor/pkg/content"
	"mentor/pkg/logx"
	"mentor/pkg/mentor"
	"mentor/pkg/metrics"
)

// Server bundles the HTTP handlers for the mentoring service.
type Server struct {
	agent   *mentor.Agent
	stats   *metrics.QueryService
	content *content.Client
	logger  *logx.Logger
}

// NewServer creates the handler set. stats may be nil when no
// Prometheus server is configured; /stats then reports 503. contentSvc
// may be nil when the content service is not configured; the /content
// endpoints then report 503.
func NewServer(agent *mentor.Agent, stats *metrics.QueryService, contentSvc *content.Client) *Server {
	return &Server{
		agent:   agent,
		stats:   stats,
		content: contentSvc,
		logger:  logx.NewLogger("http"),
	}
}

// Routes registers all endpoints on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/content/generate", s.handleContentGenerate)
	mux.HandleFunc("/content/translate", s.handleContentTranslate)
	mux.HandleFunc("/content/detect-language", s.handleDetectLanguage)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type queryRequest struct {
	Query  string `json:"query"`
	TaskID string `json:"task_id"`
}

// handleQuery runs one mentoring query. The response is always HTTP 200
// with a well-formed envelope; degraded upstreams surface inside the
// envelope, not as HTTP errors.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query cannot be empty")
		return
	}

	env := s.agent.ProcessQuery(r.Context(), req.Query, req.TaskID)
	s.writeJSON(w, http.StatusOK, env)
}

// handleHealth reports aggregated upstream health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.agent.HealthCheck(r.Context()))
}

// handleStats serves aggregated pipeline statistics from Prometheus.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.stats == nil {
		s.writeError(w, http.StatusServiceUnavailable, "metrics aggregation not configured")
		return
	}

	agent := r.URL.Query().Get("agent")
	if agent == "" {
		agent = s.agent.Name()
	}

	stats, err := s.stats.GetAgentStats(r.Context(), agent)
	if err != nil {
		s.logger.Warn("stats query failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "failed to query metrics")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

type contentGenerateRequest struct {
	Text      string   `json:"text"`
	Platforms []string `json:"platforms"`
	Tone      string   `json:"tone"`
	Language  string   `json:"language"`
}

// handleContentGenerate renders text into platform-specific variants
// through the content service.
func (s *Server) handleContentGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.content == nil {
		s.writeError(w, http.StatusServiceUnavailable, "content service not configured")
		return
	}

	var req contentGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text cannot be empty")
		return
	}

	raw, err := s.content.GenerateContent(r.Context(), req.Text, req.Platforms, req.Tone, req.Language)
	if err != nil {
		s.logger.Warn("content generation failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "content generation failed")
		return
	}
	s.writeRaw(w, raw)
}

type contentTranslateRequest struct {
	Text            string   `json:"text"`
	TargetLanguages []string `json:"target_languages"`
	Tone            string   `json:"tone"`
}

// handleContentTranslate translates text into the target languages.
func (s *Server) handleContentTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.content == nil {
		s.writeError(w, http.StatusServiceUnavailable, "content service not configured")
		return
	}

	var req contentTranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text cannot be empty")
		return
	}
	if len(req.TargetLanguages) == 0 {
		s.writeError(w, http.StatusBadRequest, "target_languages cannot be empty")
		return
	}

	raw, err := s.content.TranslateContent(r.Context(), req.Text, req.TargetLanguages, req.Tone)
	if err != nil {
		s.logger.Warn("content translation failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "content translation failed")
		return
	}
	s.writeRaw(w, raw)
}

// handleDetectLanguage identifies the language of the submitted text.
func (s *Server) handleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.content == nil {
		s.writeError(w, http.StatusServiceUnavailable, "content service not configured")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text cannot be empty")
		return
	}

	raw, err := s.content.DetectLanguage(r.Context(), req.Text)
	if err != nil {
		s.logger.Warn("language detection failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "language detection failed")
		return
	}
	s.writeRaw(w, raw)
}

// writeRaw relays an upstream JSON payload verbatim.
func (s *Server) writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		s.logger.Error("failed to write response: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
