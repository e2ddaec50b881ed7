// Package mentor implements the mentoring orchestrator: it combines
// knowledge retrieval with persona-driven completion and always returns
// a usable response envelope, degrading through fallbacks rather than
// failing.
package mentor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mentor/pkg/actionlog"
	"mentor/pkg/completion"
	"mentor/pkg/logx"
	"mentor/pkg/metrics"
	"mentor/pkg/retrieval"
	"mentor/pkg/utils"
)

// AgentName identifies this agent in envelopes and action records.
const AgentName = "EduMentorAgent"

// Persona is the mentoring persona embedded in completion prompts.
const Persona = "educational_mentor"

const queryPrefix = "Educational learning guidance: "

const (
	retrievalTopK  = 5
	contextTopN    = 3
	previewChars   = 200
	fallbackCtxMax = 500
)

// educationalKeywords are matched against queries for envelope metadata.
var educationalKeywords = []string{
	"learn", "teach", "explain", "understand", "study", "education",
	"concept", "theory", "practice", "example", "exercise", "assessment",
	"knowledge", "skill", "competency", "curriculum", "pedagogy",
}

const errorResponse = "I apologize, but I'm experiencing difficulties providing educational guidance at this moment. Please try again later."

// Agent orchestrates retrieval, completion, and action logging for
// mentoring queries. All collaborators are injected; Agent holds no
// global state.
type Agent struct {
	name       string
	persona    string
	retrieval  *retrieval.Client
	completion completion.Client
	sink       actionlog.Sink
	recorder   *metrics.Recorder
	tokens     *utils.TokenCounter
	logger     *logx.Logger
}

// NewAgent creates a mentoring agent. sink and recorder may be nil, in
// which case action logging and metrics are skipped.
func NewAgent(ret *retrieval.Client, comp completion.Client, sink actionlog.Sink, recorder *metrics.Recorder) *Agent {
	if sink == nil {
		sink = actionlog.NopSink{}
	}
	counter, err := utils.NewTokenCounter()
	if err != nil {
		// The nil counter falls back to character-based estimation.
		counter = nil
	}
	return &Agent{
		name:       AgentName,
		persona:    Persona,
		retrieval:  ret,
		completion: comp,
		sink:       sink,
		recorder:   recorder,
		tokens:     counter,
		logger:     logx.NewLogger("mentor-agent"),
	}
}

// Name returns the agent identifier.
func (a *Agent) Name() string {
	return a.name
}

// ProcessQuery answers one mentoring query. It always returns a
// well-formed envelope: upstream failures degrade to fallback content
// and an internal fault produces an error-status envelope. The returned
// envelope never requires error handling by the caller.
func (a *Agent) ProcessQuery(ctx context.Context, query, correlationID string) (env Envelope) {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic processing query %s: %v", correlationID, r)
			env = Envelope{
				Response:  errorResponse,
				QueryID:   correlationID,
				Query:     query,
				Agent:     a.name,
				Status:    "error",
				Error:     fmt.Sprintf("internal error: %v", r),
				Sources:   []Source{},
				Timestamp: time.Now(),
			}
			if a.recorder != nil {
				a.recorder.ObserveQuery(a.name, "error", 0, time.Since(start))
			}
		}
	}()

	a.logger.Info("Processing query %s: %q", correlationID, utils.TruncateChars(query, 100))

	knowledgeContext, sources := a.knowledgeContext(ctx, query)

	result, promptTokens := a.enhance(ctx, query, knowledgeContext)

	backend := "fallback"
	if result.Succeeded {
		backend = a.completion.ModelName()
	}

	record := actionlog.NewRecord(correlationID, a.name, backend, "educational_guidance", map[string]any{
		"query":               query,
		"knowledge_retrieved": knowledgeContext != "",
		"groq_enhanced":       result.Succeeded,
		"persona":             a.persona,
		"sources_count":       len(sources),
		"prompt_tokens":       promptTokens,
	})
	if err := a.sink.Write(record); err != nil {
		a.logger.Warn("failed to write action record for %s: %v", correlationID, err)
	}

	if a.recorder != nil {
		a.recorder.ObserveQuery(a.name, "success", promptTokens, time.Since(start))
		if !result.Succeeded {
			a.recorder.IncFallback(a.name, "completion")
		}
	}

	a.logger.Info("Completed query %s (enhanced=%v sources=%d)", correlationID, result.Succeeded, len(sources))

	return Envelope{
		Response:           result.Text,
		QueryID:            correlationID,
		Query:              query,
		Agent:              a.name,
		Persona:            a.persona,
		KnowledgeUsed:      knowledgeContext != "",
		CompletionEnhanced: result.Succeeded,
		Sources:            sources,
		RAGData: &RAGData{
			TotalSources:  len(sources),
			Method:        "rag_api_enhanced",
			ContextLength: len(knowledgeContext),
			HasAnswer:     result.Succeeded,
		},
		Timestamp: time.Now(),
		Status:    "success",
		Metadata: map[string]any{
			"educational_keywords": matchKeywords(query),
			"guidance_type":        "educational_mentoring",
			"enhancement_method":   backend,
		},
	}
}

// knowledgeContext queries retrieval and condenses the top fragments
// into a context string plus source previews. Any retrieval failure
// yields an empty context; processing continues.
func (a *Agent) knowledgeContext(ctx context.Context, query string) (string, []Source) {
	sources := []Source{}
	if a.retrieval == nil {
		return "", sources
	}

	result := a.retrieval.Query(ctx, queryPrefix+query, retrievalTopK)
	if a.recorder != nil {
		a.recorder.ObserveUpstream("rag", result.Available())
	}
	if !result.Available() || len(result.Fragments) == 0 {
		a.logger.Warn("no educational context retrieved")
		if a.recorder != nil {
			a.recorder.IncFallback(a.name, "retrieval")
		}
		return "", sources
	}

	var contexts []string
	for i, frag := range result.Fragments {
		if i >= contextTopN {
			break
		}
		if frag.Content == "" {
			continue
		}
		contexts = append(contexts, frag.Content)
		sources = append(sources, Source{
			Content:    utils.TruncateChars(frag.Content, previewChars) + "...",
			SourceID:   frag.SourceID,
			Score:      frag.Score,
			DocumentID: frag.DocumentID,
			Folder:     frag.OriginRegion,
		})
	}

	return strings.Join(contexts, " "), sources
}

// enhance runs the persona prompt through the completion backend,
// falling back to the deterministic mentor template on any failure. The
// returned result always has non-empty text.
func (a *Agent) enhance(ctx context.Context, query, knowledgeContext string) (completion.Result, int) {
	prompt := buildPrompt(query, knowledgeContext)
	promptTokens := a.tokens.CountTokens(prompt)

	if a.completion == nil {
		return completion.Result{Text: FallbackResponse(query, knowledgeContext)}, promptTokens
	}

	// Generation parameters stay unset so the client's configured
	// max_tokens and temperature apply.
	resp, err := a.completion.Complete(ctx, completion.Request{Prompt: prompt})
	if a.recorder != nil {
		a.recorder.ObserveUpstream("completion", err == nil && resp.Text != "")
	}
	if err != nil || resp.Text == "" {
		if err != nil {
			a.logger.Warn("completion failed, using fallback: %v", err)
		} else {
			a.logger.Warn("completion returned empty text, using fallback")
		}
		return completion.Result{Text: FallbackResponse(query, knowledgeContext)}, promptTokens
	}

	return completion.Result{Text: resp.Text, Succeeded: true}, promptTokens
}

func buildPrompt(query, knowledgeContext string) string {
	contextClause := "Draw from established educational principles and best practices."
	if knowledgeContext != "" {
		contextClause = "Educational Context: " + knowledgeContext
	}

	return fmt.Sprintf(`As an experienced educational mentor and guide, provide structured, clear, and effective learning support for: %q

%s

Please respond as a patient and encouraging teacher who:
- Explains concepts clearly and systematically
- Uses appropriate educational scaffolding
- Provides practical examples and applications
- Encourages critical thinking and understanding
- Adapts explanations to different learning styles
- Promotes active learning and engagement

Your response should include:
- Clear explanations of key concepts
- Step-by-step guidance when appropriate
- Practical examples or analogies
- Encouragement for further exploration
- Assessment of understanding

Educational Guidance:`, query, contextClause)
}

// FallbackResponse builds the deterministic mentoring response used
// when no completion backend is available. Same inputs always produce
// the same text.
func FallbackResponse(query, knowledgeContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As your educational mentor, I'm here to help you understand '%s'. ", query)

	if knowledgeContext != "" {
		fmt.Fprintf(&b, "Based on educational principles: %s...", utils.TruncateChars(knowledgeContext, fallbackCtxMax))
	} else {
		b.WriteString("Learning is a journey of discovery. Let's break this down step by step.")
	}

	b.WriteString("\n\nRemember, understanding comes from consistent practice and asking questions. Keep exploring!")
	return b.String()
}

func matchKeywords(query string) []string {
	lower := strings.ToLower(query)
	matched := []string{}
	for _, kw := range educationalKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
