package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor/pkg/actionlog"
	"mentor/pkg/completion"
	"mentor/pkg/retrieval"
)

// newRAGServer fakes the RAG upstream with a fixed three-chunk payload.
func newRAGServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.HasPrefix(req["query"].(string), "Educational learning guidance: ") ||
			req["query"] == "test")

		json.NewEncoder(w).Encode(map[string]any{
			"retrieved_chunks": []map[string]any{
				{"content": "Photosynthesis converts light energy into chemical energy.", "file": "bio1.txt", "score": 0.91},
				{"content": "Chlorophyll absorbs red and blue light.", "file": "bio2.txt", "score": 0.84},
				{"content": "The Calvin cycle fixes carbon dioxide.", "file": "bio3.txt", "score": 0.77},
				{"content": "Unused fourth chunk.", "file": "bio4.txt", "score": 0.50},
			},
			"groq_answer": "Plants make food from light.",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// recordingSink captures action records for assertions.
type recordingSink struct {
	records []actionlog.Record
}

func (s *recordingSink) Write(r actionlog.Record) error {
	s.records = append(s.records, r)
	return nil
}

func (s *recordingSink) Close() error { return nil }

// panickingClient simulates an internal fault in the completion stage.
type panickingClient struct{}

func (panickingClient) Complete(context.Context, completion.Request) (completion.Response, error) {
	panic("completion backend corrupted")
}

func (panickingClient) ModelName() string { return "panic-model" }

func newTestAgent(ragURL string, comp completion.Client, sink actionlog.Sink) *Agent {
	var ret *retrieval.Client
	if ragURL != "" {
		ret = retrieval.NewClient(ragURL, 2*time.Second)
	}
	comp = completion.WithParams(comp, completion.DefaultMaxTokens, completion.DefaultTemperature)
	return NewAgent(ret, comp, sink, nil)
}

func TestProcessQueryEnhanced(t *testing.T) {
	srv := newRAGServer(t)
	mock := completion.NewMockClient().WithResponses("Let's explore photosynthesis together.")
	sink := &recordingSink{}
	agent := newTestAgent(srv.URL, mock, sink)

	env := agent.ProcessQuery(context.Background(), "explain photosynthesis", "task-1")

	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "task-1", env.QueryID)
	assert.Equal(t, "explain photosynthesis", env.Query)
	assert.Equal(t, AgentName, env.Agent)
	assert.Equal(t, Persona, env.Persona)
	assert.Equal(t, "Let's explore photosynthesis together.", env.Response)
	assert.True(t, env.KnowledgeUsed)
	assert.True(t, env.CompletionEnhanced)

	// Top 3 fragments become sources, upstream order preserved.
	require.Len(t, env.Sources, 3)
	assert.Equal(t, "rag:bio1.txt", env.Sources[0].SourceID)
	assert.Equal(t, 0.91, env.Sources[0].Score)
	assert.True(t, strings.HasSuffix(env.Sources[0].Content, "..."))

	require.NotNil(t, env.RAGData)
	assert.Equal(t, 3, env.RAGData.TotalSources)
	assert.Equal(t, "rag_api_enhanced", env.RAGData.Method)
	assert.True(t, env.RAGData.HasAnswer)

	// The prompt carries the retrieved context.
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Educational Context: Photosynthesis converts")
	assert.Contains(t, calls[0].Prompt, `"explain photosynthesis"`)
	assert.Equal(t, completion.DefaultMaxTokens, calls[0].MaxTokens)

	// One action record with the live backend name.
	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, "task-1", rec.QueryID)
	assert.Equal(t, "mock-model", rec.Backend)
	assert.Equal(t, "educational_guidance", rec.Action)
	assert.Equal(t, true, rec.Metadata["groq_enhanced"])
	assert.Equal(t, 3, rec.Metadata["sources_count"])
}

func TestProcessQueryMultibyteSourcePreview(t *testing.T) {
	long := strings.Repeat("ॐ", 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"retrieved_chunks": []map[string]any{
				{"content": long, "file": "sanskrit.txt", "score": 0.9},
			},
		})
	}))
	t.Cleanup(srv.Close)

	mock := completion.NewMockClient().WithResponses("ok")
	agent := newTestAgent(srv.URL, mock, nil)

	env := agent.ProcessQuery(context.Background(), "explain om", "")

	require.Len(t, env.Sources, 1)
	preview := env.Sources[0].Content
	assert.True(t, utf8.ValidString(preview))
	// 200 characters of content plus the ellipsis.
	assert.Equal(t, 203, utf8.RuneCountInString(preview))
	assert.Equal(t, strings.Repeat("ॐ", 200)+"...", preview)
}

func TestProcessQueryCompletionFallback(t *testing.T) {
	srv := newRAGServer(t)
	mock := completion.NewMockClient().WithError(errors.New("backend down"))
	sink := &recordingSink{}
	agent := newTestAgent(srv.URL, mock, sink)

	env := agent.ProcessQuery(context.Background(), "explain photosynthesis", "")

	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.QueryID)
	assert.False(t, env.CompletionEnhanced)
	assert.True(t, env.KnowledgeUsed)
	assert.True(t, strings.HasPrefix(env.Response,
		"As your educational mentor, I'm here to help you understand 'explain photosynthesis'. "))
	assert.Contains(t, env.Response, "Based on educational principles: Photosynthesis converts")
	assert.True(t, strings.HasSuffix(env.Response,
		"Remember, understanding comes from consistent practice and asking questions. Keep exploring!"))

	require.Len(t, sink.records, 1)
	assert.Equal(t, "fallback", sink.records[0].Backend)
}

func TestProcessQueryRetrievalDown(t *testing.T) {
	mock := completion.NewMockClient().WithResponses("Guidance without context.")
	agent := newTestAgent("http://127.0.0.1:1", mock, nil)

	env := agent.ProcessQuery(context.Background(), "what is calculus", "task-2")

	assert.Equal(t, "success", env.Status)
	assert.False(t, env.KnowledgeUsed)
	assert.True(t, env.CompletionEnhanced)
	assert.Empty(t, env.Sources)
	assert.Equal(t, 0, env.RAGData.TotalSources)

	// Without context, the prompt uses the principles clause.
	assert.Contains(t, mock.Calls()[0].Prompt,
		"Draw from established educational principles and best practices.")
}

func TestProcessQueryBothDown(t *testing.T) {
	mock := completion.NewMockClient().WithError(errors.New("down"))
	agent := newTestAgent("http://127.0.0.1:1", mock, nil)

	env := agent.ProcessQuery(context.Background(), "what is calculus", "")

	assert.Equal(t, "success", env.Status)
	assert.False(t, env.KnowledgeUsed)
	assert.False(t, env.CompletionEnhanced)
	assert.Contains(t, env.Response, "Learning is a journey of discovery. Let's break this down step by step.")
}

func TestProcessQueryInternalFault(t *testing.T) {
	srv := newRAGServer(t)
	agent := newTestAgent(srv.URL, panickingClient{}, nil)

	env := agent.ProcessQuery(context.Background(), "explain entropy", "task-3")

	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "task-3", env.QueryID)
	assert.Equal(t, errorResponse, env.Response)
	assert.Contains(t, env.Error, "completion backend corrupted")
	assert.NotNil(t, env.Sources)
}

func TestProcessQueryKeywordMetadata(t *testing.T) {
	mock := completion.NewMockClient().WithResponses("ok")
	agent := newTestAgent("", mock, nil)

	env := agent.ProcessQuery(context.Background(), "Explain the THEORY so I can LEARN it", "")

	keywords := env.Metadata["educational_keywords"].([]string)
	assert.ElementsMatch(t, []string{"explain", "theory", "learn"}, keywords)
	assert.Equal(t, "educational_mentoring", env.Metadata["guidance_type"])
	assert.Equal(t, "mock-model", env.Metadata["enhancement_method"])
}

func TestFallbackResponseDeterministic(t *testing.T) {
	long := strings.Repeat("x", 600)

	a := FallbackResponse("gravity", long)
	b := FallbackResponse("gravity", long)
	assert.Equal(t, a, b)

	// Context is clipped to 500 characters.
	assert.Contains(t, a, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, a, strings.Repeat("x", 501))
}

func TestHealthCheck(t *testing.T) {
	srv := newRAGServer(t)

	tests := []struct {
		name   string
		ragURL string
		comp   completion.Client
		want   string
	}{
		{"both up", srv.URL, completion.NewMockClient().WithResponses("pong"), StatusHealthy},
		{"completion down", srv.URL, completion.NewMockClient().WithError(errors.New("down")), StatusPartial},
		{"retrieval down", "http://127.0.0.1:1", completion.NewMockClient().WithResponses("pong"), StatusPartial},
		{"both down", "http://127.0.0.1:1", completion.NewMockClient().WithError(errors.New("down")), StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := newTestAgent(tt.ragURL, tt.comp, nil)
			h := agent.HealthCheck(context.Background())
			assert.Equal(t, tt.want, h.Status)
			assert.Equal(t, AgentName, h.Agent)
			assert.False(t, h.Timestamp.IsZero())
		})
	}
}
