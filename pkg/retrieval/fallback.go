package retrieval

import (
	"fmt"
	"net/http"
)

// FallbackScore is the fixed relevance score carried by a fallback
// fragment, distinguishing it from genuinely scored content.
const FallbackScore = 0.1

// Fallback produces the deterministic substitute result used when the RAG
// service cannot be reached or returns no usable data. The caller-facing
// shape is identical to a live result so downstream code never branches
// on absence.
func Fallback(query string, _ int) *Result {
	content := fmt.Sprintf("I apologize, but I'm currently unable to access the knowledge base. Your query was: '%s'", query)
	answer := fmt.Sprintf("I apologize, but I'm currently unable to access the knowledge base to provide a comprehensive answer to your query: '%s'. Please try again later.", query)

	return &Result{
		Fragments: []Fragment{{
			Content:      content,
			SourceID:     "fallback:error",
			Score:        FallbackScore,
			DocumentID:   "fallback-001",
			OriginRegion: "fallback",
		}},
		SynthesizedAnswer: answer,
		StatusCode:        http.StatusServiceUnavailable,
		Query:             query,
		Tags:              []string{"fallback", "error"},
		Metadata: map[string]any{
			"retriever":     "none",
			"total_results": 1,
			"error":         "RAG API unavailable",
		},
	}
}
