package retrieval

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Tags attached to every normalized result.
var normalizedTags = []string{"semantic_search", "rag_api", "groq_enhanced"}

// Normalize transforms a raw RAG payload into the canonical Result shape.
// The expected upstream schema is
//
//	{retrieved_chunks: [{content, file, score, index}], groq_answer}
//
// but any malformed or missing field degrades to a default value rather
// than aborting: Normalize is a pure function and never fails.
func Normalize(raw json.RawMessage, originalQuery string) *Result {
	var payload struct {
		RetrievedChunks []json.RawMessage `json:"retrieved_chunks"`
		GroqAnswer      any               `json:"groq_answer"`
	}
	// A payload that is not even an object yields zero chunks.
	_ = json.Unmarshal(raw, &payload)

	fragments := make([]Fragment, 0, len(payload.RetrievedChunks))
	for _, rawChunk := range payload.RetrievedChunks {
		var chunk map[string]any
		if err := json.Unmarshal(rawChunk, &chunk); err != nil {
			continue
		}

		file := asString(chunk["file"], "unknown")
		index := asInt(chunk["index"], 0)

		fragments = append(fragments, Fragment{
			Content:      asString(chunk["content"], ""),
			SourceID:     "rag:" + file,
			Score:        asFloat(chunk["score"], 0.0),
			DocumentID:   fmt.Sprintf("%s_%d", file, index),
			OriginRegion: "rag_api",
		})
	}

	answer := asString(payload.GroqAnswer, "")

	return &Result{
		Fragments:         fragments,
		SynthesizedAnswer: answer,
		StatusCode:        http.StatusOK,
		Query:             originalQuery,
		Tags:              append([]string(nil), normalizedTags...),
		Metadata: map[string]any{
			"retriever":       "external_rag_api",
			"total_results":   len(fragments),
			"has_groq_answer": answer != "",
		},
	}
}

func asString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func asFloat(v any, fallback float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func asInt(v any, fallback int) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
