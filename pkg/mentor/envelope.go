package mentor

import (
	"time"
)

// Source is a preview of one knowledge fragment that informed a
// response.
type Source struct {
	Content    string  `json:"content"`
	SourceID   string  `json:"source"`
	Score      float64 `json:"score"`
	DocumentID string  `json:"document_id"`
	Folder     string  `json:"folder"`
}

// RAGData summarizes the retrieval stage for a response.
type RAGData struct {
	TotalSources  int    `json:"total_sources"`
	Method        string `json:"method"`
	ContextLength int    `json:"context_length"`
	HasAnswer     bool   `json:"has_groq_answer"`
}

// Envelope is the complete mentoring response returned for every query,
// degraded or not. Status is "success" unless an internal fault
// prevented processing, in which case Error carries diagnostics and the
// response text is a generic apology.
type Envelope struct {
	Response           string         `json:"response"`
	QueryID            string         `json:"query_id"`
	Query              string         `json:"query"`
	Agent              string         `json:"agent"`
	Persona            string         `json:"persona,omitempty"`
	KnowledgeUsed      bool           `json:"knowledge_context_used"`
	CompletionEnhanced bool           `json:"groq_enhanced"`
	Sources            []Source       `json:"sources"`
	RAGData            *RAGData       `json:"rag_data,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	Status             string         `json:"status"`
	Error              string         `json:"error,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}
