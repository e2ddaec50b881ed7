// Package actionlog records mentoring actions for audit and replay.
package actionlog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one logged mentoring action.
type Record struct {
	QueryID   string         `json:"query_id"`
	Agent     string         `json:"agent"`
	Backend   string         `json:"backend"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewRecord creates a record stamped with the current time.
func NewRecord(queryID, agent, backend, action string, metadata map[string]any) Record {
	return Record{
		QueryID:   queryID,
		Agent:     agent,
		Backend:   backend,
		Action:    action,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the record for the JSONL sink.
func (r *Record) ToJSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize action record: %w", err)
	}
	return data, nil
}

// FromJSON parses a record from one JSONL line.
func FromJSON(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse action record: %w", err)
	}
	return &r, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse action timestamp %q: %w", s, err)
	}
	return t, nil
}

// Sink persists action records. Implementations must be safe for
// concurrent use.
type Sink interface {
	Write(record Record) error
	Close() error
}

// NopSink discards all records.
type NopSink struct{}

// Write implements Sink.
func (NopSink) Write(Record) error { return nil }

// Close implements Sink.
func (NopSink) Close() error { return nil }
