package actionlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor/pkg/config"
)

func TestJSONLWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	rec := NewRecord("q-1", "edumentor", "groq", "educational_guidance", map[string]any{
		"sources": float64(3),
	})
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Write(NewRecord("q-2", "edumentor", "fallback", "educational_guidance", nil)))

	path := w.CurrentLogFile()
	assert.Equal(t, filepath.Join(dir, "actions-"+time.Now().Format("2006-01-02")+".jsonl"), path)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q-1", records[0].QueryID)
	assert.Equal(t, "groq", records[0].Backend)
	assert.Equal(t, float64(3), records[0].Metadata["sources"])
	assert.Equal(t, "fallback", records[1].Backend)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewRecord("q", "a", "b", "c", nil)))
	require.NoError(t, w.Close())

	files, err := ListLogFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.db")
	sink, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write(NewRecord("q-1", "edumentor", "groq", "educational_guidance", map[string]any{
		"prompt_tokens": float64(120),
	})))
	require.NoError(t, sink.Write(NewRecord("q-2", "edumentor", "fallback", "educational_guidance", nil)))

	records, err := sink.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "q-2", records[0].QueryID)
	assert.Equal(t, "q-1", records[1].QueryID)
	assert.Equal(t, float64(120), records[1].Metadata["prompt_tokens"])
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestNewSink(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewSink(config.ActionLogConfig{Driver: "jsonl", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &Writer{}, sink)
	require.NoError(t, sink.Close())

	sink, err = NewSink(config.ActionLogConfig{Driver: "sqlite", Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, sink)
	require.NoError(t, sink.Close())

	sink, err = NewSink(config.ActionLogConfig{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, sink)

	_, err = NewSink(config.ActionLogConfig{Driver: "kafka"})
	assert.Error(t, err)
}
