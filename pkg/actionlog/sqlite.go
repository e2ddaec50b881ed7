package actionlog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"mentor/pkg/logx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS actions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query_id TEXT NOT NULL,
	agent TEXT NOT NULL,
	backend TEXT NOT NULL,
	action TEXT NOT NULL,
	metadata TEXT,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_query_id ON actions(query_id);
CREATE INDEX IF NOT EXISTS idx_actions_timestamp ON actions(timestamp);
`

// SQLiteSink persists action records to a SQLite database.
type SQLiteSink struct {
	db     *sql.DB
	logger *logx.Logger
}

// NewSQLiteSink opens (or creates) the database at dbPath and ensures
// the schema exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open action log database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping action log database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize action log schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteSink{
		db:     db,
		logger: logx.NewLogger("actionlog-sqlite"),
	}, nil
}

// Write implements Sink.
func (s *SQLiteSink) Write(record Record) error {
	var metadata any
	if record.Metadata != nil {
		data, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to serialize action metadata: %w", err)
		}
		metadata = string(data)
	}

	_, err := s.db.Exec(
		`INSERT INTO actions (query_id, agent, backend, action, metadata, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		record.QueryID, record.Agent, record.Backend, record.Action, metadata,
		record.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert action record: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent records, newest first.
func (s *SQLiteSink) Recent(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT query_id, agent, backend, action, metadata, timestamp FROM actions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query action records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var metadata sql.NullString
		var ts string
		if err := rows.Scan(&r.QueryID, &r.Agent, &r.Backend, &r.Action, &metadata, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan action record: %w", err)
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &r.Metadata); err != nil {
				s.logger.Warn("unparseable metadata for query %s: %v", r.QueryID, err)
			}
		}
		r.Timestamp, _ = parseTimestamp(ts)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate action records: %w", err)
	}
	return records, nil
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close action log database: %w", err)
	}
	return nil
}
