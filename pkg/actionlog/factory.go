package actionlog

import (
	"fmt"

	"mentor/pkg/config"
)

// NewSink constructs the configured action-log sink.
func NewSink(cfg config.ActionLogConfig) (Sink, error) {
	switch cfg.Driver {
	case "jsonl":
		return NewWriter(cfg.Dir)
	case "sqlite":
		return NewSQLiteSink(cfg.Path)
	case "none":
		return NopSink{}, nil
	default:
		return nil, fmt.Errorf("unknown action log driver %q", cfg.Driver)
	}
}
