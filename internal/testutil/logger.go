// Package testutil provides common test utilities for evadb.
package testutil

import (
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
)

// NewObservedLogger returns a Logger whose verbosity follows levels, and the
// records it let through.  A nil levels starts at debug.
func NewObservedLogger(levels *logging.LevelController) (logging.Logger, *observer.ObservedLogs) {
	if levels == nil {
		levels = logging.NewLevelController(logging.LevelDebug)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewLoggerFromCore(logging.NewCore(core, levels)), logs
}

// Messages returns the message of every record, in order.
func Messages(logs *observer.ObservedLogs) []string {
	entries := logs.All()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
