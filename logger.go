package mdsearch

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with mdsearch-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithIndex adds an index name field to the logger.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", name),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogPhase logs the outcome of one benchmark phase.
func (l *Logger) LogPhase(ctx context.Context, index, phase string, operations int, duration time.Duration, aborted bool) {
	if aborted {
		l.WarnContext(ctx, "phase aborted",
			"index", index,
			"phase", phase,
			"operations", operations,
			"duration", duration,
		)
	} else {
		l.InfoContext(ctx, "phase completed",
			"index", index,
			"phase", phase,
			"operations", operations,
			"duration", duration,
		)
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, source string, count int) {
	l.InfoContext(ctx, "dataset loaded",
		"source", source,
		"count", count,
	)
}
