package drometa

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with dataset-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDataset adds the dataset name to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// LogBuild logs the outcome of a dataset construction.
func (l *Logger) LogBuild(ctx context.Context, records, dimensions, groups int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset build failed",
			"records", records,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset built",
		"records", records,
		"dimensions", dimensions,
		"groups", groups,
		"elapsed", elapsed,
	)
}

// LogPhase logs completion of one construction phase.
func (l *Logger) LogPhase(ctx context.Context, phase string, count int) {
	l.DebugContext(ctx, "build phase completed",
		"phase", phase,
		"count", count,
	)
}

// LogFilter logs a filter change.
func (l *Logger) LogFilter(ctx context.Context, key string, selected, active int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "filter failed",
			"dimension", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "filter applied",
		"dimension", key,
		"selected", selected,
		"active", active,
	)
}

// LogRestore logs a snapshot restore.
func (l *Logger) LogRestore(ctx context.Context, groups, filters int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset restored",
		"groups", groups,
		"filters", filters,
	)
}

// LogSnapshot logs a snapshot save or load against a blob store.
func (l *Logger) LogSnapshot(ctx context.Context, op, blob string, size int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"blob", blob,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot completed",
		"op", op,
		"blob", blob,
		"bytes", size,
		"elapsed", elapsed,
	)
}
