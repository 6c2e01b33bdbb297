package geoattr

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with geoattr-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithArchive adds an archive name field to the logger.
func (l *Logger) WithArchive(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("archive", name),
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, name string, elements uint32, bytes int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"archive", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "save completed",
		"archive", name,
		"elements", elements,
		"bytes", bytes,
		"duration", d,
	)
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, name string, elements uint32, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"archive", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"archive", name,
		"elements", elements,
		"duration", d,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"archive", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "delete completed",
		"archive", name,
	)
}
