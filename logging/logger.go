/*
package logging wraps log/slog with the field names used by the vecinterp
command.
*/
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is nil, a
// text handler writing to stderr at the Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// New builds a Logger from the command line's -LogFormat and -LogLevel
// values.
func New(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	}
	return nil, fmt.Errorf(
		"Unrecognized log format '%s'. Accepted formats are 'text' and 'json'.",
		format,
	)
}

// ParseLevel parses "debug", "info", "warn" or "error", ignoring case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("Unrecognized log level '%s': %w", s, err)
	}
	return lvl, nil
}

// WithMode adds a mode field.
func (l *Logger) WithMode(mode string) *Logger {
	return &Logger{Logger: l.Logger.With("mode", mode)}
}

// WithFile adds a file field.
func (l *Logger) WithFile(fname string) *Logger {
	return &Logger{Logger: l.Logger.With("file", fname)}
}

// LogRead logs reading an input table.
func (l *Logger) LogRead(
	ctx context.Context, fname string, rows, cols int, err error,
) {
	if err != nil {
		l.ErrorContext(ctx, "read failed", "file", fname, "error", err)
		return
	}
	l.DebugContext(ctx, "read completed",
		"file", fname,
		"rows", rows,
		"columns", cols,
	)
}

// LogFit logs building an interpolator from n points.
func (l *Logger) LogFit(
	ctx context.Context, kind string, column, n int, err error,
) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"kind", kind,
			"column", column,
			"points", n,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "fit completed",
		"kind", kind,
		"column", column,
		"points", n,
	)
}

// LogEval logs evaluating an interpolator on n points.
func (l *Logger) LogEval(
	ctx context.Context, kind string, n, workers int, elapsed time.Duration,
	err error,
) {
	if err != nil {
		l.ErrorContext(ctx, "evaluation failed",
			"kind", kind,
			"points", n,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "evaluation completed",
		"kind", kind,
		"points", n,
		"workers", workers,
		"elapsed", elapsed,
	)
}

// LogModel logs saving or loading a model file.
func (l *Logger) LogModel(
	ctx context.Context, op, fname, kind string, size int, err error,
) {
	if err != nil {
		l.ErrorContext(ctx, op+" model failed",
			"file", fname,
			"kind", kind,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, op+" model completed",
		"file", fname,
		"kind", kind,
		"bytes", size,
	)
}

// LogWrite logs writing an output file.
func (l *Logger) LogWrite(ctx context.Context, fname string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed", "file", fname, "error", err)
		return
	}
	l.InfoContext(ctx, "write completed", "file", fname, "rows", rows)
}
