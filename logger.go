package memspeed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with memspeed-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to
// stderr.
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
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithWorkload adds a workload field to the logger.
func (l *Logger) WithWorkload(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("workload", name),
	}
}

// LogWorkload logs the outcome of one workload.
func (l *Logger) LogWorkload(ctx context.Context, name string, elapsed time.Duration, err error) {
	wl := l.WithWorkload(name)
	if err != nil {
		wl.ErrorContext(ctx, "workload failed",
			"error", err,
		)
	} else {
		wl.DebugContext(ctx, "workload completed",
			"elapsed_ms", millis(elapsed),
		)
	}
}

// LogRun logs the outcome of a whole run.
func (l *Logger) LogRun(ctx context.Context, scale int, total time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"scale", scale,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"scale", scale,
			"total_ms", millis(total),
		)
	}
}

// LogScaleFallback warns that a scale argument was rejected.
func (l *Logger) LogScaleFallback(ctx context.Context, input string, err error) {
	l.WarnContext(ctx, "invalid scale factor, using default",
		"input", input,
		"default", DefaultScale,
		"error", err,
	)
}
