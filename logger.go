package strucdb

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/strucdb/ingest"
)

// Logger wraps slog.Logger with strucdb-specific context.
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

// NewJSONLogger creates a Logger that writes JSON records to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPrefix adds the output prefix to every record.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		Logger: l.Logger.With("prefix", prefix),
	}
}

// LogIngest logs the end of the parallel phase.
func (l *Logger) LogIngest(ctx context.Context, stats ingest.Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"files", stats.Files,
			"error", err,
		)
		return
	}
	if stats.Failed > 0 {
		l.WarnContext(ctx, "ingest completed with failures",
			"files", stats.Files,
			"failed", stats.Failed,
			"chains", stats.Chains,
		)
		return
	}
	l.InfoContext(ctx, "ingest completed",
		"files", stats.Files,
		"chains", stats.Chains,
	)
}

// LogFinalize logs the close of one database.
func (l *Logger) LogFinalize(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "finalize failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "database finalized",
			"path", path,
		)
	}
}

// LogRenumber logs the renumbering of one index.
func (l *Logger) LogRenumber(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "renumber failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index renumbered",
			"path", path,
		)
	}
}

// LogLookup logs the lookup and source table build.
func (l *Logger) LogLookup(ctx context.Context, entries, sources int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup tables failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "lookup tables written",
			"entries", entries,
			"sources", sources,
		)
	}
}

// LogPublish logs the upload of the finished artifacts.
func (l *Logger) LogPublish(ctx context.Context, artifacts int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"artifacts", artifacts,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifacts published",
			"artifacts", artifacts,
		)
	}
}
