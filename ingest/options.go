package ingest

import (
	"log/slog"
	"time"
)

const defaultProgressInterval = 5 * time.Second

type options struct {
	threads          int
	logger           *slog.Logger
	progressInterval time.Duration
}

// Option configures a Pool.
type Option func(*options)

// WithThreads sets the number of workers. Values < 1 are ignored.
func WithThreads(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.threads = n
		}
	}
}

// WithLogger sets the logger for parse failures and progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgressInterval sets how often progress is logged. Zero or negative
// disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}
