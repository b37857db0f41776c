package log

import (
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level     slog.Level
	addSource bool
}

type Option func(*options)

// WithLevel sets the log level from a verbosity string.
func WithLevel(verbose string) Option {
	return func(o *options) {
		switch strings.ToLower(verbose) {
		case "debug":
			o.level = slog.LevelDebug
		case "warn", "warning":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		default:
			o.level = slog.LevelInfo
		}
	}
}

// WithSource adds source file positions to log records.
func WithSource() Option {
	return func(o *options) {
		o.addSource = true
	}
}

// New creates a slog.Logger writing text records to stderr.
func New(opts ...Option) *slog.Logger {
	o := &options{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.addSource,
	}))
}
