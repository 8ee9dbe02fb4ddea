package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger on stdout. Dev gets debug level and source locations.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	dev := env == "dev"

	opts := &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: dev}
	if dev {
		opts.Level = slog.LevelDebug
	}

	return slog.New(NewTraceHandler(slog.NewJSONHandler(w, opts))).With("env", env)
}
