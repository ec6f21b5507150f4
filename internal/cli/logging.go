package cli

import (
	"log/slog"
	"os"
)

// newLogger writes human-readable text to stdout and JSON to stderr.
func newLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, opts),
		slog.NewJSONHandler(os.Stderr, opts),
	))
}
