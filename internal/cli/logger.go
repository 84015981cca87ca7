package cli

import (
	"log/slog"
	"os"
)

// configureLogging installs the process-wide slog handler. Human-facing
// command output goes to stdout via fmt; the structured log stays on stderr.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
