// Package console holds the terminal-facing pieces shared by commands:
// the structured logger and the styles used for human-readable output.
package console

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates the structured logger for a command. When w is a
// terminal, uses slog.TextHandler for human-readable output. Otherwise
// (piped, redirected, tests) uses slog.JSONHandler so the output can be
// ingested by other tools.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if IsTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
