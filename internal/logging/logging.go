// Package logging configures the structured logger used across tracecheck.
//
// Logs go to stderr so they never mix with the report on stdout. Without
// --debug only warnings and errors are emitted, which keeps CI logs limited
// to the report itself.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. When debug is true the level is
// Debug, otherwise Warn.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
