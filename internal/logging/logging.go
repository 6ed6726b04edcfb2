// Package logging builds the slog logger shared by the client packages.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w at debug level when debug is set.
// Without debug, log output is discarded so command output stays clean.
func New(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return Discard()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
