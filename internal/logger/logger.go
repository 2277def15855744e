package logger

import (
	"io"
	"log/slog"
	"os"
)

// creates a new structured logger (w/ specified debug level)
func New(debug bool) *slog.Logger {
	if !debug {
		return NewWithWriter(io.Discard, false)
	}
	return NewWithWriter(os.Stderr, true)
}

// NewWithWriter builds the same text logger over any writer;
// the REPL and tests use it to capture pipeline logs
func NewWithWriter(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelError // high enough to drop the pipeline chatter
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return NewWithWriter(io.Discard, false)
}
