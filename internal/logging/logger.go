// Package logging provides structured logging for HACF components.
// It wraps Go's log/slog package to produce JSON logs with child loggers
// scoped to a session, stage or component.
//
// The MCP server owns stdout for its transport, so the serve path logs to
// a file under the data directory; CLI commands log to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels accepted in configuration.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// FileName is the log file created by NewFileLogger.
const FileName = "hacf.log"

// ParseLevel converts a configured level to slog.Level.
// Unrecognized levels default to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger writing to w.
func NewLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// NewFileLogger returns a JSON logger appending to {dir}/hacf.log and a
// close function for the file. The directory is created if needed.
func NewFileLogger(dir, level string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return NewLogger(f, level), f.Close, nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// WithSession returns a child logger tagged with the session ID.
func WithSession(l *slog.Logger, sessionID string) *slog.Logger {
	return OrNop(l).With(slog.String("session_id", sessionID))
}

// WithStage returns a child logger tagged with the stage number.
func WithStage(l *slog.Logger, stage int) *slog.Logger {
	return OrNop(l).With(slog.Int("stage", stage))
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return OrNop(l).With(slog.String("component", component))
}
