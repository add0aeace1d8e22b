// Package logging provides structured logging configuration using log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures the logger.
type Options struct {
	// Path is the log file, opened in append mode. Empty logs to Fallback.
	Path string
	// Level values: "debug", "info", "warn", "error" (default: "info")
	Level string
	// Format values: "text", "json" (default: "text")
	Format string
	// Fallback receives logs when Path is empty or cannot be opened.
	// Defaults to os.Stderr.
	Fallback io.Writer
}

// Setup builds a logger from opts. The returned close function releases the
// log file and is always non-nil.
//
// A log file that cannot be opened is not fatal: the logger writes to the
// fallback and reports the open error once.
func Setup(opts Options) (*slog.Logger, func() error) {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = os.Stderr
	}

	w := fallback
	closeFn := func() error { return nil }
	var openErr error
	if opts.Path != "" {
		f, err := openLogFile(opts.Path)
		if err != nil {
			openErr = err
		} else {
			w = f
			closeFn = f.Close
		}
	}

	logger := slog.New(newHandler(w, opts.Level, opts.Format))
	if openErr != nil {
		logger.Warn("cannot open log file, logging to stderr", "path", opts.Path, "error", openErr)
	}
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
