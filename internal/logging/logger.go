// Package logging builds the process logger. Components never reach for a
// package-global logger; the entry point constructs one here and injects
// it into everything that logs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// logFileName is the file the logger tees into under the log directory.
const logFileName = "linebackup.log"

// NewLogger creates a structured logger appropriate for the environment.
// Production uses JSON format, development uses human-readable text.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

// NewFileLogger creates a logger that writes to stdout and to
// <logDir>/linebackup.log, truncating any previous log. The returned
// closer must be closed when the run finishes.
func NewFileLogger(env, logDir string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", logDir, err)
	}

	path := filepath.Join(logDir, logFileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file %s: %w", path, err)
	}

	return newLogger(env, io.MultiWriter(os.Stdout, f)), f, nil
}

func newLogger(env string, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
