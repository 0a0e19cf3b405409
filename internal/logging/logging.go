// Package logging configures the process-wide slog logger. The terminal is
// owned by the UI, so log output goes to a rotating file.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options configure Setup.
type Options struct {
	File       string // empty writes to stderr
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup installs a text handler as the slog default and redirects the std
// log package to the same writer. The returned closer flushes and closes the
// log file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	w, closer, err := writer(opts)
	if err != nil {
		return nil, nil, err
	}
	logger := New(w, opts.Level)
	slog.SetDefault(logger)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(w)
	return logger, closer, nil
}

// New builds a text logger on w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func writer(opts Options) (io.Writer, io.Closer, error) {
	path := strings.TrimSpace(opts.File)
	if path == "" {
		return os.Stderr, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	return lj, lj, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
