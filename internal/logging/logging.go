// Package logging sets up the structured logger for weekly runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where and how much to log.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	// File is the rotating log file. Empty disables file logging.
	File string
	// Verbose also writes to Stderr.
	Verbose bool
	Stderr  io.Writer
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a logger and returns a closer for its file sink. When the log
// directory cannot be created it falls back to stderr and reports why.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		sinks   []io.Writer
		closer  io.Closer = nopCloser{}
		initErr error
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		} else {
			lj := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
			sinks = append(sinks, lj)
			closer = lj
		}
	}
	if opts.Verbose || initErr != nil {
		sinks = append(sinks, stderr)
	}

	var w io.Writer
	switch len(sinks) {
	case 0:
		w = io.Discard
	case 1:
		w = sinks[0]
	default:
		w = io.MultiWriter(sinks...)
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	if initErr != nil {
		logger.Warn("file logging disabled, falling back to stderr", "error", initErr)
	}
	return logger, closer, initErr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
