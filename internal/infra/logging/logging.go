package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger, writes to stdout and installs it as the slog default.
func New(logFormat, logLevel, service string) *slog.Logger {
	logger := NewWithWriter(os.Stdout, logFormat, logLevel, service)

	slog.SetDefault(logger)

	return logger
}

// NewWithWriter builds a logger without touching the slog default. Unknown
// formats fall back to json and unknown levels to info.
func NewWithWriter(w io.Writer, logFormat, logLevel, service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	}

	var handler slog.Handler

	switch strings.ToLower(logFormat) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if service != "" {
		logger = logger.With("service", service)
	}

	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
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
