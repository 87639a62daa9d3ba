// Package logger wraps log/slog behind a process-wide logger configured
// from the environment. TUI code must never write to stdout, so everything
// goes to stderr (or a file when LOG_FILE is set).
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
	level  slog.Level
)

func init() {
	Initialize()
}

// Initialize builds the process logger from LOG_LEVEL, LOG_FORMAT and
// LOG_FILE. ALMANAC_DEBUG=1 is a shorthand for LOG_LEVEL=DEBUG. Safe to
// call more than once; later calls rebuild the logger.
func Initialize() {
	mu.Lock()
	defer mu.Unlock()

	level = parseLevel(os.Getenv("LOG_LEVEL"))

	out := os.Stderr
	if path := os.Getenv("LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			out = f
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger = slog.New(handler)
}

func parseLevel(s string) slog.Level {
	if s == "" {
		if v := os.Getenv("ALMANAC_DEBUG"); v == "1" || v == "true" {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}

	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the process logger.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Level returns the active log level.
func Level() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}
