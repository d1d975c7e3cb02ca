// Package logger is the process-wide structured logger.
//
// Call Init once at startup; until then messages go to a text handler at info
// level on stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Init configures the logger to write to stderr at the given level.
// Unknown levels fall back to info.
func Init(level string) {
	InitWriter(os.Stderr, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string) {
	lvl, _ := ParseLevel(level)
	current.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

func l() *slog.Logger {
	return current.Load()
}

func Debug(msg string, args ...any) { l().Debug(msg, args...) }
func Info(msg string, args ...any)  { l().Info(msg, args...) }
func Warn(msg string, args ...any)  { l().Warn(msg, args...) }
func Error(msg string, args ...any) { l().Error(msg, args...) }
