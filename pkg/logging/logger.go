// Package logging provides a process-wide structured logger for relcore.
//
// The package wraps log/slog and exposes a single global logger instance,
// initialized once via Init (or lazily with sensible defaults) and then
// retrieved via GetLogger, so level and output are controlled from one
// place. No other package in the module calls it: binder, planner and
// execution code do no logging.
package logging

import (
	"log/slog"
	"os"
	"sync"
)

// Level mirrors slog levels so callers don't need to import log/slog
// themselves just to call Init.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	once   sync.Once
	global *slog.Logger
	initMu sync.Mutex
)

// Init configures the global logger to write to the given path at the
// given level. Passing an empty path writes to stderr. Must be called
// before any goroutine that might call GetLogger is spawned, or not at
// all, in which case GetLogger lazily builds a stderr logger at Info.
func Init(level Level, path string) error {
	initMu.Lock()
	defer initMu.Unlock()

	out := os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out = f
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	global = slog.New(handler)
	return nil
}

// InitDefault writes INFO-level logs to stderr without a log file.
func InitDefault() {
	_ = Init(LevelInfo, "")
}

// GetLogger returns the process-wide logger, lazily initializing a
// stderr/Info default if Init was never called.
func GetLogger() *slog.Logger {
	once.Do(func() {
		if global == nil {
			InitDefault()
		}
	})
	initMu.Lock()
	defer initMu.Unlock()
	return global
}
