package pkg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component tags every record with the subsystem that logged it.
type Component string

// Component identifiers.
const (
	ComponentSnapshot  Component = "snapshot"
	ComponentWalk      Component = "walk"
	ComponentDevLink   Component = "devlink"
	ComponentTranslate Component = "translate"
	ComponentProvider  Component = "provider"
	ComponentUSB       Component = "usb"
	ComponentCLI       Component = "cli"
)

// LogFormat selects the record encoding.
type LogFormat int

// Log formats.
const (
	LogFormatText LogFormat = iota // key=value pairs
	LogFormatJSON                  // one JSON object per record
)

var (
	logLevel = new(slog.LevelVar)

	logMu  sync.RWMutex
	logger *slog.Logger
)

func init() {
	logLevel.Set(slog.LevelWarn)
	logger = newLogger(os.Stderr, LogFormatText)
}

func newLogger(w io.Writer, format LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel}
	if format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLogLevel sets the minimum level of records that are written. The
// default is warn.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// SetLogOutput sends records to w in the given format. The default is text
// on stderr.
func SetLogOutput(w io.Writer, format LogFormat) {
	l := newLogger(w, format)
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func current() *slog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

func emit(level slog.Level, c Component, msg string, args []any) {
	ctx := context.Background()
	l := current()
	if !l.Enabled(ctx, level) {
		return
	}
	l.Log(ctx, level, msg, append([]any{"component", string(c)}, args...)...)
}

// LogDebug logs resource lifecycle and per-step detail.
func LogDebug(c Component, msg string, args ...any) {
	emit(slog.LevelDebug, c, msg, args)
}

// LogInfo logs a choice made on the caller's behalf, such as the data
// source in use.
func LogInfo(c Component, msg string, args ...any) {
	emit(slog.LevelInfo, c, msg, args)
}

// LogWarn logs data that was skipped or overridden.
func LogWarn(c Component, msg string, args ...any) {
	emit(slog.LevelWarn, c, msg, args)
}

// LogError logs an operation that failed and returned an error.
func LogError(c Component, msg string, args ...any) {
	emit(slog.LevelError, c, msg, args)
}
