// Package logging is outlook's debug log. Commands are quiet on stdout, so
// degradations (missing history, skipped risk categories, watcher events)
// are recorded as JSON lines in .outlook/debug.log instead.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// LogFileName is the log file inside ConfigDir.
	LogFileName = "debug.log"
	// ConfigDir is the per-project state directory.
	ConfigDir = ".outlook"
)

var (
	mu      sync.RWMutex
	current *slog.Logger
	file    *os.File
)

// discard is handed out until Init runs.
var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Init points the logger at <projectRoot>/.outlook/debug.log, dropping
// records below level. An empty projectRoot, or a log file that cannot be
// opened, silences logging rather than failing the command.
func Init(projectRoot string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	w := io.Writer(io.Discard)
	if projectRoot != "" {
		if f, err := openLog(projectRoot); err == nil {
			file = f
			w = f
		}
	}
	current = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func openLog(projectRoot string) (*os.File, error) {
	dir := filepath.Join(projectRoot, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// closeFile must be called with mu held.
func closeFile() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Close flushes and releases the log file. Later records are discarded
// until the next Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	current = nil
	return closeFile()
}

// Logger returns the active logger, or a discarding one before Init.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return discard
	}
	return current
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Logger().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Logger().ErrorContext(ctx, msg, args...)
}

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
