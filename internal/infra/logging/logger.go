// Package logging writes leveled operational logs under <data>/logs.
//
// Every entry goes to the global log (mc.log). Entries that carry a task id
// are also appended to that task's own log (task-<id>.log), so the history of
// one task can be read without grepping the global file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/runoshun/mission-control/internal/domain"
)

var _ domain.Logger = (*Logger)(nil)

const timeLayout = "2006-01-02 15:04:05"

// Logger appends formatted entries to files that are opened lazily and kept
// open until Close.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock   domain.Clock
	sinks   map[string]*os.File // keyed by file path
	dataDir string
	mu      sync.Mutex
	level   slog.Level
}

// New creates a Logger rooted at dataDir. An empty dataDir disables logging.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		clock:   domain.RealClock{},
		sinks:   make(map[string]*os.File),
		dataDir: dataDir,
		level:   level,
	}
}

// ParseLevel maps a config value (debug, info, warn, error; any case) to a
// slog level. Anything unrecognized is treated as info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (l *Logger) Debug(taskID, category, msg string) { l.write(slog.LevelDebug, taskID, category, msg) }
func (l *Logger) Info(taskID, category, msg string)  { l.write(slog.LevelInfo, taskID, category, msg) }
func (l *Logger) Warn(taskID, category, msg string)  { l.write(slog.LevelWarn, taskID, category, msg) }
func (l *Logger) Error(taskID, category, msg string) { l.write(slog.LevelError, taskID, category, msg) }

// Close closes every open log file and returns the last close error.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for path, f := range l.sinks {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.sinks, path)
	}
	return lastErr
}

func (l *Logger) write(level slog.Level, taskID, category, msg string) {
	if l.dataDir == "" || level < l.level {
		return
	}

	line := formatEntry(l.clock, level, taskID, category, msg)
	paths := []string{domain.GlobalLogPath(l.dataDir)}
	if taskID != "" {
		paths = append(paths, domain.TaskLogPath(l.dataDir, safeFileComponent(taskID)))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, path := range paths {
		f, err := l.sink(path)
		if err != nil {
			continue // best effort
		}
		_, _ = io.WriteString(f, line)
	}
}

// sink returns the open file for path, opening it on first use.
// Callers hold l.mu.
func (l *Logger) sink(path string) (*os.File, error) {
	if f, ok := l.sinks[path]; ok {
		return f, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.sinks[path] = f
	return f, nil
}

// formatEntry renders one line:
//
//	[2026-01-02 09:32:51] [INFO] [task-<id>] [workflow] dev picked task
//
// Global entries use "global" in place of the task tag.
func formatEntry(clock domain.Clock, level slog.Level, taskID, category, msg string) string {
	scope := "global"
	if taskID != "" {
		scope = "task-" + taskID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		clock.Now().Format(timeLayout), level.String(), scope, category, msg)
}

// safeFileComponent keeps a task id from escaping the logs directory.
func safeFileComponent(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, strings.ReplaceAll(id, "..", "_"))
}
