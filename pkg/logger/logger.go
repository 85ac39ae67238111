// Package logger provides the levelled, structured logger used by the
// validator. It wraps charmbracelet/log and keeps a package-level default.
//
// The default level is Warn so that library use stays quiet; the CLI
// lowers it with --verbose.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

const prefix = "vinparser"

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelNone:
		return "none"
	default:
		return ""
	}
}

// ParseLevel parses a level name. Unknown names yield LevelWarn and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "none", "off":
		return LevelNone, true
	default:
		return LevelWarn, false
	}
}

// Logger provides logging functionality.
type Logger struct {
	mu    sync.Mutex
	level Level
	base  *log.Logger
}

var defaultLogger atomic.Pointer[Logger]

// Default returns the default logger, writing to stderr at LevelWarn
// unless SetDefault replaced it. Safe for concurrent use.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	defaultLogger.CompareAndSwap(nil, New(os.Stderr, LevelWarn))
	return defaultLogger.Load()
}

// SetDefault sets the default logger. A nil l restores the stderr logger
// on next use.
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
}

// New creates a new logger.
func New(output io.Writer, level Level) *Logger {
	l := &Logger{
		base: log.NewWithOptions(output, log.Options{Prefix: prefix}),
	}
	l.SetLevel(level)
	return l
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.base.SetLevel(toCharm(level))
}

// Level returns the current level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base.SetOutput(w)
}

// Debug logs a debug message with key/value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.base.Debug(msg, keyvals...)
}

// Info logs an info message with key/value pairs.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.base.Info(msg, keyvals...)
}

// Warn logs a warning message with key/value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.base.Warn(msg, keyvals...)
}

// Error logs an error message with key/value pairs.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.base.Error(msg, keyvals...)
}

// With returns a child logger that adds keyvals to every entry.
// The child shares the parent's output but has its own level.
func (l *Logger) With(keyvals ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{level: l.level, base: l.base.With(keyvals...)}
}

// toCharm maps a Level onto charmbracelet/log levels.
// LevelNone uses a level above Fatal so nothing is written.
func toCharm(level Level) log.Level {
	switch level {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.FatalLevel + 1
	}
}

// Package-level convenience functions.

// Debug logs a debug message using the default logger.
func Debug(msg string, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}

// Info logs an info message using the default logger.
func Info(msg string, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

// Error logs an error message using the default logger.
func Error(msg string, keyvals ...any) {
	Default().Error(msg, keyvals...)
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// Disable disables all logging.
func Disable() {
	Default().SetLevel(LevelNone)
}
