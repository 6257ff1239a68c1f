package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents the severity level of a log entry
type Level int

const (
	// DEBUG level for detailed debugging information
	DEBUG Level = iota
	// INFO level for general information
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for fatal errors that cause program exit
	FATAL
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR, FATAL:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger is a leveled key/value logger backed by slog.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	exit  func(int)
}

// Config holds the configuration for the logger
type Config struct {
	Level  Level
	Output io.Writer
	// Text switches from JSON to logfmt-style output.
	Text bool
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	lv := new(slog.LevelVar)
	lv.Set(config.Level.slogLevel())
	opts := &slog.HandlerOptions{Level: lv}

	var handler slog.Handler
	if config.Text {
		handler = slog.NewTextHandler(config.Output, opts)
	} else {
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	return &Logger{Logger: slog.New(handler), level: lv, exit: os.Exit}
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(Config{Level: INFO, Output: os.Stdout})
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return New(Config{Level: ERROR, Output: io.Discard})
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// With returns a logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), level: l.level, exit: l.exit}
}

// Fatal logs at error level and exits the program
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Log(context.Background(), slog.LevelError, msg, append(args, "fatal", true)...)
	l.exit(1)
}

var defaultLogger = NewDefault()

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultLogger = logger
}

// Debug logs a debug message using the default logger
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message using the default logger
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message using the default logger
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// Fatal logs a fatal message using the default logger
func Fatal(msg string, args ...any) {
	defaultLogger.Fatal(msg, args...)
}
