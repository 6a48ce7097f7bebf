// Package logger provides a structured, module-aware logging system built on Go's standard log/slog.
//
// Components receive a Logger scoped to their module and log with typed fields:
//
//	log := central.Module("colony")
//	log.Info("rows loaded",
//	    logger.String("source", path),
//	    logger.Int("rows", len(rows)))
//
// Console output is human-readable text on stderr so that stdout stays free for
// command results. Optional file output is JSON for machine parsing.
//
// Tests can build a logger around any writer:
//
//	buf := &bytes.Buffer{}
//	testLogger := logger.NewSlogLogger(buf, logger.LogLevelDebug)
package logger

import (
	"time"
	"unique"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// internKey returns an interned version of the key string.
func internKey(key string) string {
	return unique.Make(key).Value()
}

var (
	errorKey  = internKey("error")
	moduleKey = internKey("module")
)

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a specific module
	Module(name string) Logger

	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Logger

	// Log with explicit level
	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

// String creates a string field for structured logging.
func String(key, value string) Field {
	return Field{Key: internKey(key), Value: value}
}

// Int creates an integer field for structured logging.
func Int(key string, value int) Field {
	return Field{Key: internKey(key), Value: value}
}

// Error creates an error field for structured logging.
//
// The field key is always "error". Errors carrying a category are logged as a
// group with msg, category and component; a nil err logs as null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err}
}

// Duration creates a duration field for structured logging.
func Duration(key string, value time.Duration) Field {
	return Field{Key: internKey(key), Value: value}
}
