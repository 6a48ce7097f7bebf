package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

// traceLevelValue is slog.Level for TRACE level (below Debug which is -4)
const traceLevelValue = slog.Level(-8)

var levels = map[string]slog.Level{
	string(LogLevelTrace): traceLevelValue,
	string(LogLevelDebug): slog.LevelDebug,
	string(LogLevelInfo):  slog.LevelInfo,
	string(LogLevelWarn):  slog.LevelWarn,
	string(LogLevelError): slog.LevelError,
}

var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global CentralLogger instance.
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = cl
}

// Global returns the logger set with SetGlobal. Before settings are loaded it
// is a console logger on stderr at the default level.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		level := parseLogLevel(DefaultLogLevel)
		globalLogger = &CentralLogger{
			config:       &LoggingConfig{DefaultLevel: DefaultLogLevel},
			timezone:     time.Local,
			console:      os.Stderr,
			baseHandler:  newTextHandler(os.Stderr, level),
			moduleLevels: map[string]slog.Level{},
		}
	}
	return globalLogger
}

// CentralLogger owns the console and file outputs of one run and hands out
// module loggers that share them.
type CentralLogger struct {
	config       *LoggingConfig
	timezone     *time.Location
	console      io.Writer
	baseHandler  slog.Handler
	file         *fileWriter
	moduleLevels map[string]slog.Level
	mu           sync.RWMutex
}

// Option configures a CentralLogger
type Option func(*CentralLogger)

// WithConsoleWriter redirects console output, stderr by default.
func WithConsoleWriter(w io.Writer) Option {
	return func(cl *CentralLogger) {
		if w != nil {
			cl.console = w
		}
	}
}

// NewCentralLogger builds the outputs described by cfg. Missing sections are
// filled with defaults in place.
func NewCentralLogger(cfg *LoggingConfig, opts ...Option) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}
	applyConfigDefaults(cfg)

	tz, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cl := &CentralLogger{
		config:       cfg,
		timezone:     tz,
		console:      os.Stderr,
		moduleLevels: make(map[string]slog.Level, len(cfg.ModuleLevels)),
	}
	for _, opt := range opts {
		opt(cl)
	}
	for module, level := range cfg.ModuleLevels {
		cl.moduleLevels[module] = parseLogLevel(level)
	}

	if err := cl.openOutputs(); err != nil {
		return nil, fmt.Errorf("failed to create base handler: %w", err)
	}
	return cl, nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", name, err)
	}
	return tz, nil
}

// openOutputs builds the text handler for the console and the JSON handler
// for the log file, whichever are enabled.
func (cl *CentralLogger) openOutputs() error {
	var handlers []slog.Handler

	if console := cl.config.Console; console.Enabled {
		handlers = append(handlers, newTextHandler(cl.console, parseLogLevel(console.Level)))
	}

	if out := cl.config.FileOutput; out.Enabled {
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		w, err := newFileWriter(out.Path)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", out.Path, err)
		}
		cl.file = w
		handlers = append(handlers, newJSONHandler(w, parseLogLevel(out.Level), cl.timezone))
	}

	switch len(handlers) {
	case 0:
		cl.baseHandler = slog.NewTextHandler(io.Discard, nil)
	case 1:
		cl.baseHandler = handlers[0]
	default:
		cl.baseHandler = newMultiWriterHandler(handlers...)
	}
	return nil
}

// Module returns a logger scoped to a specific module
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	return &moduleLogger{
		module: name,
		logger: slog.New(cl.baseHandler),
		level:  cl.moduleLevel(name),
	}
}

// moduleLevel is the explicit level of module, else the lowest level any
// enabled output accepts. Callers hold cl.mu.
func (cl *CentralLogger) moduleLevel(module string) slog.Level {
	if level, ok := cl.moduleLevels[module]; ok {
		return level
	}
	level := parseLogLevel(cl.config.DefaultLevel)
	if c := cl.config.Console; c != nil && c.Enabled {
		level = min(level, parseLogLevel(c.Level))
	}
	if f := cl.config.FileOutput; f != nil && f.Enabled {
		level = min(level, parseLogLevel(f.Level))
	}
	return level
}

// Close flushes and closes the log file, if any
func (cl *CentralLogger) Close() error {
	if cl == nil {
		return nil
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.file == nil {
		return nil
	}
	err := cl.file.Close()
	cl.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Flush writes buffered file output without closing the file.
func (cl *CentralLogger) Flush() error {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	if cl.file == nil {
		return nil
	}
	if err := cl.file.Flush(); err != nil {
		return fmt.Errorf("failed to flush log file: %w", err)
	}
	return nil
}

// parseLogLevel converts a configured level name, info when unknown.
func parseLogLevel(level string) slog.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return slog.LevelInfo
}

// moduleLogger implements Logger interface for a specific module
type moduleLogger struct {
	module string
	logger *slog.Logger
	level  slog.Level
	fields []Field
}

// NewSlogLogger creates a Logger writing text records to w, for tests and tools.
func NewSlogLogger(w io.Writer, level LogLevel) Logger {
	lvl := parseLogLevel(string(level))
	return &moduleLogger{
		logger: slog.New(newTextHandler(w, lvl)),
		level:  lvl,
	}
}

// Module creates a sub-module logger named parent.name.
func (m *moduleLogger) Module(name string) Logger {
	if m == nil {
		return nil
	}
	sub := *m
	sub.fields = slices.Clone(m.fields)
	if m.module != "" {
		sub.module = m.module + "." + name
	} else {
		sub.module = name
	}
	return &sub
}

// With returns a new logger with accumulated fields
func (m *moduleLogger) With(fields ...Field) Logger {
	if m == nil {
		return nil
	}
	next := *m
	next.fields = slices.Concat(m.fields, fields)
	return &next
}

func (m *moduleLogger) Trace(msg string, fields ...Field) { m.log(traceLevelValue, msg, fields) }
func (m *moduleLogger) Debug(msg string, fields ...Field) { m.log(slog.LevelDebug, msg, fields) }
func (m *moduleLogger) Info(msg string, fields ...Field)  { m.log(slog.LevelInfo, msg, fields) }
func (m *moduleLogger) Warn(msg string, fields ...Field)  { m.log(slog.LevelWarn, msg, fields) }
func (m *moduleLogger) Error(msg string, fields ...Field) { m.log(slog.LevelError, msg, fields) }

// Log logs a message with explicit level
func (m *moduleLogger) Log(level LogLevel, msg string, fields ...Field) {
	m.log(parseLogLevel(string(level)), msg, fields)
}

// Flush is a no-op; module loggers don't own file handles.
func (m *moduleLogger) Flush() error {
	return nil
}

// log drops records below the module level. Errors are always written.
func (m *moduleLogger) log(level slog.Level, msg string, fields []Field) {
	if m == nil || (level < slog.LevelError && level < m.level) {
		return
	}

	attrs := make([]slog.Attr, 0, 1+len(m.fields)+len(fields))
	if m.module != "" {
		attrs = append(attrs, slog.String(moduleKey, m.module))
	}
	for _, f := range slices.Concat(m.fields, fields) {
		attrs = append(attrs, fieldToAttr(f))
	}
	m.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// fieldToAttr converts Field to slog.Attr
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case time.Duration:
		// slog.Duration renders nanoseconds in JSON
		return slog.String(f.Key, v.Round(time.Millisecond).String())
	case error:
		return errorAttr(f.Key, v)
	default:
		return slog.Any(f.Key, v)
	}
}

// errorAttr renders err as its message. Errors built with the errors package
// become a group that also carries their category and component.
func errorAttr(key string, err error) slog.Attr {
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return slog.String(key, err.Error())
	}
	return slog.Group(key,
		slog.String("msg", err.Error()),
		slog.String("category", ee.GetCategory()),
		slog.String("component", ee.GetComponent()))
}
