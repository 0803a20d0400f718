package log

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int32

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, &levelError{name: s}
	}
}

type levelError struct{ name string }

func (e *levelError) Error() string { return "log: unknown level " + e.name }

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger defines the core logging interface for lodex components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying the given fields on every entry.
	With(fields ...Field) Logger

	// WithComponent tags logs with a component name
	WithComponent(component string) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)

	// GetLevel returns the current minimum log level
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*pipeline)

// pipeline is shared by a root logger and every child derived from it.
type pipeline struct {
	level     atomic.Int32
	formatter Formatter
	outputs   []Output

	mu         sync.Mutex // serializes writes to outputs
	redactions []string
	sampleInit int
	sampleThen int
}

func (p *pipeline) enabled(l Level) bool { return Level(p.level.Load()) <= l }

func (p *pipeline) write(entry *Entry) error {
	formatted, err := p.formatter.Format(entry)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, out := range p.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

// BaseLogger implements the Logger interface on top of slog.
type BaseLogger struct {
	p          *pipeline
	slogLogger *slog.Logger
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	p := &pipeline{formatter: &JSONFormatter{}}
	p.level.Store(int32(InfoLevel))

	for _, option := range options {
		option(p)
	}

	// Add default output if none specified
	if len(p.outputs) == 0 {
		p.outputs = append(p.outputs, NewConsoleOutput())
	}

	h := newBridgeHandler(p).withRedactions(p.redactions).withSampler(p.sampleInit, p.sampleThen)
	return &BaseLogger{p: p, slogLogger: slog.New(h)}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(p *pipeline) {
		p.level.Store(int32(level))
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(p *pipeline) {
		if formatter != nil {
			p.formatter = formatter
		}
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(p *pipeline) {
		p.outputs = append(p.outputs, output)
	}
}

// WithRedactions replaces the values of the given field keys with "[REDACTED]".
func WithRedactions(keys ...string) LoggerOption {
	return func(p *pipeline) {
		p.redactions = append(p.redactions, keys...)
	}
}

// WithSampling keeps the first `initial` entries per level+message and then
// every `thereafter`-th one.
func WithSampling(initial, thereafter int) LoggerOption {
	return func(p *pipeline) {
		p.sampleInit = initial
		p.sampleThen = thereafter
	}
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if !l.p.enabled(level) {
		return
	}
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrsFromFieldSlice(fields)...)
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With adds multiple fields to the logger.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &BaseLogger{p: l.p, slogLogger: l.slogLogger.With(attrsToAny(attrsFromFieldSlice(fields))...)}
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel sets the minimum level for this logger and every logger sharing its pipeline.
func (l *BaseLogger) SetLevel(level Level) { l.p.level.Store(int32(level)) }

// GetLevel returns the current minimum level.
func (l *BaseLogger) GetLevel() Level { return Level(l.p.level.Load()) }

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewLogger(WithLevel(ErrorLevel+1), WithOutput(NullOutput{}))
}
