package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a case-insensitive level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface for usecasemesh.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// RunLogger is a slog backed Logger scoped by component, use case and run.
// With* methods return derived loggers and leave the receiver untouched.
type RunLogger struct {
	base   *slog.Logger // without scope attributes
	logger *slog.Logger // base plus scope attributes

	component string
	useCase   string
	runID     string
}

// LoggerConfig configures construction of a RunLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	// Component, when set, scopes the logger like WithComponent.
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a RunLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *RunLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	base := slog.New(handler)

	return (&RunLogger{base: base}).scope(cfg.Component, "", "")
}

// NewSlogLogger creates a RunLogger writing to stdout.
func NewSlogLogger(level LogLevel, format string, addSource bool) *RunLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// scope derives a logger carrying exactly the given scope attributes.
func (l *RunLogger) scope(component, useCase, runID string) *RunLogger {
	attrs := make([]any, 0, 3)
	if component != "" {
		attrs = append(attrs, slog.String("component", component))
	}
	if useCase != "" {
		attrs = append(attrs, slog.String("use_case", useCase))
	}
	if runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}

	return &RunLogger{
		base:      l.base,
		logger:    l.base.With(attrs...),
		component: component,
		useCase:   useCase,
		runID:     runID,
	}
}

// WithComponent nests name under the current component ("demo/runner").
func (l *RunLogger) WithComponent(name string) *RunLogger {
	if l.component != "" {
		name = l.component + "/" + name
	}
	return l.scope(name, l.useCase, l.runID)
}

// WithRun attaches use case and run identifiers.
func (l *RunLogger) WithRun(useCase, runID string) *RunLogger {
	return l.scope(l.component, useCase, runID)
}

// Debug logs at debug level.
func (l *RunLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *RunLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *RunLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *RunLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// LogRunOutcome records how a run ended and how long it took. A non-nil err
// is logged at error level together with its type.
func (l *RunLogger) LogRunOutcome(useCase, outcome string, dur time.Duration, err error) {
	args := make([]any, 0, 8)
	if l.useCase == "" {
		args = append(args, "use_case", useCase)
	}
	args = append(args, "outcome", outcome, "duration", dur)

	if err != nil {
		args = append(args, "error", err.Error(), "error_type", fmt.Sprintf("%T", err))
		l.logger.Error("use case run failed", args...)
		return
	}

	l.logger.Info("use case run finished", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// Component scopes l to the named component when it is a *RunLogger and
// returns other loggers unchanged. A nil l yields a NoOpLogger.
func Component(l Logger, name string) Logger {
	if rl, ok := l.(*RunLogger); ok && rl != nil {
		return rl.WithComponent(name)
	}
	return OrNoOp(l)
}
