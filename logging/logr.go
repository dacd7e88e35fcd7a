package logging

import "github.com/go-logr/logr"

// LogrAdapter wraps a logr.Logger to implement the Logger interface.
//
// logr has no warn level; Warn is mapped to Info with a "level"="warn" pair and
// Debug to V(1).
type LogrAdapter struct {
	logr.Logger
}

// NewLogrAdapter creates a Logger from a logr.Logger.
func NewLogrAdapter(l logr.Logger) Logger {
	return &LogrAdapter{Logger: l}
}

// Debug logs a debug message.
func (a *LogrAdapter) Debug(msg string, args ...any) { a.Logger.V(1).Info(msg, args...) }

// Info logs an informational message.
func (a *LogrAdapter) Info(msg string, args ...any) { a.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (a *LogrAdapter) Warn(msg string, args ...any) {
	a.Logger.Info(msg, append([]any{"level", "warn"}, args...)...)
}

// Error logs an error message. An "error" key in args becomes the logr error value.
func (a *LogrAdapter) Error(msg string, args ...any) {
	var err error
	rest := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		if k, ok := args[i].(string); ok && k == "error" && i+1 < len(args) {
			if e, ok := args[i+1].(error); ok && err == nil {
				err = e
				i++
				continue
			}
		}
		rest = append(rest, args[i])
	}
	a.Logger.Error(err, msg, rest...)
}
