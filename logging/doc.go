// Package logging provides a minimal logging interface and adapters for usecasemesh.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error) that
// runners, executors and workloads use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - LogrAdapter wrapping a logr.Logger
//   - RunLogger with run scoped attributes and outcome helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	r := runner.New(w, func(o *runner.Options[T]) { o.Logger = logger })
//
// Arguments after the message are key/value pairs, as with slog.
package logging
