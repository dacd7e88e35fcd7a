package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRestarted is the cancellation cause of a run superseded by a new
	// invocation. It never reaches a callback.
	ErrRestarted = errors.New("use case restarted")

	// ErrForcedCancel is the cancellation cause of a run stopped through
	// Cancel. It is reported through the cancel callback.
	ErrForcedCancel = errors.New("use case cancelled")

	// ErrChannelClosed is returned by Sender.Send after the emission channel
	// was closed. A run ending with it is treated as a normal completion.
	ErrChannelClosed = errors.New("emission channel closed")

	// ErrRunnerClosed is reported by handles of invocations made after the
	// runner was closed.
	ErrRunnerClosed = errors.New("runner closed")
)

// WorkloadError is the error handed to the error callback when a workload
// fails. Cause is the original error returned (or panicked) by the workload.
type WorkloadError struct {
	UseCase string
	RunID   string
	Cause   error
}

// Error implements the error interface.
func (e *WorkloadError) Error() string {
	if e.UseCase == "" {
		return fmt.Sprintf("workload failed: %v", e.Cause)
	}
	return fmt.Sprintf("use case %s failed: %v", e.UseCase, e.Cause)
}

// Unwrap returns the original cause.
func (e *WorkloadError) Unwrap() error { return e.Cause }

// PanicError carries a value recovered from a panicking workload.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("workload panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsControlSignal reports whether err is one of the runner's internal
// control signals rather than a genuine workload failure.
func IsControlSignal(err error) bool {
	return errors.Is(err, ErrRestarted) || errors.Is(err, ErrForcedCancel) || errors.Is(err, ErrChannelClosed)
}
