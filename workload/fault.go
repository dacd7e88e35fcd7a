package workload

import (
	"errors"
	"sync/atomic"
)

// ErrInjected is raised by a workload whose FaultInjector was armed.
var ErrInjected = errors.New("error thrown")

// FaultInjector is a switch that asks a running workload to fail at its next
// emission. It is safe for concurrent use.
type FaultInjector struct {
	armed atomic.Bool
}

// NewFaultInjector returns a disarmed injector.
func NewFaultInjector() *FaultInjector { return &FaultInjector{} }

// Arm requests a failure at the next check.
func (f *FaultInjector) Arm() {
	if f != nil {
		f.armed.Store(true)
	}
}

// Reset disarms the injector.
func (f *FaultInjector) Reset() {
	if f != nil {
		f.armed.Store(false)
	}
}

// Armed reports whether a failure was requested. A nil injector is never armed.
func (f *FaultInjector) Armed() bool {
	return f != nil && f.armed.Load()
}

// Check returns ErrInjected when armed.
func (f *FaultInjector) Check() error {
	if f.Armed() {
		return ErrInjected
	}
	return nil
}
