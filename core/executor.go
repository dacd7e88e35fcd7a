package core

// Executor schedules functions onto an execution context.
//
// A runner uses two executors: a work executor that hosts the workload and a
// delivery executor that hosts every lifecycle callback. Go may run fn on the
// calling goroutine before returning.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(fn func())

// Go calls f(fn).
func (f ExecutorFunc) Go(fn func()) { f(fn) }
