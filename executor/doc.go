// Package executor provides the execution contexts a runner schedules onto.
//
// A runner bridges two scheduling domains:
//
//   - a work executor hosting the workload (Goroutine or Pool)
//   - a delivery executor hosting every lifecycle callback (Serial)
//
// Serial runs submitted functions one at a time in submission order on a
// single goroutine, which is what observers of a runner expect. Inline runs
// functions on the caller's goroutine and is meant for tests.
//
// All executors recover panics raised by submitted functions and report them
// through the configured logger.
package executor
