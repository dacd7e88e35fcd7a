package executor

import "github.com/hupe1980/usecasemesh/logging"

// Goroutine runs every function in its own goroutine. It is the default work
// executor and has no upper bound on parallelism.
type Goroutine struct {
	Logger logging.Logger
}

// Go starts fn in a new goroutine.
func (e Goroutine) Go(fn func()) {
	logger := logging.OrNoOp(e.Logger)
	go safeCall("goroutine", logger, fn)
}
