package executor

import "github.com/hupe1980/usecasemesh/logging"

// Inline runs functions synchronously on the calling goroutine. It is usable
// as a runner's work executor and in tests.
type Inline struct {
	Logger logging.Logger
}

// Go runs fn before returning.
func (e Inline) Go(fn func()) {
	safeCall("inline", logging.OrNoOp(e.Logger), fn)
}
