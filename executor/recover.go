package executor

import (
	"runtime/debug"

	"github.com/hupe1980/usecasemesh/logging"
)

// safeCall runs fn and reports a panic instead of propagating it.
func safeCall(name string, logger logging.Logger, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("executor recovered panic", "executor", name, "panic", p, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
