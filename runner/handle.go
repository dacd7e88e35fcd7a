package runner

import (
	"context"

	"github.com/hupe1980/usecasemesh/core"
)

// Handle represents one spawned run. Callers may ignore it; it exists for
// tracking and for tests that need to wait for a run to settle.
type Handle struct {
	id   string
	done chan struct{}

	// written once before done is closed
	outcome core.Outcome
	err     error
}

func newHandle() *Handle {
	return &Handle{id: core.NewID(), done: make(chan struct{})}
}

// ID returns the run identifier.
func (h *Handle) ID() string { return h.id }

// Done is closed once the run reached its outcome and its terminal callback
// (if any) was scheduled on the delivery executor.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Outcome returns the run outcome, or OutcomePending while the run is in flight.
func (h *Handle) Outcome() core.Outcome {
	select {
	case <-h.done:
		return h.outcome
	default:
		return core.OutcomePending
	}
}

// Err returns the error handed to the error callback when the run failed, or
// core.ErrRunnerClosed when the run was never started.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the run settles or ctx is done.
func (h *Handle) Wait(ctx context.Context) (core.Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, h.err
	case <-ctx.Done():
		return core.OutcomePending, ctx.Err()
	}
}

func (h *Handle) finish(outcome core.Outcome, err error) {
	h.outcome = outcome
	h.err = err
	close(h.done)
}

func (h *Handle) finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
