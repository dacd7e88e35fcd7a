package workload

import (
	"context"
	"time"

	"github.com/hupe1980/usecasemesh/core"
)

// TaskOptions configures a TaskWorkload.
type TaskOptions struct {
	// Iterations of the CPU-bound loop.
	Iterations int
	// Delay is an optional pause before the completion is emitted.
	Delay time.Duration
}

// TaskWorkload spins through a counting loop and emits one completion marker.
// It takes no parameters.
type TaskWorkload struct {
	iterations int
	delay      time.Duration
}

var _ core.Workload[core.TaskCompletion, struct{}] = (*TaskWorkload)(nil)

// NewTask creates a TaskWorkload with optional overrides.
func NewTask(optFns ...func(o *TaskOptions)) *TaskWorkload {
	opts := TaskOptions{Iterations: 100}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &TaskWorkload{iterations: opts.Iterations, delay: opts.Delay}
}

// checkEvery bounds how long the loop runs without looking at ctx.
const checkEvery = 1 << 16

// Run implements core.Workload.
func (w *TaskWorkload) Run(ctx context.Context, out core.Sender[core.TaskCompletion], _ struct{}) error {
	n := 0
	for i := 0; i < w.iterations; i++ {
		n++
		if n%checkEvery == 0 && ctx.Err() != nil {
			return context.Cause(ctx)
		}
	}

	if err := sleep(ctx, w.delay); err != nil {
		return err
	}

	if err := out.Send(ctx, core.TaskCompletion{}); err != nil {
		return err
	}

	return out.Close()
}
