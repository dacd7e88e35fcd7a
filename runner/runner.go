package runner

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/usecasemesh/core"
	"github.com/hupe1980/usecasemesh/executor"
	"github.com/hupe1980/usecasemesh/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options[T any] struct {
	// Name identifies the use case in logs and errors.
	Name string
	// WorkExecutor hosts the workload. Defaults to executor.Goroutine. It
	// must eventually run every submitted function.
	WorkExecutor core.Executor
	// DeliveryExecutor hosts every callback. Defaults to a Serial executor
	// owned (and closed) by the Runner.
	DeliveryExecutor core.Executor
	// BufferSize sets the emission channel buffer. Zero means every Send
	// waits for the drain loop.
	BufferSize int
	// Callbacks are the initial lifecycle hooks.
	Callbacks Callbacks[T]
	// Logging services.
	Logger logging.Logger
}

// Runner coordinates runs of a single workload. Public methods are safe for
// concurrent use.
type Runner[T, P any] struct {
	workload core.Workload[T, P]

	name       string
	work       core.Executor
	delivery   core.Executor
	owned      *executor.Serial
	bufferSize int
	logger     logging.Logger

	mu         sync.Mutex
	callbacks  Callbacks[T]
	active     *run[T]
	generation uint64
	closed     bool
}

// run is the state of one invocation.
type run[T any] struct {
	gen     uint64
	ctx     context.Context
	cancel  context.CancelCauseFunc
	out     *emitter[T]
	handle  *Handle
	started time.Time
}

// silent reports whether pending dispatches of the run must be dropped.
func (rn *run[T]) silent() bool {
	cause := context.Cause(rn.ctx)
	return cause != nil && core.Classify(cause, nil).Silent()
}

// New constructs a Runner for w with optional overrides.
func New[T, P any](w core.Workload[T, P], optFns ...func(o *Options[T])) *Runner[T, P] {
	opts := Options[T]{
		Name:   "usecase",
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.Component(opts.Logger, "runner")

	r := &Runner[T, P]{
		workload:   w,
		name:       opts.Name,
		work:       opts.WorkExecutor,
		delivery:   opts.DeliveryExecutor,
		bufferSize: opts.BufferSize,
		logger:     logger,
		callbacks:  opts.Callbacks,
	}

	if r.work == nil {
		r.work = executor.Goroutine{Logger: logger}
	}

	if r.delivery == nil {
		r.owned = executor.NewSerial(func(o *executor.SerialOptions) {
			o.Name = opts.Name + "-delivery"
			o.Logger = logger
		})
		r.delivery = r.owned
	}

	return r
}

// Name returns the configured use case name.
func (r *Runner[T, P]) Name() string { return r.name }

// Invoke starts a run and returns its handle without blocking.
//
// An active run is superseded first: it is cancelled with core.ErrRestarted,
// its emission channel is closed and none of its callbacks fire afterwards.
// Callbacks are captured at invocation time.
func (r *Runner[T, P]) Invoke(params P) *Handle {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		h := newHandle()
		h.finish(core.OutcomeAbandoned, core.ErrRunnerClosed)
		return h
	}

	if prev := r.active; prev != nil {
		if prev.handle.finished() {
			r.active = nil
		} else {
			prev.cancel(core.ErrRestarted)
			prev.out.close()
			r.logger.Info("use case restarted", "use_case", r.name, "run_id", prev.handle.id, "generation", prev.gen)
		}
	}

	r.generation++
	ctx, cancel := context.WithCancelCause(context.Background())
	rn := &run[T]{
		gen:     r.generation,
		ctx:     ctx,
		cancel:  cancel,
		out:     newEmitter[T](r.bufferSize),
		handle:  newHandle(),
		started: time.Now(),
	}
	r.active = rn
	cb := r.callbacks

	r.mu.Unlock()

	r.logger.Debug("use case invoked", "use_case", r.name, "run_id", rn.handle.id, "generation", rn.gen)

	go r.execute(rn, cb, params)

	return rn.handle
}

// IsActive reports whether a run is in flight.
func (r *Runner[T, P]) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil && !r.active.handle.finished()
}

// Cancel stops the active run with core.ErrForcedCancel. The run dispatches
// OnCancel and never OnError or After. Cancel is a no-op when no run is
// active. The runner is inactive once Cancel returns.
func (r *Runner[T, P]) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rn := r.active
	r.active = nil

	if rn == nil || rn.handle.finished() {
		return
	}

	rn.cancel(core.ErrForcedCancel)
	rn.out.close()

	r.logger.Info("use case cancelled", "use_case", r.name, "run_id", rn.handle.id)
}

// Close abandons the active run without firing any callback and releases
// the delivery executor when it is owned by the runner. Later invocations
// return a handle that is already settled with core.ErrRunnerClosed.
func (r *Runner[T, P]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	rn := r.active
	r.active = nil
	r.mu.Unlock()

	if rn != nil {
		rn.cancel(context.Canceled)
		rn.out.close()
	}

	if r.owned != nil {
		r.owned.Close()
	}
}

func (r *Runner[T, P]) execute(rn *run[T], cb Callbacks[T], params P) {
	r.dispatch(rn, cb.Before)

	var err error
	if rn.ctx.Err() != nil {
		// superseded or cancelled before the workload started
		err = context.Cause(rn.ctx)
	} else {
		// the drain starts first so that an executor running the producer on
		// this goroutine still has a consumer
		drained := make(chan struct{})
		go func() {
			defer close(drained)
			r.drain(rn, cb.OnResult)
		}()

		produced := make(chan error, 1)
		r.work.Go(func() { produced <- r.produce(rn, params) })

		// the producer and the drain must both settle before the run can be
		// classified
		err = <-produced
		<-drained
	}

	r.finish(rn, cb, err)
}

// produce runs the workload in isolation. A panic becomes a *core.PanicError.
func (r *Runner[T, P]) produce(rn *run[T], params P) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &core.PanicError{Value: p, Stack: debug.Stack()}
		}
		rn.out.close()
	}()

	return r.workload.Run(rn.ctx, rn.out, params)
}

// drain forwards every emitted value to the delivery executor in order until
// the channel is closed or the run is cancelled. After a forced cancel,
// delivery of values still sitting in a buffered channel is best-effort: the
// loop may stop before reading them.
func (r *Runner[T, P]) drain(rn *run[T], onResult func(T)) {
	deliver := func(v T) {
		if onResult == nil {
			return
		}
		r.dispatch(rn, func() { onResult(v) })
	}

	for {
		select {
		case v := <-rn.out.ch:
			deliver(v)
		case <-rn.out.done:
			for {
				select {
				case v := <-rn.out.ch:
					deliver(v)
				default:
					return
				}
			}
		case <-rn.ctx.Done():
			return
		}
	}
}

// finish classifies the run and schedules its terminal callback. The
// classification happens under the lock so that it is atomic with respect to
// Cancel and Invoke.
func (r *Runner[T, P]) finish(rn *run[T], cb Callbacks[T], err error) {
	r.mu.Lock()
	outcome := core.Classify(context.Cause(rn.ctx), err)
	if r.active != nil && r.active.gen == rn.gen {
		r.active = nil
	}
	r.mu.Unlock()

	var cbErr error

	switch outcome {
	case core.OutcomeCompleted, core.OutcomeChannelClosed:
		r.dispatchTerminal(cb.After)
	case core.OutcomeCancelled:
		r.dispatchTerminal(cb.OnCancel)
	case core.OutcomeFailed:
		cbErr = &core.WorkloadError{UseCase: r.name, RunID: rn.handle.id, Cause: err}
		if cb.OnError != nil {
			onError := cb.OnError
			r.dispatchTerminal(func() { onError(cbErr) })
		}
	}

	r.logOutcome(rn, outcome, err)

	rn.handle.finish(outcome, cbErr)
}

func (r *Runner[T, P]) logOutcome(rn *run[T], outcome core.Outcome, err error) {
	dur := time.Since(rn.started)

	if rl, ok := r.logger.(*logging.RunLogger); ok {
		if outcome != core.OutcomeFailed {
			err = nil
		}
		rl.WithRun(r.name, rn.handle.id).LogRunOutcome(r.name, outcome.String(), dur, err)
		return
	}

	if outcome == core.OutcomeFailed {
		r.logger.Error("use case run failed", "use_case", r.name, "run_id", rn.handle.id, "duration", dur, "error", err)
	} else {
		r.logger.Debug("use case run finished", "use_case", r.name, "run_id", rn.handle.id, "outcome", outcome.String(), "duration", dur)
	}
}

// dispatch schedules fn on the delivery executor unless the run has been
// superseded or abandoned by the time fn would execute.
func (r *Runner[T, P]) dispatch(rn *run[T], fn func()) {
	if fn == nil {
		return
	}
	r.delivery.Go(func() {
		if rn.silent() {
			return
		}
		fn()
	})
}

func (r *Runner[T, P]) dispatchTerminal(fn func()) {
	if fn == nil {
		return
	}
	r.delivery.Go(fn)
}
