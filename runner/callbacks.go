package runner

// Callbacks enumerates the lifecycle hooks of a Runner. Every hook runs on
// the delivery executor; nil hooks are skipped.
type Callbacks[T any] struct {
	// Before runs when a run starts, before any result.
	Before func()
	// OnResult runs once per emitted value, in emission order.
	OnResult func(T)
	// OnError runs when the workload failed. The error is a
	// *core.WorkloadError wrapping the original cause.
	OnError func(error)
	// OnCancel runs when the run was stopped through Cancel.
	OnCancel func()
	// After runs when the workload finished normally.
	After func()
}

// DoBefore registers the hook triggered before the execution of the task,
// replacing any previous one.
func (r *Runner[T, P]) DoBefore(fn func()) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks.Before = fn
	return r
}

// DoAfter registers the hook triggered after the run has completed normally.
// This is a good place to clean up.
func (r *Runner[T, P]) DoAfter(fn func()) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks.After = fn
	return r
}

// OnResult registers the hook triggered for every value the workload emits.
func (r *Runner[T, P]) OnResult(fn func(T)) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks.OnResult = fn
	return r
}

// OnError registers the hook triggered when the workload fails.
func (r *Runner[T, P]) OnError(fn func(error)) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks.OnError = fn
	return r
}

// OnCancel registers the hook triggered when a run is cancelled through Cancel.
func (r *Runner[T, P]) OnCancel(fn func()) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks.OnCancel = fn
	return r
}

// SetCallbacks replaces all five hooks at once.
func (r *Runner[T, P]) SetCallbacks(cb Callbacks[T]) *Runner[T, P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = cb
	return r
}

// Callbacks returns a copy of the registered hooks.
func (r *Runner[T, P]) Callbacks() Callbacks[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callbacks
}
