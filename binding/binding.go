// Package binding wires a runner's lifecycle callbacks to observable state
// streams.
//
// The runner keeps no history of emitted values. Binding is the one place
// where state is carried across the callback stream: the terminal Success
// state repeats the last value captured before completion.
package binding

import (
	"github.com/hupe1980/usecasemesh/runner"
	"github.com/hupe1980/usecasemesh/state"
)

// Bind translates the runner's callbacks into states on s:
//
//	before      -> Loading
//	onResult(v) -> Result(v)
//	onCancel    -> Cancelled
//	onError(e)  -> Error(e)
//	after       -> Success(last)
//
// where last is the value of the Result state current when the run completed.
// Bind replaces every previously registered callback and returns r.
func Bind[T, P any](r *runner.Runner[T, P], s *state.Stream[state.State[T]]) *runner.Runner[T, P] {
	return r.SetCallbacks(runner.Callbacks[T]{
		Before:   func() { s.Set(state.Loading[T]()) },
		OnResult: func(v T) { s.Set(state.Result(v)) },
		OnCancel: func() { s.Set(state.Cancelled[T]()) },
		OnError:  func(err error) { s.Set(state.Failure[T](err)) },
		After: func() {
			var last T
			ok := false
			if cur, set := s.Value(); set && cur.Kind() == state.KindResult {
				last, ok = cur.Value()
			}
			s.Set(state.Success(last, ok))
		},
	})
}

// BindLifecycle splits the callback stream in two: lifecycle states go to
// states and raw emitted values go to values. Result states are never
// published on states; Success carries the latest value seen on values
// during the run.
func BindLifecycle[T, P any](r *runner.Runner[T, P], states *state.Stream[state.State[T]], values *state.Stream[T]) *runner.Runner[T, P] {
	// only touched on the delivery executor
	var (
		last    T
		hasLast bool
	)

	return r.SetCallbacks(runner.Callbacks[T]{
		Before: func() {
			var zero T
			last, hasLast = zero, false
			states.Set(state.Loading[T]())
		},
		OnResult: func(v T) {
			last, hasLast = v, true
			values.Set(v)
		},
		OnCancel: func() { states.Set(state.Cancelled[T]()) },
		OnError:  func(err error) { states.Set(state.Failure[T](err)) },
		After:    func() { states.Set(state.Success(last, hasLast)) },
	})
}
