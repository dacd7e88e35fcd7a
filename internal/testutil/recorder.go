package testutil

import (
	"sync"

	"github.com/hupe1980/usecasemesh/state"
)

// Recorder observes a state.Stream and keeps every published value in order.
type Recorder[S any] struct {
	mu     sync.Mutex
	values []S
	stop   func()
}

// Record starts observing s. Values published before the call are not seen.
func Record[S any](s *state.Stream[S]) *Recorder[S] {
	r := &Recorder[S]{}
	r.stop = s.Observe(func(v S) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.values = append(r.values, v)
	})
	return r
}

// Values returns a copy of the recorded values.
func (r *Recorder[S]) Values() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]S, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of recorded values.
func (r *Recorder[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Stop detaches the recorder from its stream.
func (r *Recorder[S]) Stop() { r.stop() }

// Kinds maps recorded states to their kinds.
func Kinds[T any](states []state.State[T]) []state.Kind {
	out := make([]state.Kind, 0, len(states))
	for _, s := range states {
		out = append(out, s.Kind())
	}
	return out
}
