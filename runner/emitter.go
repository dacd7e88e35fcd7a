package runner

import (
	"context"
	"sync"

	"github.com/hupe1980/usecasemesh/core"
)

// emitter is a run's emission channel. The data channel itself is never
// closed; closing is signalled through done so that a late Send can never
// panic.
type emitter[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
}

var _ core.Sender[int] = (*emitter[int])(nil)

func newEmitter[T any](buffer int) *emitter[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &emitter[T]{
		ch:   make(chan T, buffer),
		done: make(chan struct{}),
	}
}

// Send implements core.Sender.
func (e *emitter[T]) Send(ctx context.Context, v T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// A closed channel or a finished context wins over free buffer space.
	select {
	case <-e.done:
		return core.ErrChannelClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	default:
	}

	select {
	case <-e.done:
		return core.ErrChannelClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	case e.ch <- v:
		return nil
	}
}

// Close implements core.Sender.
func (e *emitter[T]) Close() error {
	if e.close() {
		return nil
	}
	return core.ErrChannelClosed
}

// close reports whether this call closed the channel.
func (e *emitter[T]) close() bool {
	closed := false
	e.once.Do(func() {
		close(e.done)
		closed = true
	})
	return closed
}
