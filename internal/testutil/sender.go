package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/usecasemesh/core"
)

// RecordingSender is an in-memory core.Sender that keeps every accepted value.
// Example:
//
//	out := testutil.NewRecordingSender[int]().OnSend(func(n int) { cancel() })
//	err := workload.Run(ctx, out, params)
//
// It honours the Sender contract: Send after Close and a second Close return
// core.ErrChannelClosed, and Send on a done ctx returns the context cause.
type RecordingSender[T any] struct {
	mu     sync.Mutex
	values []T
	closed bool
	onSend func(n int)
}

var _ core.Sender[int] = (*RecordingSender[int])(nil)

// NewRecordingSender creates an empty RecordingSender.
func NewRecordingSender[T any]() *RecordingSender[T] { return &RecordingSender[T]{} }

// OnSend sets a hook called with the number of accepted values after each
// Send (chainable). The hook runs outside the sender's lock.
func (s *RecordingSender[T]) OnSend(fn func(n int)) *RecordingSender[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSend = fn
	return s
}

// Send implements core.Sender.
func (s *RecordingSender[T]) Send(ctx context.Context, v T) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return core.ErrChannelClosed
	}
	s.values = append(s.values, v)
	n := len(s.values)
	hook := s.onSend
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	return nil
}

// Close implements core.Sender.
func (s *RecordingSender[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrChannelClosed
	}
	s.closed = true
	return nil
}

// Values returns a copy of the accepted values.
func (s *RecordingSender[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Closed reports whether Close was called.
func (s *RecordingSender[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
