package executor

import (
	"context"
	"sync"

	"github.com/hupe1980/usecasemesh/logging"
)

// Serial runs submitted functions one at a time, in submission order, on a
// single dedicated goroutine. The queue is unbounded so Go never blocks.
//
// Serial is the usual delivery executor: every callback of a runner observes
// the effects of every earlier callback.
type Serial struct {
	name   string
	logger logging.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// SerialOptions configures a Serial executor.
type SerialOptions struct {
	// Name is attached to log entries.
	Name string
	// Logger reports recovered panics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewSerial starts a Serial executor.
func NewSerial(optFns ...func(o *SerialOptions)) *Serial {
	opts := SerialOptions{
		Name:   "serial",
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Serial{
		name:   opts.Name,
		logger: logging.Component(opts.Logger, "executor"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go s.loop()

	return s
}

// Go enqueues fn. Functions submitted after Close are dropped.
func (s *Serial) Go(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("serial executor closed, dropping function", "executor", s.name)
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every function submitted before the call has run, or
// ctx is done.
func (s *Serial) Flush(ctx context.Context) error {
	marker := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.queue = append(s.queue, func() { close(marker) })
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting functions. Already queued functions still run; Done
// is closed once the queue is drained. Close does not wait, so it is safe to
// call from a function running on the executor.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Done is closed after Close once every queued function has run.
func (s *Serial) Done() <-chan struct{} { return s.done }

func (s *Serial) loop() {
	defer close(s.done)

	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		closed := s.closed
		s.mu.Unlock()

		for _, fn := range batch {
			safeCall(s.name, s.logger, fn)
		}

		if len(batch) > 0 {
			continue
		}

		if closed {
			return
		}

		<-s.wake
	}
}
