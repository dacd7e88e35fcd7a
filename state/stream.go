package state

import (
	"slices"
	"sync"
)

// Stream is an ordered observable value holder.
//
// Set stores the latest value and publishes it to every subscriber before
// returning. Channel subscribers apply back-pressure: Set waits while a
// subscriber's buffer is full, so nothing is ever dropped. Observers run
// synchronously inside Set and must not call Set on the same Stream.
type Stream[S any] struct {
	pub sync.Mutex // serializes publication

	mu     sync.Mutex
	value  S
	set    bool
	subs   map[uint64]*subscriber[S]
	nextID uint64
	closed bool
}

type subscriber[S any] struct {
	ch       chan S
	fn       func(S)
	done     chan struct{}
	once     sync.Once
	chClosed bool // guarded by Stream.pub
}

// NewStream returns an empty Stream.
func NewStream[S any]() *Stream[S] {
	return &Stream[S]{subs: make(map[uint64]*subscriber[S])}
}

// Set stores v and publishes it. Set on a closed Stream is ignored.
func (s *Stream[S]) Set(v S) {
	s.pub.Lock()
	defer s.pub.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.set = true
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.fn != nil {
			select {
			case <-sub.done:
			default:
				sub.fn(v)
			}
			continue
		}
		select {
		case sub.ch <- v:
		case <-sub.done:
		}
	}
}

// Value returns the latest value and whether one was ever set.
func (s *Stream[S]) Value() (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Subscribe registers a channel subscriber with the given buffer. The returned
// function unsubscribes and closes the channel; Close closes it as well.
func (s *Stream[S]) Subscribe(buffer int) (<-chan S, func()) {
	if buffer < 0 {
		buffer = 0
	}
	sub := &subscriber[S]{ch: make(chan S, buffer), done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	id := s.register(sub)
	s.mu.Unlock()

	return sub.ch, func() {
		sub.once.Do(func() {
			close(sub.done)
			s.remove(id)

			s.pub.Lock()
			defer s.pub.Unlock()
			if !sub.chClosed {
				sub.chClosed = true
				close(sub.ch)
			}
		})
	}
}

// Observe registers fn to be called synchronously on every Set. The returned
// function unregisters it and may be called from within fn.
func (s *Stream[S]) Observe(fn func(S)) func() {
	sub := &subscriber[S]{fn: fn, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.register(sub)
	s.mu.Unlock()

	return func() {
		sub.once.Do(func() {
			close(sub.done)
			s.remove(id)
		})
	}
}

// Close stops publication and closes every subscriber channel.
func (s *Stream[S]) Close() {
	s.pub.Lock()
	defer s.pub.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.snapshotLocked()
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.ch != nil && !sub.chClosed {
			sub.chClosed = true
			close(sub.ch)
		}
	}
}

// register adds sub; caller must hold s.mu.
func (s *Stream[S]) register(sub *subscriber[S]) uint64 {
	if s.subs == nil {
		s.subs = make(map[uint64]*subscriber[S])
	}
	s.nextID++
	s.subs[s.nextID] = sub
	return s.nextID
}

func (s *Stream[S]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// snapshotLocked returns subscribers in registration order; caller must hold s.mu.
func (s *Stream[S]) snapshotLocked() []*subscriber[S] {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*subscriber[S], 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}
