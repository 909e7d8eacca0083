// Package stream provides replay-latest observable values.
//
// A Subject holds the latest published value. Subscribers receive it
// immediately and then every later value. Delivery is latest-wins: each
// subscriber channel has a single slot, and a value the subscriber has not
// read yet is replaced by a newer one, so Publish never blocks.
package stream

import "sync"

// Subject is a replay-latest value shared by any number of subscribers
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[uint64]chan T
	nextID uint64
	closed bool
}

// NewSubject creates a subject holding initial
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[uint64]chan T),
	}
}

// Value returns the latest published value
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish stores v and delivers it to every subscriber
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel that yields the latest value followed by every
// later one. The cancel func closes the channel and is safe to call twice.
func (s *Subject[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.value

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close closes every subscriber channel; later publishes are ignored
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Map subscribes to src and yields fn applied to each value, with the same
// replay-latest and latest-wins semantics as a direct subscription.
func Map[T, U any](src *Subject[T], fn func(T) U) (<-chan U, func()) {
	in, cancel := src.Subscribe()
	out := make(chan U, 1)
	go func() {
		defer close(out)
		for v := range in {
			offer(out, fn(v))
		}
	}()
	return out, cancel
}

// offer puts v into a one-slot channel, dropping an unread older value.
// Callers must be the only writer of ch.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
