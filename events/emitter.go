// Package events provides a per-instance publish/subscribe channel for
// session lifecycle events.
package events

import (
	"sync"
)

// Topic is a publish/subscribe channel for a single event type. One Topic
// exists per event name; the payload type is fixed per topic, which keeps
// heterogeneous event payloads type-safe without a dynamic registry.
type Topic[T any] struct {
	lock     sync.Mutex
	nextID   int
	handlers []subscriber[T]
}

type subscriber[T any] struct {
	id      int
	handler func(T)
}

// NewTopic creates an empty topic.
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{}
}

// Subscribe registers handler and returns a function that removes it again.
// A handler subscribed while an emission is in progress is not invoked for
// that emission.
func (t *Topic[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.nextID++
	id := t.nextID
	t.handlers = append(t.handlers, subscriber[T]{id: id, handler: handler})

	return func() {
		t.lock.Lock()
		defer t.lock.Unlock()
		for i, s := range t.handlers {
			if s.id == id {
				t.handlers = append(t.handlers[:i], t.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers payload synchronously to all current subscribers in
// subscription order. The subscriber set is snapshotted before iterating so
// handlers unsubscribing during emission do not corrupt the iteration, and a
// panicking handler does not prevent subsequent handlers from running.
func (t *Topic[T]) Emit(payload T) {
	t.lock.Lock()
	snapshot := make([]subscriber[T], len(t.handlers))
	copy(snapshot, t.handlers)
	t.lock.Unlock()

	for _, s := range snapshot {
		invoke(s.handler, payload)
	}
}

// Len returns the current number of subscribers.
func (t *Topic[T]) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.handlers)
}

func invoke[T any](handler func(T), payload T) {
	defer func() {
		_ = recover()
	}()
	handler(payload)
}
