// Package memstore is an in-process implementation of the shared document
// store. It backs tests and single-node deployments where the board and all
// clients talk to the same process, so no broker is needed.
package memstore

import (
	"context"
	"sync"

	"buzzboard/internal/store"
)

// Store keeps full documents keyed by path and fans each write out to every
// subscriber asynchronously, mirroring the push semantics of the brokered
// backends: a writer sees its own write only via its subscription.
type Store struct {
	mu        sync.Mutex
	docs      map[string][]byte
	subs      map[string]map[int]*subscriber
	nextSubID int
	closed    bool
}

type subscriber struct {
	fn     store.ChangeFunc
	ch     chan []byte
	done   chan struct{}
	closed sync.Once
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		docs: make(map[string][]byte),
		subs: make(map[string]map[int]*subscriber),
	}
}

// Read returns the current document at path.
func (s *Store) Read(_ context.Context, path string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.docs[path]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), v...)
	return out, true, nil
}

// Write replaces the document at path and queues the new value for delivery
// to every subscriber. Last write wins; there is no revision check.
func (s *Store) Write(_ context.Context, path string, value []byte) error {
	stored := append([]byte(nil), value...)

	s.mu.Lock()
	s.docs[path] = stored
	targets := make([]*subscriber, 0, len(s.subs[path]))
	for _, sub := range s.subs[path] {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- stored:
		case <-sub.done:
		}
	}
	return nil
}

// Subscribe registers fn for every subsequent write to path. Deliveries are
// serialized per subscriber and arrive in write order.
func (s *Store) Subscribe(_ context.Context, path string, fn store.ChangeFunc) (store.Unsubscribe, error) {
	sub := &subscriber{
		fn:   fn,
		ch:   make(chan []byte, 64),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	if s.subs[path] == nil {
		s.subs[path] = make(map[int]*subscriber)
	}
	s.subs[path][id] = sub
	s.mu.Unlock()

	go sub.run(path)

	return func() {
		s.mu.Lock()
		delete(s.subs[path], id)
		s.mu.Unlock()
		sub.stop()
	}, nil
}

func (sub *subscriber) run(path string) {
	for {
		select {
		case v := <-sub.ch:
			sub.fn(path, v)
		case <-sub.done:
			return
		}
	}
}

func (sub *subscriber) stop() {
	sub.closed.Do(func() { close(sub.done) })
}

// Close stops all subscriber deliveries.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, subs := range s.subs {
		for _, sub := range subs {
			sub.stop()
		}
	}
	s.subs = make(map[string]map[int]*subscriber)
	return nil
}
