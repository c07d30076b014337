// Package store holds the catalog, cart and checkout state machines.
//
// Each store is a pure reducer over an immutable state value plus a set of
// selectors that derive views from that value. Store wraps a reducer with
// the current state and applies dispatched actions one at a time.
package store

import "sync"

// Reducer computes the next state from the current state and an action.
// Implementations must not modify the state they receive.
type Reducer[S any, A any] func(state S, action A) S

// Store keeps the current state of one reducer.
type Store[S any, A any] struct {
	mu      sync.RWMutex
	state   S
	reduce  Reducer[S, A]
	observe []func(action A, next S)
}

// New creates a Store holding initial.
func New[S any, A any](initial S, reduce Reducer[S, A]) *Store[S, A] {
	return &Store[S, A]{
		state:  initial,
		reduce: reduce,
	}
}

// Dispatch applies action and returns the resulting state. Concurrent
// dispatches are applied in the order they acquire the store.
func (s *Store[S, A]) Dispatch(action A) S {
	s.mu.Lock()
	next := s.reduce(s.state, action)
	s.state = next
	observers := s.observe
	s.mu.Unlock()

	for _, fn := range observers {
		fn(action, next)
	}
	return next
}

// Exchange applies action like Dispatch and also returns the state it
// replaced. Both values belong to the same step, so no other dispatch can
// land between them.
func (s *Store[S, A]) Exchange(action A) (prev, next S) {
	s.mu.Lock()
	prev = s.state
	next = s.reduce(prev, action)
	s.state = next
	observers := s.observe
	s.mu.Unlock()

	for _, fn := range observers {
		fn(action, next)
	}
	return prev, next
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Observe registers fn to be called after every dispatch.
func (s *Store[S, A]) Observe(fn func(action A, next S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe = append(s.observe, fn)
}
