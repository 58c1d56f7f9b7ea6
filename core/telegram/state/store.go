package state

import "sync"

type entry[T any] struct {
	mu   sync.Mutex
	val  T
	refs int
}

// Store holds one session value per user id.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[int64]*entry[T]
	idle    func(T) bool
}

// Option customises a Store.
type Option[T any] func(*Store[T])

// WithIdle registers a predicate; a session that satisfies it after Update
// is dropped from memory.
func WithIdle[T any](idle func(T) bool) Option[T] {
	return func(s *Store[T]) { s.idle = idle }
}

// NewStore constructs an empty in-memory session store.
func NewStore[T any](opts ...Option[T]) *Store[T] {
	s := &Store[T]{entries: make(map[int64]*entry[T])}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the user's session and whether one exists.
func (s *Store[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		var zero T
		return zero, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.val, true
}

// Set replaces the user's session.
func (s *Store[T]) Set(userID int64, val T) {
	_ = s.Update(userID, func(cur *T) error {
		*cur = val
		return nil
	})
}

// Update runs fn on the user's session while holding that user's lock.
// Calls for different users run in parallel. The session is written back
// even when fn returns an error.
func (s *Store[T]) Update(userID int64, fn func(*T) error) error {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry[T]{}
		s.entries[userID] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	err := fn(&e.val)
	drop := s.idle != nil && s.idle(e.val)
	e.mu.Unlock()

	s.mu.Lock()
	e.refs--
	if drop && e.refs == 0 && s.entries[userID] == e {
		delete(s.entries, userID)
	}
	s.mu.Unlock()
	return err
}

// Clear removes the user's session.
func (s *Store[T]) Clear(userID int64) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

// Len reports how many sessions are held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
