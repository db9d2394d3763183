package storage

import (
	"sort"
	"sync"

	"rumormill/internal/clock"
	"rumormill/internal/rumor"
)

// Store holds at most one rumor per (key, id). Inserting a colliding rumor
// merges it into the stored one instead of replacing it.
//
// Visitor callbacks run under the store's read lock; they must not retain
// or mutate the rumor they are handed and must not call back into the store.
type Store[T rumor.Mergeable[T]] struct {
	mu      sync.RWMutex
	list    map[string]map[string]T
	updates clock.Counter
}

// New creates an empty store.
func New[T rumor.Mergeable[T]]() *Store[T] {
	return &Store[T]{
		list: make(map[string]map[string]T),
	}
}

// Insert stores r, merging it into an existing rumor with the same identity.
// It returns true iff the stored state changed; each change bumps the
// update counter exactly once. r itself is never retained.
func (s *Store[T]) Insert(r T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.list[r.Key()]
	if !ok {
		byID = make(map[string]T)
		s.list[r.Key()] = byID
	}

	if existing, ok := byID[r.ID()]; ok {
		if !existing.Merge(r) {
			return false
		}
		s.updates.Increment()
		return true
	}

	byID[r.ID()] = r.Clone()
	s.updates.Increment()
	return true
}

// Remove deletes the rumor at (key, id), if any.
func (s *Store[T]) Remove(key, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.list[key]
	if !ok {
		return
	}
	if _, ok := byID[id]; !ok {
		return
	}
	delete(byID, id)
	if len(byID) == 0 {
		delete(s.list, key)
	}
	s.updates.Increment()
}

// Get returns a copy of the rumor at (key, id).
func (s *Store[T]) Get(key, id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.list[key][id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.Clone(), true
}

// WithRumor calls f with the rumor at (key, id) if it exists.
func (s *Store[T]) WithRumor(key, id string, f func(T)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.list[key][id]
	if ok {
		f(r)
	}
	return ok
}

// WithRumors calls f for every rumor under key in id order.
func (s *Store[T]) WithRumors(key string, f func(T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.list[key]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		f(byID[id])
	}
}

// WithKeys calls f for every key in sorted order.
func (s *Store[T]) WithKeys(f func(key string)) {
	for _, k := range s.Keys() {
		f(k)
	}
}

// Keys returns the sorted keys currently holding rumors.
func (s *Store[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.list))
	for k := range s.list {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContainsRumor reports whether a rumor exists at (key, id).
func (s *Store[T]) ContainsRumor(key, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.list[key][id]
	return ok
}

// LenForKey returns the number of rumors under key.
func (s *Store[T]) LenForKey(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.list[key])
}

// UpdateCounter returns the current update counter.
func (s *Store[T]) UpdateCounter() uint64 {
	return s.updates.Load()
}
