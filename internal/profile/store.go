package profile

import (
	"log/slog"
	"sync"
)

// Store holds the canonical Record for a session. Commit is the only way
// to change it.
type Store struct {
	mu        sync.RWMutex
	record    Record
	highWater int
	commits   int

	subMu  sync.Mutex
	subs   map[int]func(Record)
	nextID int
}

// NewStore creates a Store seeded with a copy of seed.
func NewStore(seed Record) *Store {
	return &Store{
		record:    seed.Clone(),
		highWater: maxInterestID(seed.Interests),
		subs:      make(map[int]func(Record)),
	}
}

// Record returns a copy of the current record.
func (s *Store) Record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Clone()
}

// HighWaterID returns the highest interest id the store has ever held.
func (s *Store) HighWaterID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highWater
}

// Commits returns how many records have been committed.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Commit replaces the held record wholesale. It does not validate r.
// Subscribers are notified after the lock is released.
func (s *Store) Commit(r Record) {
	cp := r.Clone()

	s.mu.Lock()
	s.record = cp
	if m := maxInterestID(cp.Interests); m > s.highWater {
		s.highWater = m
	}
	s.commits++
	n := s.commits
	s.mu.Unlock()

	slog.Info("profile committed", "name", cp.FullName(), "interests", len(cp.Interests), "commit", n)

	s.subMu.Lock()
	subs := make([]func(Record), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(cp.Clone())
	}
}

// Subscribe registers fn to run with the new record after every commit.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Record)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Edit opens an editor over a copy of the current record that commits
// back into s.
func (s *Store) Edit(opts ...EditorOption) *Editor {
	opts = append([]EditorOption{WithIDFloor(s.HighWaterID())}, opts...)
	return NewEditor(s.Record(), s.Commit, opts...)
}
