package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Key identifies one (event, occurrence) firing. Non-recurring events use the
// event start as the occurrence instant.
type Key struct {
	EventID  string
	OccursAt time.Time
}

// String returns a stable textual form of the key.
func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.EventID, k.OccursAt.UnixNano())
}

// FiredSet records which (event, occurrence) pairs have already been
// notified. Add must have insert-if-absent semantics so that two engine
// replicas never both fire the same pair. Entries for elapsed occurrences are
// pruned to bound memory.
type FiredSet interface {
	// Add records the key and reports whether it was newly inserted.
	Add(ctx context.Context, key Key) (bool, error)
	// Prune removes entries whose occurrence instant is before cutoff.
	Prune(ctx context.Context, cutoff time.Time) error
}

// MemoryFiredSet is the in-process FiredSet. It resets on restart, which
// deliberately suppresses reminders for instants that elapsed while the
// process was down: those instants are in the past and no longer eligible.
type MemoryFiredSet struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryFiredSet returns an empty in-memory set.
func NewMemoryFiredSet() *MemoryFiredSet {
	return &MemoryFiredSet{entries: make(map[string]time.Time)}
}

func (s *MemoryFiredSet) Add(ctx context.Context, key Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := key.String()
	if _, ok := s.entries[id]; ok {
		return false, nil
	}
	s.entries[id] = key.OccursAt
	return true, nil
}

func (s *MemoryFiredSet) Prune(ctx context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, occursAt := range s.entries {
		if occursAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
	return nil
}

// Len reports the number of live entries. Exposed for tests and metrics.
func (s *MemoryFiredSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
