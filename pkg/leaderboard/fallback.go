package leaderboard

import (
	"context"
	"sort"
	"sync"

	"github.com/hetfly/snake-demo/pkg/config"
)

// FallbackStore keeps the best entries in memory, sorted by score
// descending. Entries with equal scores keep submission order.
type FallbackStore struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewFallbackStore creates a store holding at most capacity entries.
// A non-positive capacity uses config.FallbackCapacity.
func NewFallbackStore(capacity int) *FallbackStore {
	if capacity <= 0 {
		capacity = config.FallbackCapacity
	}
	return &FallbackStore{capacity: capacity}
}

// Add stores an entry and trims the list to capacity.
func (s *FallbackStore) Add(e Entry) Entry {
	e = e.Complete()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Score > s.entries[j].Score
	})
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	return e
}

// Top returns up to limit entries, best first.
func (s *FallbackStore) Top(limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]Entry, limit)
	copy(out, s.entries[:limit])
	return out
}

// Len returns the number of stored entries.
func (s *FallbackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// AddScore implements Store.
func (s *FallbackStore) AddScore(_ context.Context, e Entry) (Entry, error) {
	return s.Add(e), nil
}

// TopScores implements Store.
func (s *FallbackStore) TopScores(_ context.Context, limit int) ([]Entry, error) {
	return s.Top(limit), nil
}
