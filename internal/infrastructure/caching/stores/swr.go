// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/types"
)

// SWRStore is the in-memory stale-while-revalidate entry store. All access is
// key-scoped; keys embed every parameter that affects the result by
// convention, so distinct queries never collide.
type SWRStore struct {
	entries map[string]*types.Entry
	mu      sync.RWMutex
}

// NewSWRStore creates an empty store.
func NewSWRStore() *SWRStore {
	return &SWRStore{
		entries: make(map[string]*types.Entry),
	}
}

// Get returns the entry under key, expired or not. Callers decide whether to
// revalidate based on Entry.IsExpired.
func (s *SWRStore) Get(key string) (*types.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[key]
	return entry, exists
}

// Set stores an entry, replacing any previous value under the key.
func (s *SWRStore) Set(entry *types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
}

// Invalidate removes the entry under key.
func (s *SWRStore) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidatePrefix removes every entry whose key starts with the prefix.
// Browse keys embed the entity type first, so a mutation on one entity type
// can drop all of its cached pages in one call.
func (s *SWRStore) InvalidatePrefix(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key := range s.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.entries, key)
			removed = append(removed, key)
		}
	}
	return removed
}

// PurgeOlderThan removes entries whose age exceeds maxAge and returns the
// purged keys. Used by the cleanup routine; SWR semantics keep serving
// expired entries, but entries nobody has touched in maxAge are dead weight.
func (s *SWRStore) PurgeOlderThan(now time.Time, maxAge time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged []string
	for key, entry := range s.entries {
		if entry.Age(now) > maxAge {
			delete(s.entries, key)
			purged = append(purged, key)
		}
	}
	return purged
}

// Len returns the number of stored entries.
func (s *SWRStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns all stored keys.
func (s *SWRStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}
