// Package manager coordinates the in-memory SWR cache store with its
// persistent backing database.
package manager

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/stores"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/types"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/persistence/cachedb"
)

// Manager is the process-wide cache. The store is a shared mutable map; all
// collision avoidance is by key convention (keys embed every parameter that
// affects the result).
type Manager struct {
	store  *stores.SWRStore
	db     *cachedb.Database
	logger *logging.ChanneledLogger

	// revalidating tracks keys with a background refetch in flight so that
	// an expired entry triggers exactly one.
	revalidating map[string]bool
	mu           sync.Mutex

	stopCleanup chan struct{}
}

// NewManager creates a cache manager. db may be nil; persistence is then
// disabled and the cache is memory-only.
func NewManager(db *cachedb.Database, logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		store:        stores.NewSWRStore(),
		db:           db,
		logger:       logger,
		revalidating: make(map[string]bool),
		stopCleanup:  make(chan struct{}),
	}
}

// Warm loads persisted entries into the in-memory store at startup.
func (m *Manager) Warm() int {
	if m.db == nil {
		return 0
	}

	entries, err := m.db.LoadAll()
	if err != nil {
		m.logger.Cache().Error("Failed to warm cache from persistence", "error", err.Error())
		return 0
	}

	for _, entry := range entries {
		m.store.Set(entry)
	}

	m.logger.Cache().Info("Cache warmed from persistence", "entries", len(entries))
	return len(entries)
}

// Get returns the entry under key together with its staleness at now.
// Expired entries are still returned; staleness only signals that a
// background refetch is due.
func (m *Manager) Get(key string) (*types.Entry, bool, bool) {
	entry, found := m.store.Get(key)
	if !found {
		return nil, false, false
	}
	return entry, entry.IsExpired(time.Now().UTC()), true
}

// Set stores data under key with the given TTL and writes through to the
// persistent store when one is configured.
func (m *Manager) Set(key string, data json.RawMessage, ttl time.Duration) {
	entry := &types.Entry{
		Key:       key,
		Data:      data,
		Timestamp: time.Now().UTC(),
		TTL:       ttl,
	}
	m.store.Set(entry)

	if m.db != nil {
		if err := m.db.Save(entry); err != nil {
			m.logger.Cache().Error("Failed to persist cache entry", "key", key, "error", err.Error())
		}
	}
}

// Invalidate removes the entry under key from memory and persistence.
func (m *Manager) Invalidate(key string) {
	m.store.Invalidate(key)
	if m.db != nil {
		if err := m.db.Delete(key); err != nil {
			m.logger.Cache().Error("Failed to delete persisted cache entry", "key", key, "error", err.Error())
		}
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix. Browse
// cache keys start with the entity type, so editor mutations can drop all
// cached pages for the mutated type.
func (m *Manager) InvalidatePrefix(prefix string) {
	removed := m.store.InvalidatePrefix(prefix)
	if m.db != nil {
		for _, key := range removed {
			if err := m.db.Delete(key); err != nil {
				m.logger.Cache().Error("Failed to delete persisted cache entry", "key", key, "error", err.Error())
			}
		}
	}
	if len(removed) > 0 {
		m.logger.Cache().Debug("Invalidated cache entries by prefix", "prefix", prefix, "count", len(removed))
	}
}

// TryBeginRevalidate marks key as having a background refetch in flight.
// Returns false if one is already running, guaranteeing at most one
// revalidation per key at a time.
func (m *Manager) TryBeginRevalidate(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revalidating[key] {
		return false
	}
	m.revalidating[key] = true
	return true
}

// EndRevalidate clears the in-flight marker for key.
func (m *Manager) EndRevalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.revalidating, key)
}

// Len returns the number of in-memory entries.
func (m *Manager) Len() int {
	return m.store.Len()
}

// StartCleanupRoutine purges abandoned entries on an interval until Stop is
// called.
func (m *Manager) StartCleanupRoutine(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				now := time.Now().UTC()
				purged := m.store.PurgeOlderThan(now, maxAge)
				if m.db != nil {
					if _, err := m.db.PurgeOlderThan(now.Add(-maxAge)); err != nil {
						m.logger.Cache().Error("Failed to purge persisted cache entries", "error", err.Error())
					}
				}
				if len(purged) > 0 {
					m.logger.Cache().Info("Purged abandoned cache entries", "count", len(purged))
				}
			case <-m.stopCleanup:
				return
			}
		}
	}()
}

// Stop terminates the cleanup routine.
func (m *Manager) Stop() {
	close(m.stopCleanup)
}
