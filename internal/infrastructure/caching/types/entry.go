// Package types defines cache data structures for the admin data engine.
package types

import (
	"encoding/json"
	"time"
)

// Entry is one stale-while-revalidate cache record. An expired entry is still
// served immediately; expiry only marks it due for a background refetch.
type Entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	TTL       time.Duration   `json:"ttl"`
}

// IsExpired reports whether the entry is older than its TTL at the given
// instant.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}
