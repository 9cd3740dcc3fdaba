package stores

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/types"
)

func entry(key string, age time.Duration, ttl time.Duration) *types.Entry {
	return &types.Entry{
		Key:       key,
		Data:      json.RawMessage(`{}`),
		Timestamp: time.Now().UTC().Add(-age),
		TTL:       ttl,
	}
}

func TestGetServesExpiredEntries(t *testing.T) {
	store := NewSWRStore()
	store.Set(entry("k", time.Hour, time.Minute))

	got, found := store.Get("k")
	require.True(t, found)
	assert.True(t, got.IsExpired(time.Now().UTC()))
}

func TestInvalidatePrefixReturnsRemovedKeys(t *testing.T) {
	store := NewSWRStore()
	store.Set(entry("songs:browse:1", 0, time.Minute))
	store.Set(entry("songs:browse:2", 0, time.Minute))
	store.Set(entry("genres:browse:1", 0, time.Minute))

	removed := store.InvalidatePrefix("songs:")
	assert.ElementsMatch(t, []string{"songs:browse:1", "songs:browse:2"}, removed)
	assert.Equal(t, 1, store.Len())
}

func TestPurgeOlderThanKeepsRecentlyWrittenEntries(t *testing.T) {
	store := NewSWRStore()
	store.Set(entry("old", 48*time.Hour, time.Minute))
	store.Set(entry("fresh", time.Minute, time.Minute))

	purged := store.PurgeOlderThan(time.Now().UTC(), 24*time.Hour)
	assert.Equal(t, []string{"old"}, purged)

	_, found := store.Get("fresh")
	assert.True(t, found)
}
