package manager

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newTestManager() *Manager {
	return NewManager(nil, logging.NewSilentLogger())
}

func TestGetReturnsExpiredEntries(t *testing.T) {
	m := newTestManager()
	m.Set("songs:browse:1", json.RawMessage(`{"a":1}`), time.Nanosecond)

	time.Sleep(2 * time.Millisecond)

	entry, stale, found := m.Get("songs:browse:1")
	require.True(t, found)
	assert.True(t, stale)
	assert.Equal(t, json.RawMessage(`{"a":1}`), entry.Data)
}

func TestGetFreshEntryIsNotStale(t *testing.T) {
	m := newTestManager()
	m.Set("songs:browse:1", json.RawMessage(`{}`), time.Hour)

	_, stale, found := m.Get("songs:browse:1")
	require.True(t, found)
	assert.False(t, stale)
}

func TestInvalidatePrefixDropsAllPagesOfAType(t *testing.T) {
	m := newTestManager()
	m.Set("songs:browse:title:asc:50:1", json.RawMessage(`{}`), time.Hour)
	m.Set("songs:browse:title:asc:50:2", json.RawMessage(`{}`), time.Hour)
	m.Set("synths:browse:name:asc:50:1", json.RawMessage(`{}`), time.Hour)

	m.InvalidatePrefix("songs:")

	_, _, found := m.Get("songs:browse:title:asc:50:1")
	assert.False(t, found)
	_, _, found = m.Get("songs:browse:title:asc:50:2")
	assert.False(t, found)
	_, _, found = m.Get("synths:browse:name:asc:50:1")
	assert.True(t, found)
}

func TestTryBeginRevalidateAdmitsExactlyOne(t *testing.T) {
	m := newTestManager()

	require.True(t, m.TryBeginRevalidate("key"))
	assert.False(t, m.TryBeginRevalidate("key"))
	assert.True(t, m.TryBeginRevalidate("other"))

	m.EndRevalidate("key")
	assert.True(t, m.TryBeginRevalidate("key"))
}
