package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/messaging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

type fakeUpstream struct {
	server *httptest.Server

	entry       map[string]any
	lastPut     map[string]any
	putCount    atomic.Int32
	deleteCount atomic.Int32
}

func newFakeUpstream(t *testing.T, entry map[string]any) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{entry: entry}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"data": f.entry})
		case http.MethodPut:
			f.putCount.Add(1)
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			f.lastPut = body
			json.NewEncoder(w).Encode(map[string]any{"data": f.entry})
		case http.MethodDelete:
			f.deleteCount.Add(1)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newEditorService(t *testing.T, upstream *fakeUpstream) *EditorService {
	t.Helper()
	logger := logging.NewSilentLogger()
	cache := manager.NewManager(nil, logger)
	client := gateway.NewClient(upstream.server.URL, 0, logger)
	broadcaster := messaging.NewRefreshBroadcaster(logger)
	go broadcaster.Run()
	return NewEditorService(client, cache, broadcaster, logger)
}

func songEntry() map[string]any {
	return map[string]any{
		"id":          "7",
		"songTitle":   "Da Funk",
		"songGenre":   "French House",
		"releaseYear": "1995",
		"songUrl":     "https://example.com/da-funk",
		"artists": []any{
			map[string]any{"id": "3", "name": "Daft Punk", "role": "Producer"},
		},
	}
}

func TestOpenSeedsSessionFromUpstream(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.False(t, session.Loading)
	assert.False(t, session.HasChanges)
	assert.Equal(t, "Da Funk", session.Fields["songTitle"])
	assert.Equal(t, "French House", session.Fields["songGenre"])

	require.Len(t, session.Lists["artists"], 1)
	assert.Equal(t, "Daft Punk", session.Lists["artists"][0].Label)
	assert.Equal(t, "Producer", session.Lists["artists"][0].Input)
}

func TestApplySendsOnlyChangedFields(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	require.NoError(t, svc.EditField(session.ID, "songTitle", "Da Funk (Edit)"))

	_, err = svc.Apply(context.Background(), session.ID, nil)
	require.NoError(t, err)

	require.NotNil(t, upstream.lastPut)
	assert.Equal(t, "7", upstream.lastPut["id"])
	assert.Equal(t, "Da Funk (Edit)", upstream.lastPut["songTitle"])

	// Untouched fields stay out of the payload entirely.
	_, present := upstream.lastPut["songGenre"]
	assert.False(t, present)
	_, present = upstream.lastPut["releaseYear"]
	assert.False(t, present)
}

func TestDirtyFlagNeverClearsOnRevert(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	require.NoError(t, svc.EditField(session.ID, "songTitle", "Something Else"))
	require.NoError(t, svc.EditField(session.ID, "songTitle", "Da Funk"))

	current, ok := svc.Get(session.ID)
	require.True(t, ok)
	assert.True(t, current.HasChanges)
}

func TestApplyClearsDirtyFlag(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	require.NoError(t, svc.EditField(session.ID, "songGenre", "Electro"))
	applied, err := svc.Apply(context.Background(), session.ID, nil)
	require.NoError(t, err)
	assert.False(t, applied.HasChanges)
}

func TestAttachListItemDeduplicatesByID(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	// Re-attaching the already-attached artist is a no-op.
	require.NoError(t, svc.AttachListItem(session.ID, "artists", AttachedItem{ID: "3", Label: "Daft Punk"}))
	current, _ := svc.Get(session.ID)
	assert.Len(t, current.Lists["artists"], 1)
	assert.False(t, current.HasChanges)

	require.NoError(t, svc.AttachListItem(session.ID, "artists", AttachedItem{ID: "5", Label: "Todd Edwards"}))
	current, _ = svc.Get(session.ID)
	assert.Len(t, current.Lists["artists"], 2)
	assert.True(t, current.HasChanges)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	// Declined: nothing goes upstream and the session stays open.
	deleted, err := svc.Delete(context.Background(), session.ID, false)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, int32(0), upstream.deleteCount.Load())

	_, stillOpen := svc.Get(session.ID)
	assert.True(t, stillOpen)

	// Confirmed: the delete fires and the session is gone.
	deleted, err = svc.Delete(context.Background(), session.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, int32(1), upstream.deleteCount.Load())

	_, stillOpen = svc.Get(session.ID)
	assert.False(t, stillOpen)
}

func TestCloseDiscardsUnsavedEdits(t *testing.T) {
	upstream := newFakeUpstream(t, songEntry())
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntitySongs, "7")
	require.NoError(t, err)

	require.NoError(t, svc.EditField(session.ID, "songTitle", "Discarded"))
	svc.Close(session.ID)

	_, ok := svc.Get(session.ID)
	assert.False(t, ok)
	assert.Equal(t, int32(0), upstream.putCount.Load())
}

func TestSetColorDefaultsEmptyToWhite(t *testing.T) {
	upstream := newFakeUpstream(t, map[string]any{
		"id":        "2",
		"genreName": "Trance",
		"textColor": "#224466",
	})
	svc := newEditorService(t, upstream)

	session, err := svc.Open(context.Background(), catalog.EntityGenres, "2")
	require.NoError(t, err)

	assert.Equal(t, "#224466", session.Colors["textColor"])
	// Unset channels seed with the default.
	assert.Equal(t, catalog.DefaultColor, session.Colors["backgroundColor"])

	require.NoError(t, svc.SetColor(session.ID, "textColor", ""))
	current, _ := svc.Get(session.ID)
	assert.Equal(t, catalog.DefaultColor, current.Colors["textColor"])
	assert.True(t, current.HasChanges)
}
