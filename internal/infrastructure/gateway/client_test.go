package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 0, logging.NewSilentLogger())
	return client, server
}

func TestBrowseEntriesUnwrapsEnvelope(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/browse/songs", r.URL.Path)
		assert.Equal(t, "title", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "1", "title": "Da Funk"}},
		})
	}))
	defer server.Close()

	rows, err := client.BrowseEntries(context.Background(), catalog.EntitySongs, BrowseParams{SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Da Funk", rows[0]["title"])
}

func TestBrowseEntriesRejectsNonBrowsableType(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	defer server.Close()

	_, err := client.BrowseEntries(context.Background(), catalog.EntityUsers, BrowseParams{})
	assert.Error(t, err)
}

func TestUpstreamErrorMessagePassesThroughVerbatim(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": "title already taken"})
	}))
	defer server.Close()

	_, err := client.UpdateEntry(context.Background(), catalog.EntitySongs, "1", NewFormPayload())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "title already taken", apiErr.Message)
}

func TestBareResponseBodyDecodesWithoutEnvelope(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "9", "name": "Moog One"})
	}))
	defer server.Close()

	row, err := client.GetDetail(context.Background(), "synth", "9")
	require.NoError(t, err)
	assert.Equal(t, "Moog One", row["name"])
}

func TestTotalEntries(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/browse/presets/total-entries", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": 314})
	}))
	defer server.Close()

	total, err := client.TotalEntries(context.Background(), catalog.EntityPresets)
	require.NoError(t, err)
	assert.Equal(t, 314, total)
}

func TestDeleteEntrySendsDelete(t *testing.T) {
	var method, path string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, client.DeleteEntry(context.Background(), catalog.EntitySongs, "12"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/admin/entry/songs/12", path)
}
