package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newBrowseFixture(t *testing.T, requests *atomic.Int32) *BrowseService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if strings.HasSuffix(r.URL.Path, "/total-entries") {
			json.NewEncoder(w).Encode(map[string]any{"data": 4})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": "1", "name": "Minimoog", "manufacturer": "Moog", "synthType": "analog"},
			{"id": "2", "name": "Jupiter-8", "manufacturer": "Roland", "synthType": "analog"},
			{"id": "3", "name": "Moog One", "manufacturer": "Moog", "synthType": "analog"},
			{"id": "4", "name": "Serum", "manufacturer": "Xfer", "synthType": "software"},
		}})
	}))
	t.Cleanup(server.Close)

	logger := logging.NewSilentLogger()
	cache := manager.NewManager(nil, logger)
	client := gateway.NewClient(server.URL, 0, logger)
	return NewBrowseService(client, cache, logger, time.Hour)
}

func TestTableShapesRowsWithTotal(t *testing.T) {
	svc := newBrowseFixture(t, nil)

	view, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", false)
	require.NoError(t, err)

	assert.Equal(t, catalog.EntitySynths, view.EntityType)
	assert.Equal(t, 4, view.Total)
	require.Len(t, view.Rows, 4)
	assert.Equal(t, 1, view.Rows[0].Index)
	assert.Equal(t, "Minimoog", view.Rows[0].Cells["name"])
}

func TestFilterNarrowsLocallyWithoutRefetch(t *testing.T) {
	var requests atomic.Int32
	svc := newBrowseFixture(t, &requests)

	_, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", false)
	require.NoError(t, err)
	fetched := requests.Load()

	// The filtered view comes from the cached rows; no new upstream calls.
	view, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "moog", false)
	require.NoError(t, err)
	assert.Equal(t, fetched, requests.Load())

	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Minimoog", view.Rows[0].Cells["name"])
	assert.Equal(t, "Moog One", view.Rows[1].Cells["name"])

	// Fetched-order ordinals survive filtering.
	assert.Equal(t, 1, view.Rows[0].Index)
	assert.Equal(t, 3, view.Rows[1].Index)

	// The unfiltered total is untouched by local filtering.
	assert.Equal(t, 4, view.Total)
}

func TestDifferentSortParamsUseDifferentCacheEntries(t *testing.T) {
	var requests atomic.Int32
	svc := newBrowseFixture(t, &requests)

	_, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{SortBy: "name"}, "", false)
	require.NoError(t, err)
	afterFirst := requests.Load()

	_, err = svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{SortBy: "manufacturer"}, "", false)
	require.NoError(t, err)
	assert.Greater(t, requests.Load(), afterFirst)
}

func TestForceRefreshBypassesCache(t *testing.T) {
	var requests atomic.Int32
	svc := newBrowseFixture(t, &requests)

	_, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", false)
	require.NoError(t, err)
	afterFirst := requests.Load()

	_, err = svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", true)
	require.NoError(t, err)
	assert.Greater(t, requests.Load(), afterFirst)
}

func TestInvalidateForcesNextLoadUpstream(t *testing.T) {
	var requests atomic.Int32
	svc := newBrowseFixture(t, &requests)

	_, err := svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", false)
	require.NoError(t, err)
	afterFirst := requests.Load()

	svc.Invalidate(catalog.EntitySynths)

	_, err = svc.Table(context.Background(), catalog.EntitySynths, gateway.BrowseParams{}, "", false)
	require.NoError(t, err)
	assert.Greater(t, requests.Load(), afterFirst)
}

func TestTableRejectsNonBrowsableType(t *testing.T) {
	svc := newBrowseFixture(t, nil)

	_, err := svc.Table(context.Background(), catalog.EntityUsers, gateway.BrowseParams{}, "", false)
	assert.Error(t, err)
}
