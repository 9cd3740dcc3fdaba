package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newSuggestFixture(t *testing.T, options []catalog.FieldOption, requests *atomic.Int32) *SuggestService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": options})
	}))
	t.Cleanup(server.Close)

	logger := logging.NewSilentLogger()
	client := gateway.NewClient(server.URL, 0, logger)
	return NewSuggestService(client, logger, 20*time.Millisecond, 7)
}

func waitForOptions(t *testing.T, svc *SuggestService, key string) SuggestState {
	t.Helper()
	var state SuggestState
	require.Eventually(t, func() bool {
		current, ok := svc.State(key)
		if !ok || current.Loading || len(current.Options) == 0 {
			return false
		}
		state = current
		return true
	}, time.Second, 5*time.Millisecond)
	return state
}

func TestBurstOfKeystrokesFiresOneRequest(t *testing.T) {
	var requests atomic.Int32
	svc := newSuggestFixture(t, []catalog.FieldOption{{ID: "1", Label: "Strings Ensemble"}}, &requests)

	// Typing "strings" one rune at a time, faster than the debounce window.
	for _, prefix := range []string{"s", "st", "str", "stri", "strin", "string", "strings"} {
		svc.Type("sess:presets", catalog.EntityPresets, prefix)
		time.Sleep(2 * time.Millisecond)
	}

	state := waitForOptions(t, svc, "sess:presets")
	assert.Equal(t, "strings", state.Query)
	assert.Equal(t, int32(1), requests.Load())
}

func TestSuggestionsAreCappedAtLimit(t *testing.T) {
	many := make([]catalog.FieldOption, 20)
	for i := range many {
		many[i] = catalog.FieldOption{ID: "x", Label: "Pad"}
	}
	svc := newSuggestFixture(t, many, nil)

	svc.Type("sess:presets", catalog.EntityPresets, "pad")
	state := waitForOptions(t, svc, "sess:presets")
	assert.Len(t, state.Options, 7)
}

func TestCursorWrapsAtBothEnds(t *testing.T) {
	svc := newSuggestFixture(t, []catalog.FieldOption{
		{ID: "1", Label: "a"}, {ID: "2", Label: "b"}, {ID: "3", Label: "c"},
	}, nil)

	svc.Type("sess:field", catalog.EntitySynths, "x")
	waitForOptions(t, svc, "sess:field")

	// Up from the top wraps to the bottom.
	state, ok := svc.MoveCursor("sess:field", -1)
	require.True(t, ok)
	assert.Equal(t, 2, state.Cursor)

	// Down from the bottom wraps back to the top.
	state, _ = svc.MoveCursor("sess:field", 1)
	assert.Equal(t, 0, state.Cursor)
}

func TestSelectReturnsHighlightedOptionAndClosesBox(t *testing.T) {
	svc := newSuggestFixture(t, []catalog.FieldOption{
		{ID: "1", Label: "Minimoog"}, {ID: "2", Label: "Moog One"},
	}, nil)

	svc.Type("sess:synth", catalog.EntitySynths, "moog")
	waitForOptions(t, svc, "sess:synth")

	svc.MoveCursor("sess:synth", 1)
	option, ok := svc.Select("sess:synth")
	require.True(t, ok)
	assert.Equal(t, "Moog One", option.Label)

	state, _ := svc.State("sess:synth")
	assert.False(t, state.Open)
	assert.Empty(t, state.Options)
}

func TestDismissClosesWithoutSelecting(t *testing.T) {
	svc := newSuggestFixture(t, []catalog.FieldOption{{ID: "1", Label: "a"}}, nil)

	svc.Type("sess:field", catalog.EntitySynths, "a")
	waitForOptions(t, svc, "sess:field")

	svc.Dismiss("sess:field")
	state, _ := svc.State("sess:field")
	assert.False(t, state.Open)

	_, ok := svc.Select("sess:field")
	assert.False(t, ok)
}

func TestClearedFieldResetsStateWithoutRequest(t *testing.T) {
	var requests atomic.Int32
	svc := newSuggestFixture(t, []catalog.FieldOption{{ID: "1", Label: "a"}}, &requests)

	svc.Type("sess:field", catalog.EntitySynths, "a")
	svc.Type("sess:field", catalog.EntitySynths, "")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), requests.Load())

	state, ok := svc.State("sess:field")
	require.True(t, ok)
	assert.False(t, state.Open)
	assert.Empty(t, state.Options)
}
