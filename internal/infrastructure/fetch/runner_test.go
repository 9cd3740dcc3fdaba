package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

func newTestRunner() (*Runner, *manager.Manager) {
	cache := manager.NewManager(nil, logging.NewSilentLogger())
	return NewRunner(cache, logging.NewSilentLogger()), cache
}

func constLoader(value any) LoaderFunc {
	return func(ctx context.Context) (any, error) { return value, nil }
}

func TestLoadCommitsLoaderResults(t *testing.T) {
	runner, _ := newTestRunner()

	result := runner.Load(context.Background(), map[string]LoaderFunc{
		"entries": constLoader([]string{"a", "b"}),
		"total":   constLoader(2),
	}, Options{})

	require.NoError(t, result.Err)
	assert.False(t, result.Loading)
	assert.Equal(t, []string{"a", "b"}, result.Data["entries"])
	assert.Equal(t, 2, result.Data["total"])
}

func TestLoadFailsWholeBatchOnFirstError(t *testing.T) {
	runner, _ := newTestRunner()
	boom := errors.New("upstream down")

	result := runner.Load(context.Background(), map[string]LoaderFunc{
		"good": constLoader(1),
		"bad":  func(ctx context.Context) (any, error) { return nil, boom },
	}, Options{})

	require.ErrorIs(t, result.Err, boom)
	assert.Nil(t, result.Data)
}

func TestLoadServesFreshCacheHitWithoutCallingLoaders(t *testing.T) {
	runner, _ := newTestRunner()
	var calls atomic.Int32

	counting := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "value", nil
	}
	opts := Options{CacheKey: "k", TTL: time.Hour}

	first := runner.Load(context.Background(), map[string]LoaderFunc{"v": counting}, opts)
	require.NoError(t, first.Err)
	assert.False(t, first.FromCache)
	assert.Equal(t, int32(1), calls.Load())

	second := runner.Load(context.Background(), map[string]LoaderFunc{"v": counting}, opts)
	require.NoError(t, second.Err)
	assert.True(t, second.FromCache)
	assert.False(t, second.Stale)
	assert.Equal(t, "value", second.Data["v"])
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadServesStaleHitImmediatelyAndRevalidatesOnce(t *testing.T) {
	runner, cache := newTestRunner()
	var calls atomic.Int32

	counting := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return calls.Load(), nil
	}
	opts := Options{CacheKey: "k", TTL: time.Nanosecond}

	first := runner.Load(context.Background(), map[string]LoaderFunc{"v": counting}, opts)
	require.NoError(t, first.Err)
	time.Sleep(2 * time.Millisecond)

	// The expired entry is served synchronously; the refetch happens in
	// the background without a loading state.
	second := runner.Load(context.Background(), map[string]LoaderFunc{"v": counting}, opts)
	require.NoError(t, second.Err)
	assert.True(t, second.FromCache)
	assert.True(t, second.Stale)
	assert.False(t, second.Loading)

	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		snapshot := runner.Snapshot()
		return !snapshot.Stale && snapshot.Data != nil
	}, time.Second, 5*time.Millisecond)

	// The snapshot never showed Loading during revalidation.
	assert.False(t, runner.Snapshot().Loading)

	// The refetched value was written back to the cache.
	entry, _, found := cache.Get("k")
	require.True(t, found)
	assert.NotNil(t, entry)
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	runner, _ := newTestRunner()

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	go func() {
		runner.Load(context.Background(), map[string]LoaderFunc{
			"v": func(ctx context.Context) (any, error) {
				close(slowStarted)
				<-slowRelease
				return "old", nil
			},
		}, Options{})
	}()

	<-slowStarted

	result := runner.Load(context.Background(), map[string]LoaderFunc{
		"v": constLoader("new"),
	}, Options{})
	require.NoError(t, result.Err)
	assert.Equal(t, "new", result.Data["v"])

	// Releasing the stale request must not overwrite the newer result.
	close(slowRelease)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, "new", runner.Snapshot().Data["v"])
}
