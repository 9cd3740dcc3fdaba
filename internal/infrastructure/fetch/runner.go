// Package fetch provides the generic cached data-loading primitive behind
// the browse surfaces: named async loaders, a request-generation guard
// against out-of-order completion, and stale-while-revalidate caching.
package fetch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// LoaderFunc loads one named piece of data.
type LoaderFunc func(ctx context.Context) (any, error)

// Options configures one Load call.
type Options struct {
	// CacheKey enables the SWR cache. By convention the key embeds every
	// parameter that affects the result.
	CacheKey string
	// TTL for cache writes. Zero means the manager's caller-supplied
	// default should already have been applied; Load stores whatever it
	// gets.
	TTL time.Duration
	// ForceRefresh bypasses the cache read (the cache is still written).
	ForceRefresh bool
}

// Result is the committed state of a Runner.
type Result struct {
	Data      map[string]any
	Err       error
	Loading   bool
	FromCache bool
	Stale     bool
}

// Runner executes loader batches with last-request-wins semantics: if a new
// Load supersedes an in-flight one, the superseded batch's result is
// silently discarded on arrival. One Runner guards one dependency identity.
type Runner struct {
	cache  *manager.Manager
	logger *logging.ChanneledLogger

	mu         sync.Mutex
	generation uint64
	state      Result
}

// NewRunner creates a runner bound to the shared cache manager.
func NewRunner(cache *manager.Manager, logger *logging.ChanneledLogger) *Runner {
	return &Runner{
		cache:  cache,
		logger: logger,
	}
}

// Load runs the named loaders and commits the outcome unless a newer Load
// has superseded this one. With a cache key set, a hit is committed
// synchronously; an expired hit additionally kicks off exactly one
// background refetch without blocking.
func (r *Runner) Load(ctx context.Context, loaders map[string]LoaderFunc, opts Options) Result {
	r.mu.Lock()
	r.generation++
	requestID := r.generation
	r.mu.Unlock()

	if opts.CacheKey != "" && !opts.ForceRefresh {
		if entry, stale, found := r.cache.Get(opts.CacheKey); found {
			var data map[string]any
			if err := json.Unmarshal(entry.Data, &data); err == nil {
				r.commit(requestID, Result{Data: data, FromCache: true, Stale: stale})

				if stale && r.cache.TryBeginRevalidate(opts.CacheKey) {
					go r.revalidate(requestID, loaders, opts)
				}
				return r.Snapshot()
			}
			// Undecodable entry: fall through to a fresh load.
			r.cache.Invalidate(opts.CacheKey)
		}
	}

	r.commit(requestID, Result{Loading: true})

	data, err := runLoaders(ctx, loaders)
	if err != nil {
		r.commit(requestID, Result{Err: err})
		return r.Snapshot()
	}

	r.commit(requestID, Result{Data: data})
	r.persist(opts, data)
	return r.Snapshot()
}

// revalidate refreshes an expired cache entry in the background. The result
// is committed only if no newer Load has run meanwhile; the cache is updated
// either way so the next reader sees fresh data.
func (r *Runner) revalidate(requestID uint64, loaders map[string]LoaderFunc, opts Options) {
	defer r.cache.EndRevalidate(opts.CacheKey)

	data, err := runLoaders(context.Background(), loaders)
	if err != nil {
		r.logger.Cache().Warn("Background revalidation failed", "key", opts.CacheKey, "error", err.Error())
		return
	}

	r.persist(opts, data)
	// No loading flicker: the stale data stays visible until this commit.
	r.commit(requestID, Result{Data: data})
}

// Snapshot returns the current committed state.
func (r *Runner) Snapshot() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// commit applies a result only when requestID is still the latest
// generation; superseded results are dropped without touching state.
func (r *Runner) commit(requestID uint64, result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requestID != r.generation {
		if r.logger != nil {
			r.logger.Cache().Debug("Discarding superseded fetch result", "requestId", requestID, "current", r.generation)
		}
		return
	}
	r.state = result
}

func (r *Runner) persist(opts Options, data map[string]any) {
	if opts.CacheKey == "" {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		r.logger.Cache().Error("Failed to encode cache entry", "key", opts.CacheKey, "error", err.Error())
		return
	}
	r.cache.Set(opts.CacheKey, raw, opts.TTL)
}

// runLoaders executes all loaders concurrently with all-or-nothing failure
// semantics: the first error fails the whole batch.
func runLoaders(ctx context.Context, loaders map[string]LoaderFunc) (map[string]any, error) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	data := make(map[string]any, len(loaders))
	var firstErr error

	for name, loader := range loaders {
		wg.Add(1)
		go func(name string, loader LoaderFunc) {
			defer wg.Done()
			value, err := loader(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			data[name] = value
		}(name, loader)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return data, nil
}
