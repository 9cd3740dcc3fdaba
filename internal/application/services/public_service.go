package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/fetch"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// PublicService serves the visitor-facing read surface: song shelves,
// entry detail pages, related entries, and search. Everything here is
// cacheable; nothing requires authentication.
type PublicService struct {
	client   *gateway.Client
	cache    *manager.Manager
	logger   *logging.ChanneledLogger
	cacheTTL time.Duration

	mu      sync.Mutex
	runners map[string]*fetch.Runner
}

// NewPublicService creates the public catalog service.
func NewPublicService(client *gateway.Client, cache *manager.Manager, logger *logging.ChanneledLogger, cacheTTL time.Duration) *PublicService {
	return &PublicService{
		client:   client,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		runners:  make(map[string]*fetch.Runner),
	}
}

func (s *PublicService) runnerFor(key string) *fetch.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner, ok := s.runners[key]
	if !ok {
		runner = fetch.NewRunner(s.cache, s.logger)
		s.runners[key] = runner
	}
	return runner
}

// Shelf loads one cached song shelf (popular, hot, or recent).
func (s *PublicService) Shelf(ctx context.Context, shelf gateway.SongShelf, params gateway.BrowseParams) ([]catalog.Row, bool, error) {
	key := fmt.Sprintf("songs:shelf:%s:%d:%d", shelf, params.Limit, params.Page)
	runner := s.runnerFor(key)

	result := runner.Load(ctx, map[string]fetch.LoaderFunc{
		"entries": func(ctx context.Context) (any, error) {
			return s.client.BrowseSongShelf(ctx, shelf, params)
		},
	}, fetch.Options{CacheKey: key, TTL: s.cacheTTL})

	if result.Err != nil {
		return nil, false, result.Err
	}
	return decodeRows(result.Data["entries"]), result.Stale, nil
}

// Detail loads one entry's detail page with its related entries.
func (s *PublicService) Detail(ctx context.Context, kind, id string, relatedLimit int) (catalog.Row, []catalog.Row, error) {
	key := fmt.Sprintf("%s:detail:%s:%d", kind, id, relatedLimit)
	runner := s.runnerFor(key)

	result := runner.Load(ctx, map[string]fetch.LoaderFunc{
		"entry": func(ctx context.Context) (any, error) {
			return s.client.GetDetail(ctx, kind, id)
		},
		"related": func(ctx context.Context) (any, error) {
			return s.client.GetRelated(ctx, kind, id, relatedLimit)
		},
	}, fetch.Options{CacheKey: key, TTL: s.cacheTTL})

	if result.Err != nil {
		return nil, nil, result.Err
	}

	entry := decodeRow(result.Data["entry"])
	related := decodeRows(result.Data["related"])
	return entry, related, nil
}

// Search runs a cross-type text search. Search results are never cached;
// every query goes upstream.
func (s *PublicService) Search(ctx context.Context, queryText string) (*gateway.SearchResults, error) {
	return s.client.Search(ctx, queryText)
}

// EntryNames serves the public autocomplete on the submission form.
func (s *PublicService) EntryNames(ctx context.Context, queryText string, limit int) ([]string, error) {
	return s.client.EntryNames(ctx, queryText, limit)
}

// AutofillSuggestions suggests known entries matching the query while a
// visitor fills in the submission form.
func (s *PublicService) AutofillSuggestions(ctx context.Context, kind, queryText string, limit int) ([]catalog.FieldOption, error) {
	return s.client.AutofillSuggestions(ctx, kind, queryText, limit)
}

// AutofillData loads the full record behind a chosen autofill suggestion.
func (s *PublicService) AutofillData(ctx context.Context, kind, queryText string) (catalog.Row, error) {
	return s.client.AutofillData(ctx, kind, queryText)
}

// Submit forwards a visitor submission bundle upstream.
func (s *PublicService) Submit(ctx context.Context, form *gateway.FormPayload) error {
	return s.client.Submit(ctx, form)
}

func decodeRow(value any) catalog.Row {
	switch v := value.(type) {
	case catalog.Row:
		return v
	case map[string]any:
		return catalog.Row(v)
	default:
		return nil
	}
}
