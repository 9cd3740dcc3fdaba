package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	domainservices "github.com/presetbase/presetbase-go/internal/domain/services"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/fetch"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// TableView is one rendered admin table page.
type TableView struct {
	EntityType catalog.EntityType        `json:"entityType"`
	Columns    []catalog.Column          `json:"columns"`
	Rows       []domainservices.TableRow `json:"rows"`
	Total      int                       `json:"total"`
	Loading    bool                      `json:"loading"`
	FromCache  bool                      `json:"fromCache"`
	Stale      bool                      `json:"stale"`
}

// BrowseService serves the admin tables: cached upstream fetches shaped
// through the table configs, with client-side style filtering on top.
type BrowseService struct {
	client   *gateway.Client
	cache    *manager.Manager
	logger   *logging.ChanneledLogger
	cacheTTL time.Duration

	mu      sync.Mutex
	runners map[string]*fetch.Runner
}

// NewBrowseService creates the browse service.
func NewBrowseService(client *gateway.Client, cache *manager.Manager, logger *logging.ChanneledLogger, cacheTTL time.Duration) *BrowseService {
	return &BrowseService{
		client:   client,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		runners:  make(map[string]*fetch.Runner),
	}
}

// runnerFor returns the runner guarding one parameter identity, creating it
// on first use. The key embeds every parameter that affects the upstream
// result; the filter text stays out because filtering happens locally.
func (s *BrowseService) runnerFor(key string) *fetch.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner, ok := s.runners[key]
	if !ok {
		runner = fetch.NewRunner(s.cache, s.logger)
		s.runners[key] = runner
	}
	return runner
}

func browseCacheKey(et catalog.EntityType, params gateway.BrowseParams) string {
	return fmt.Sprintf("%s:browse:%s:%s:%d:%d", et, params.SortBy, params.Direction, params.Limit, params.Page)
}

// Table loads, filters, and shapes one admin table page. filterText applies
// after the fetch: it narrows the already-loaded rows and never triggers an
// upstream request of its own.
func (s *BrowseService) Table(ctx context.Context, et catalog.EntityType, params gateway.BrowseParams, filterText string, forceRefresh bool) (*TableView, error) {
	cfg, ok := catalog.TableConfigFor(et)
	if !ok {
		return nil, fmt.Errorf("entity type is not browsable: %s", et)
	}

	key := browseCacheKey(et, params)
	runner := s.runnerFor(key)

	result := runner.Load(ctx, map[string]fetch.LoaderFunc{
		"entries": func(ctx context.Context) (any, error) {
			rows, err := s.client.BrowseEntries(ctx, et, params)
			if err != nil {
				return nil, err
			}
			return rows, nil
		},
		"total": func(ctx context.Context) (any, error) {
			return s.client.TotalEntries(ctx, et)
		},
	}, fetch.Options{CacheKey: key, TTL: s.cacheTTL, ForceRefresh: forceRefresh})

	if result.Err != nil {
		return nil, result.Err
	}

	view := &TableView{
		EntityType: et,
		Columns:    cfg.Columns,
		Loading:    result.Loading,
		FromCache:  result.FromCache,
		Stale:      result.Stale,
	}
	if result.Loading || result.Data == nil {
		return view, nil
	}

	rows := decodeRows(result.Data["entries"])
	view.Total = decodeTotal(result.Data["total"])

	indexed := domainservices.AnnotateRows(rows)
	if strings.TrimSpace(filterText) != "" {
		indexed = domainservices.FilterRows(indexed, cfg, filterText)
	}

	shaped, err := domainservices.ShapeRows(et, indexed)
	if err != nil {
		return nil, err
	}
	view.Rows = shaped
	return view, nil
}

// Invalidate drops every cached page of an entity type, forcing the next
// Table call upstream.
func (s *BrowseService) Invalidate(et catalog.EntityType) {
	s.cache.InvalidatePrefix(string(et) + ":browse:")
}

// decodeRows tolerates both in-process ([]catalog.Row) and cache-roundtrip
// ([]any of maps) shapes of the entries loader result.
func decodeRows(value any) []catalog.Row {
	switch v := value.(type) {
	case []catalog.Row:
		return v
	case []any:
		rows := make([]catalog.Row, 0, len(v))
		for _, entry := range v {
			if obj, ok := entry.(map[string]any); ok {
				rows = append(rows, catalog.Row(obj))
			}
		}
		return rows
	default:
		return nil
	}
}

func decodeTotal(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
