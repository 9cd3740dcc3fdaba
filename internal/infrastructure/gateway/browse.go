package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
)

// SongShelf names the curated song lists of the browse surface.
type SongShelf string

const (
	ShelfPopular SongShelf = "popular"
	ShelfHot     SongShelf = "hot"
	ShelfRecent  SongShelf = "recent"
)

// ParseSongShelf validates a shelf route segment.
func ParseSongShelf(s string) (SongShelf, bool) {
	switch SongShelf(s) {
	case ShelfPopular, ShelfHot, ShelfRecent:
		return SongShelf(s), true
	default:
		return "", false
	}
}

// BrowseEntries lists rows of a browsable entity type.
func (c *Client) BrowseEntries(ctx context.Context, et catalog.EntityType, params BrowseParams) ([]catalog.Row, error) {
	if !et.Browsable() {
		return nil, fmt.Errorf("entity type %q is not browsable", et)
	}

	var rows []catalog.Row
	if err := c.get(ctx, "/api/browse/"+et.String(), params.values(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalEntries returns the total row count of a browsable entity type.
func (c *Client) TotalEntries(ctx context.Context, et catalog.EntityType) (int, error) {
	if !et.Browsable() {
		return 0, fmt.Errorf("entity type %q is not browsable", et)
	}

	var total int
	if err := c.get(ctx, "/api/browse/"+et.String()+"/total-entries", nil, &total); err != nil {
		return 0, err
	}
	return total, nil
}

// BrowseSongShelf lists one of the curated song shelves.
func (c *Client) BrowseSongShelf(ctx context.Context, shelf SongShelf, params BrowseParams) ([]catalog.Row, error) {
	var rows []catalog.Row
	if err := c.get(ctx, "/api/browse/songs/"+string(shelf), params.values(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetDetail fetches the public detail record of one entry. kind is the
// singular route segment (song, album, artist, synth).
func (c *Client) GetDetail(ctx context.Context, kind, id string) (catalog.Row, error) {
	var row catalog.Row
	if err := c.get(ctx, "/api/"+kind+"/"+id, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// GetRelated fetches related entries for one detail record.
func (c *Client) GetRelated(ctx context.Context, kind, id string, limit int) ([]catalog.Row, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []catalog.Row
	if err := c.get(ctx, "/api/"+kind+"/"+id+"/related", query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchResults is the cross-entity search response.
type SearchResults struct {
	TotalResults int           `json:"totalResults"`
	Songs        []catalog.Row `json:"songs"`
	Artists      []catalog.Row `json:"artists"`
	Albums       []catalog.Row `json:"albums"`
	Synths       []catalog.Row `json:"synths"`
	Presets      []catalog.Row `json:"presets"`
}

// Search runs a sitewide free-text search.
func (c *Client) Search(ctx context.Context, queryText string) (*SearchResults, error) {
	query := url.Values{}
	query.Set("query", queryText)

	var results SearchResults
	if err := c.get(ctx, "/api/search", query, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// EntryNames returns known entry names matching a query, used by the public
// submission form's autofill.
func (c *Client) EntryNames(ctx context.Context, queryText string, limit int) ([]string, error) {
	query := url.Values{}
	query.Set("query", queryText)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var names []string
	if err := c.get(ctx, "/api/entry-names", query, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// AutofillSuggestions returns typed autofill suggestions for a form field.
func (c *Client) AutofillSuggestions(ctx context.Context, kind, queryText string, limit int) ([]catalog.FieldOption, error) {
	query := url.Values{}
	query.Set("query", queryText)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var options []catalog.FieldOption
	if err := c.get(ctx, "/api/autofill/suggestions/"+kind, query, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// AutofillData returns the full record backing an accepted autofill
// suggestion, used to pre-populate dependent form fields.
func (c *Client) AutofillData(ctx context.Context, kind, queryText string) (catalog.Row, error) {
	query := url.Values{}
	query.Set("query", queryText)

	var row catalog.Row
	if err := c.get(ctx, "/api/autofill/data/"+kind, query, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Submit sends a public submission. Multipart when a file is attached.
func (c *Client) Submit(ctx context.Context, form *FormPayload) error {
	return c.send(ctx, "POST", "/api/submit", form, nil)
}
