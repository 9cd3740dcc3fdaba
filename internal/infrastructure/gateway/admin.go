package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
)

// AdminEntry fetches one record through the privileged entry endpoint.
func (c *Client) AdminEntry(ctx context.Context, table catalog.EntityType, id string) (catalog.Row, error) {
	var row catalog.Row
	if err := c.get(ctx, "/admin/entry/"+table.String()+"/"+id, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateEntry applies a partial update to one record. The payload carries
// only changed fields plus the always-present id and relation lists; the
// backend treats absent fields as "no change", never "clear to empty".
func (c *Client) UpdateEntry(ctx context.Context, table catalog.EntityType, id string, form *FormPayload) (catalog.Row, error) {
	var row catalog.Row
	if err := c.send(ctx, http.MethodPut, "/admin/entry/"+table.String()+"/"+id, form, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteEntry removes one record.
func (c *Client) DeleteEntry(ctx context.Context, table catalog.EntityType, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/entry/"+table.String()+"/"+id, nil, nil, "", nil)
}

// FieldData searches an entity type for relation suggestions.
func (c *Client) FieldData(ctx context.Context, table catalog.EntityType, queryText string, limit int) ([]catalog.FieldOption, error) {
	query := url.Values{}
	query.Set("query", queryText)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var options []catalog.FieldOption
	if err := c.get(ctx, "/admin/field-data/"+table.String(), query, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// PendingSubmissions lists not-yet-moderated submission bundles.
func (c *Client) PendingSubmissions(ctx context.Context) ([]catalog.PendingSubmission, error) {
	var pending []catalog.PendingSubmission
	if err := c.get(ctx, "/admin/pending-submissions", nil, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// ApproveSubmission promotes a pending submission into approved rows.
func (c *Client) ApproveSubmission(ctx context.Context, form *FormPayload) error {
	return c.send(ctx, http.MethodPost, "/admin/approve-submission", form, nil)
}

// DenySubmission discards a pending submission.
func (c *Client) DenySubmission(ctx context.Context, form *FormPayload) error {
	return c.send(ctx, http.MethodPost, "/admin/deny-submission", form, nil)
}

// Upload creates an entry directly, bypassing the submission queue.
func (c *Client) Upload(ctx context.Context, form *FormPayload) error {
	return c.send(ctx, http.MethodPost, "/admin/upload", form, nil)
}

// Users lists user accounts for the admin users table.
func (c *Client) Users(ctx context.Context, params BrowseParams) ([]catalog.Row, error) {
	var rows []catalog.Row
	if err := c.get(ctx, "/admin/users", params.values(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
