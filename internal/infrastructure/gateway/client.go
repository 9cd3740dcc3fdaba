// Package gateway is the typed REST client for the upstream PresetBase
// backend. One method per (entity type × operation); responses arrive in a
// {data: ...} envelope that every method unwraps before returning.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// APIError is a non-2xx upstream response. The server-reported message is
// surfaced verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Envelope is the upstream response wrapper.
type Envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Client talks to the upstream REST backend. No retries; errors propagate to
// the caller as-is.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logging.ChanneledLogger
}

// NewClient creates a gateway client. A zero timeout means none, matching
// the documented behavior that a hung upstream call is never timed out here.
func NewClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BrowseParams are the list-query knobs shared by browse calls.
type BrowseParams struct {
	SortBy    string // empty means server default
	Direction string // "ASC" or "DESC"
	Limit     int    // 0 means server default
	Page      int    // 0 means first page
	Query     string // optional free-text query
}

func (p BrowseParams) values() url.Values {
	query := url.Values{}
	if p.SortBy != "" {
		query.Set("sort", p.SortBy)
	}
	if p.Direction != "" {
		query.Set("direction", p.Direction)
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.Query != "" {
		query.Set("query", p.Query)
	}
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) send(ctx context.Context, method, path string, form *FormPayload, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, nil, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}

	c.logger.Gateway().Debug("Upstream call completed",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := string(raw)
		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode upstream envelope: %w", err)
	}
	if envelope.Data == nil {
		// Some mutating endpoints reply with a bare object.
		envelope.Data = raw
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode upstream data: %w", err)
	}
	return nil
}
