package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// PublicHandlers serves the visitor-facing read and submission surface.
type PublicHandlers struct {
	publicService *services.PublicService
	logger        *logging.ChanneledLogger
}

// NewPublicHandlers creates public handlers with injected dependencies.
func NewPublicHandlers(publicService *services.PublicService, logger *logging.ChanneledLogger) *PublicHandlers {
	return &PublicHandlers{
		publicService: publicService,
		logger:        logger,
	}
}

// GetShelf handles GET /api/v1/songs/:shelf - popular, hot, or recent.
func (h *PublicHandlers) GetShelf(c *gin.Context) {
	shelf, ok := gateway.ParseSongShelf(c.Param("shelf"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown shelf"})
		return
	}

	entries, stale, err := h.publicService.Shelf(c.Request.Context(), shelf, browseParamsFromQuery(c))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "stale": stale})
}

// GetDetail handles GET /api/v1/:kind/:id - one entry's detail page with
// related entries.
func (h *PublicHandlers) GetDetail(c *gin.Context) {
	relatedLimit := 8
	if limit, err := strconv.Atoi(c.Query("relatedLimit")); err == nil && limit > 0 {
		relatedLimit = limit
	}

	entry, related, err := h.publicService.Detail(c.Request.Context(), c.Param("kind"), c.Param("id"), relatedLimit)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "related": related})
}

// GetSearch handles GET /api/v1/search?q= - the cross-type text search.
func (h *PublicHandlers) GetSearch(c *gin.Context) {
	queryText := c.Query("q")
	if queryText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	results, err := h.publicService.Search(c.Request.Context(), queryText)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetEntryNames handles GET /api/v1/entry-names?q= - the submission form
// autocomplete.
func (h *PublicHandlers) GetEntryNames(c *gin.Context) {
	limit := 10
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	names, err := h.publicService.EntryNames(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

// GetAutofillSuggestions handles GET /api/v1/autofill/:kind?q=.
func (h *PublicHandlers) GetAutofillSuggestions(c *gin.Context) {
	limit := 10
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	options, err := h.publicService.AutofillSuggestions(c.Request.Context(), c.Param("kind"), c.Query("q"), limit)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

// GetAutofillData handles GET /api/v1/autofill/:kind/data?q= - the full
// record behind a chosen suggestion, used to prefill the submission form.
func (h *PublicHandlers) GetAutofillData(c *gin.Context) {
	entry, err := h.publicService.AutofillData(c.Request.Context(), c.Param("kind"), c.Query("q"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// PostSubmit handles POST /api/v1/submit - a visitor submission bundle,
// forwarded upstream as-is.
func (h *PublicHandlers) PostSubmit(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	form := gateway.NewFormPayload()
	for name, value := range body {
		switch v := value.(type) {
		case string:
			form.Set(name, v)
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					items = append(items, s)
				}
			}
			form.SetList(name, items)
		}
	}

	if err := h.publicService.Submit(c.Request.Context(), form); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submitted": true})
}
