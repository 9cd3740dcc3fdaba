package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// TableHandlers serves the admin browse tables.
type TableHandlers struct {
	browseService *services.BrowseService
	gateway       *gateway.Client
	logger        *logging.ChanneledLogger
}

// NewTableHandlers creates table handlers with injected dependencies.
func NewTableHandlers(browseService *services.BrowseService, gatewayClient *gateway.Client, logger *logging.ChanneledLogger) *TableHandlers {
	return &TableHandlers{
		browseService: browseService,
		gateway:       gatewayClient,
		logger:        logger,
	}
}

// GetTable handles GET /api/v1/admin/tables/:table - one shaped table page.
// The filter query narrows already-loaded rows; it never changes what is
// fetched upstream.
func (h *TableHandlers) GetTable(c *gin.Context) {
	et, err := catalog.ParseEntityType(c.Param("table"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !et.Browsable() {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	params := browseParamsFromQuery(c)
	filterText := c.Query("filter")
	forceRefresh := c.Query("refresh") == "true"

	view, err := h.browseService.Table(c.Request.Context(), et, params, filterText, forceRefresh)
	if err != nil {
		h.logger.Catalog().Error("Failed to load table",
			"table", et, "error", err.Error())
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTableConfig handles GET /api/v1/admin/tables/:table/config - the
// column and sort configuration driving the table UI.
func (h *TableHandlers) GetTableConfig(c *gin.Context) {
	et, err := catalog.ParseEntityType(c.Param("table"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	cfg, ok := catalog.TableConfigFor(et)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// GetUsers handles GET /api/v1/admin/users - the registered user list.
func (h *TableHandlers) GetUsers(c *gin.Context) {
	users, err := h.gateway.Users(c.Request.Context(), browseParamsFromQuery(c))
	if err != nil {
		h.logger.Catalog().Error("Failed to load users", "error", err.Error())
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func browseParamsFromQuery(c *gin.Context) gateway.BrowseParams {
	params := gateway.BrowseParams{
		SortBy:    c.Query("sortBy"),
		Direction: c.Query("direction"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	return params
}

// respondUpstreamError maps gateway failures onto the response, passing the
// upstream status and message through verbatim when available.
func respondUpstreamError(c *gin.Context, err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
