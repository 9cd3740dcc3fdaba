package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/container"
)

// HealthHandlers reports process health.
type HealthHandlers struct {
	container *container.Container
}

// NewHealthHandlers creates health handlers.
func NewHealthHandlers(c *container.Container) *HealthHandlers {
	return &HealthHandlers{container: c}
}

// GetHealth handles GET /api/v1/health.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	persistence := "memory-only"
	if h.container.CacheDB != nil {
		persistence = h.container.CacheDB.GetConnectionInfo()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"cacheEntries":   h.container.Cache.Len(),
		"persistence":    persistence,
		"editorSessions": h.container.EditorService.SessionCount(),
		"emailEnabled":   h.container.Email != nil,
	})
}
