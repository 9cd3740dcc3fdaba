package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// SuggestHandlers serves the relation-search typeahead inside the editor.
type SuggestHandlers struct {
	suggestService *services.SuggestService
	logger         *logging.ChanneledLogger
}

// NewSuggestHandlers creates suggest handlers with injected dependencies.
func NewSuggestHandlers(suggestService *services.SuggestService, logger *logging.ChanneledLogger) *SuggestHandlers {
	return &SuggestHandlers{
		suggestService: suggestService,
		logger:         logger,
	}
}

func suggestKey(sessionID, field string) string {
	return fmt.Sprintf("%s:%s", sessionID, field)
}

// PostKeystroke handles POST /api/v1/admin/editor/sessions/:sessionId/suggest/:field.
// Each keystroke restarts the debounce window; the upstream lookup fires
// only once typing pauses.
func (h *SuggestHandlers) PostKeystroke(c *gin.Context) {
	var keyReq struct {
		Table string `json:"table" binding:"required"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&keyReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	et, err := catalog.ParseEntityType(keyReq.Table)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.suggestService.Type(suggestKey(c.Param("sessionId"), c.Param("field")), et, keyReq.Text)
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

// GetState handles GET /api/v1/admin/editor/sessions/:sessionId/suggest/:field.
func (h *SuggestHandlers) GetState(c *gin.Context) {
	state, ok := h.suggestService.State(suggestKey(c.Param("sessionId"), c.Param("field")))
	if !ok {
		c.JSON(http.StatusOK, services.SuggestState{})
		return
	}
	c.JSON(http.StatusOK, state)
}

// PostCursor handles POST .../suggest/:field/cursor - moves the highlight
// up or down, wrapping at the ends.
func (h *SuggestHandlers) PostCursor(c *gin.Context) {
	var cursorReq struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&cursorReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	delta := 0
	switch cursorReq.Direction {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be up or down"})
		return
	}

	state, ok := h.suggestService.MoveCursor(suggestKey(c.Param("sessionId"), c.Param("field")), delta)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no suggestion state for field"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// PostSelect handles POST .../suggest/:field/select - commits the
// highlighted option and closes the box.
func (h *SuggestHandlers) PostSelect(c *gin.Context) {
	option, ok := h.suggestService.Select(suggestKey(c.Param("sessionId"), c.Param("field")))
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no open suggestion box"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": option})
}

// PostDismiss handles POST .../suggest/:field/dismiss - closes the box
// without selecting.
func (h *SuggestHandlers) PostDismiss(c *gin.Context) {
	h.suggestService.Dismiss(suggestKey(c.Param("sessionId"), c.Param("field")))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
