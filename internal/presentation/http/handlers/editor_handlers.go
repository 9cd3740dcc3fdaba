package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// EditorHandlers serves the slideout record editor: open, edit, apply,
// delete, close.
type EditorHandlers struct {
	editorService  *services.EditorService
	suggestService *services.SuggestService
	logger         *logging.ChanneledLogger
}

// NewEditorHandlers creates editor handlers with injected dependencies.
func NewEditorHandlers(editorService *services.EditorService, suggestService *services.SuggestService, logger *logging.ChanneledLogger) *EditorHandlers {
	return &EditorHandlers{
		editorService:  editorService,
		suggestService: suggestService,
		logger:         logger,
	}
}

// PostOpen handles POST /api/v1/admin/editor/:table/:id - opens an editor
// session and loads the entry.
func (h *EditorHandlers) PostOpen(c *gin.Context) {
	et, err := catalog.ParseEntityType(c.Param("table"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	session, err := h.editorService.Open(c.Request.Context(), et, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, _ := catalog.SlideoutConfigFor(et)
	c.JSON(http.StatusOK, gin.H{"session": session, "config": cfg})
}

// GetSession handles GET /api/v1/admin/editor/sessions/:sessionId.
func (h *EditorHandlers) GetSession(c *gin.Context) {
	session, ok := h.editorService.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "editor session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// PutField handles PUT /api/v1/admin/editor/sessions/:sessionId/fields.
func (h *EditorHandlers) PutField(c *gin.Context) {
	var fieldReq struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&fieldReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.editorService.EditField(c.Param("sessionId"), fieldReq.Key, fieldReq.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PutColor handles PUT /api/v1/admin/editor/sessions/:sessionId/colors.
func (h *EditorHandlers) PutColor(c *gin.Context) {
	var colorReq struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&colorReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.editorService.SetColor(c.Param("sessionId"), colorReq.Key, colorReq.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PostListItem handles POST /api/v1/admin/editor/sessions/:sessionId/lists/:list.
func (h *EditorHandlers) PostListItem(c *gin.Context) {
	var item services.AttachedItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.editorService.AttachListItem(c.Param("sessionId"), c.Param("list"), item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteListItem handles DELETE /api/v1/admin/editor/sessions/:sessionId/lists/:list/:itemId.
func (h *EditorHandlers) DeleteListItem(c *gin.Context) {
	if err := h.editorService.RemoveListItem(c.Param("sessionId"), c.Param("list"), c.Param("itemId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PutListItemInput handles PUT /api/v1/admin/editor/sessions/:sessionId/lists/:list/:itemId.
func (h *EditorHandlers) PutListItemInput(c *gin.Context) {
	var inputReq struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&inputReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.editorService.SetListItemInput(c.Param("sessionId"), c.Param("list"), c.Param("itemId"), inputReq.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PostApply handles POST /api/v1/admin/editor/sessions/:sessionId/apply.
// Accepts an optional multipart image under the "image" field; without a
// file the request body may be empty.
func (h *EditorHandlers) PostApply(c *gin.Context) {
	sessionID := c.Param("sessionId")

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	session, err := h.editorService.Apply(c.Request.Context(), sessionID, image)
	if err != nil {
		if session == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteEntry handles DELETE /api/v1/admin/editor/sessions/:sessionId/entry.
// The confirm query parameter must be "true"; anything else leaves the
// entry untouched.
func (h *EditorHandlers) DeleteEntry(c *gin.Context) {
	confirm := c.Query("confirm") == "true"

	deleted, err := h.editorService.Delete(c.Request.Context(), c.Param("sessionId"), confirm)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"deleted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteSession handles DELETE /api/v1/admin/editor/sessions/:sessionId -
// closes the editor, discarding unsaved edits.
func (h *EditorHandlers) DeleteSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	h.editorService.Close(sessionID)
	h.suggestService.DropPrefix(sessionID + ":")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
