package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/infrastructure/media"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// UploadHandlers validates and forwards media uploads.
type UploadHandlers struct {
	uploadService *services.UploadService
	logger        *logging.ChanneledLogger
}

// NewUploadHandlers creates upload handlers with injected dependencies.
func NewUploadHandlers(uploadService *services.UploadService, logger *logging.ChanneledLogger) *UploadHandlers {
	return &UploadHandlers{
		uploadService: uploadService,
		logger:        logger,
	}
}

// PostImage handles POST /api/v1/admin/uploads/image - a multipart image
// under the "file" field, with every other form field forwarded upstream.
func (h *UploadHandlers) PostImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	if err := h.uploadService.UploadImage(c.Request.Context(), "file", header, formFields(c)); err != nil {
		respondUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploaded": true})
}

// PostAudio handles POST /api/v1/admin/uploads/audio - a multipart audio
// clip under the "file" field.
func (h *UploadHandlers) PostAudio(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	if err := h.uploadService.UploadAudio(c.Request.Context(), "file", header, formFields(c)); err != nil {
		respondUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploaded": true})
}

func formFields(c *gin.Context) map[string]string {
	fields := make(map[string]string)
	if form, err := c.MultipartForm(); err == nil {
		for name, values := range form.Value {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
	}
	return fields
}

func respondUploadError(c *gin.Context, err error) {
	var validationErr *media.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		return
	}
	respondUpstreamError(c, err)
}
