package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/services"
	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// SubmissionHandlers serves the moderation queue.
type SubmissionHandlers struct {
	submissionService *services.SubmissionService
	logger            *logging.ChanneledLogger
}

// NewSubmissionHandlers creates submission handlers with injected dependencies.
func NewSubmissionHandlers(submissionService *services.SubmissionService, logger *logging.ChanneledLogger) *SubmissionHandlers {
	return &SubmissionHandlers{
		submissionService: submissionService,
		logger:            logger,
	}
}

// GetPending handles GET /api/v1/admin/submissions - submissions awaiting
// a decision.
func (h *SubmissionHandlers) GetPending(c *gin.Context) {
	submissions, err := h.submissionService.Pending(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// PostApprove handles POST /api/v1/admin/submissions/:id/approve.
func (h *SubmissionHandlers) PostApprove(c *gin.Context) {
	submission, ok, err := h.findSubmission(c)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}

	if err := h.submissionService.Approve(c.Request.Context(), submission); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

// PostDeny handles POST /api/v1/admin/submissions/:id/deny. An optional
// reason in the body is relayed to the submitter.
func (h *SubmissionHandlers) PostDeny(c *gin.Context) {
	var denyReq struct {
		Reason string `json:"reason"`
	}
	// An empty body is a deny without a reason.
	_ = c.ShouldBindJSON(&denyReq)

	submission, ok, err := h.findSubmission(c)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}

	if err := h.submissionService.Deny(c.Request.Context(), submission, denyReq.Reason); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"denied": true})
}

func (h *SubmissionHandlers) findSubmission(c *gin.Context) (catalog.PendingSubmission, bool, error) {
	submissions, err := h.submissionService.Pending(c.Request.Context())
	if err != nil {
		return catalog.PendingSubmission{}, false, err
	}

	id := c.Param("id")
	for _, submission := range submissions {
		if submission.ID == id {
			return submission, true, nil
		}
	}
	return catalog.PendingSubmission{}, false, nil
}
