package services

import (
	"context"
	"fmt"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/caching/manager"
	"github.com/presetbase/presetbase-go/internal/infrastructure/email"
	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/messaging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// SubmissionService handles the moderation queue: listing pending
// submissions and approving or denying them. Decisions notify the submitter
// by email when an email client is configured.
type SubmissionService struct {
	client      *gateway.Client
	cache       *manager.Manager
	email       *email.Client
	broadcaster *messaging.RefreshBroadcaster
	logger      *logging.ChanneledLogger
}

// NewSubmissionService creates the submission service. emailClient may be
// nil, which disables decision emails.
func NewSubmissionService(client *gateway.Client, cache *manager.Manager, emailClient *email.Client, broadcaster *messaging.RefreshBroadcaster, logger *logging.ChanneledLogger) *SubmissionService {
	return &SubmissionService{
		client:      client,
		cache:       cache,
		email:       emailClient,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Pending lists the submissions awaiting a decision.
func (s *SubmissionService) Pending(ctx context.Context) ([]catalog.PendingSubmission, error) {
	submissions, err := s.client.PendingSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending submissions: %w", err)
	}
	return submissions, nil
}

// Approve promotes a submission into the approved catalog. The upstream
// creates the song plus any new artists, synths, presets, and album in one
// step, so every browsable table may have changed.
func (s *SubmissionService) Approve(ctx context.Context, submission catalog.PendingSubmission) error {
	form := gateway.NewFormPayload()
	form.Set("id", submission.ID)

	if err := s.client.ApproveSubmission(ctx, form); err != nil {
		s.logger.Catalog().Error("Failed to approve submission",
			"submissionId", submission.ID, "error", err.Error())
		return err
	}

	for _, et := range catalog.BrowsableEntityTypes() {
		s.cache.InvalidatePrefix(string(et))
		s.broadcaster.NotifyRefresh(et, "")
	}

	s.logger.Catalog().Info("Submission approved",
		"submissionId", submission.ID, "song", submission.Song.Title)
	s.notifyApproved(submission)
	return nil
}

// Deny discards a submission with an optional reason sent to the submitter.
func (s *SubmissionService) Deny(ctx context.Context, submission catalog.PendingSubmission, reason string) error {
	form := gateway.NewFormPayload()
	form.Set("id", submission.ID)
	if reason != "" {
		form.Set("reason", reason)
	}

	if err := s.client.DenySubmission(ctx, form); err != nil {
		s.logger.Catalog().Error("Failed to deny submission",
			"submissionId", submission.ID, "error", err.Error())
		return err
	}

	s.logger.Catalog().Info("Submission denied",
		"submissionId", submission.ID, "song", submission.Song.Title)
	s.notifyDenied(submission, reason)
	return nil
}

func (s *SubmissionService) notifyApproved(submission catalog.PendingSubmission) {
	if s.email == nil || submission.Email == "" {
		return
	}
	if err := s.email.SendSubmissionApproved(submission.Email, submission.SubmittedBy, submission.Song.Title); err != nil {
		s.logger.Email().Error("Failed to send approval email",
			"submissionId", submission.ID, "error", err.Error())
	}
}

func (s *SubmissionService) notifyDenied(submission catalog.PendingSubmission, reason string) {
	if s.email == nil || submission.Email == "" {
		return
	}
	if err := s.email.SendSubmissionDenied(submission.Email, submission.SubmittedBy, submission.Song.Title, reason); err != nil {
		s.logger.Email().Error("Failed to send denial email",
			"submissionId", submission.ID, "error", err.Error())
	}
}
