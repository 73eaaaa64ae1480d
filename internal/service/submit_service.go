package service

import (
	"context"
	"strings"
	"time"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/session"
)

// SubmitService backs the logged-in request form.
type SubmitService struct {
	client   *api.Client
	sessions *session.Manager
}

// NewSubmitService creates a SubmitService.
func NewSubmitService(client *api.Client, sessions *session.Manager) *SubmitService {
	return &SubmitService{client: client, sessions: sessions}
}

// ActiveSites fetches the sites a request can target.
func (s *SubmitService) ActiveSites(ctx context.Context) ([]models.Site, error) {
	return s.client.PublicActiveSites(ctx)
}

// Submit files a key request under the logged-in user's identity.
func (s *SubmitService) Submit(ctx context.Context, siteID uint, reason string, requestedTime time.Time) error {
	sess := s.sessions.Current()
	if sess == nil {
		return models.NewUnauthorizedError("You must be logged in to submit a request")
	}
	if siteID == 0 {
		return models.NewValidationError("Select a site")
	}
	if strings.TrimSpace(reason) == "" {
		return models.NewValidationError("Reason is required")
	}
	if requestedTime.IsZero() {
		return models.NewValidationError("Requested time is required")
	}

	return s.client.CreateRequest(ctx, api.CreateRequestInput{
		UserID:        sess.UserID,
		SiteID:        siteID,
		Reason:        strings.TrimSpace(reason),
		RequestedTime: requestedTime,
	})
}
