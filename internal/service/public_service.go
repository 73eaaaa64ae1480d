package service

import (
	"context"
	"strings"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/store"
	"ktrn/internal/validation"
)

// PublicService backs the unauthenticated request form: the active site
// list, client-side validation, and the locally persisted draft.
type PublicService struct {
	client *api.Client
	store  *store.Store
}

// NewPublicService creates a PublicService.
func NewPublicService(client *api.Client, st *store.Store) *PublicService {
	return &PublicService{client: client, store: st}
}

// ActiveSites fetches the sites currently accepting public requests.
func (s *PublicService) ActiveSites(ctx context.Context) ([]models.Site, error) {
	return s.client.PublicActiveSites(ctx)
}

// Draft returns the persisted in-progress form, or a zero draft when
// none is stored.
func (s *PublicService) Draft() models.RequestDraft {
	draft, err := s.store.LoadDraft()
	if err != nil || draft == nil {
		return models.RequestDraft{}
	}
	return *draft
}

// SaveDraft persists the in-progress form so a closed terminal loses
// nothing. Empty drafts clear instead of storing a blank row.
func (s *PublicService) SaveDraft(d models.RequestDraft) error {
	if d.Empty() {
		return s.store.ClearDraft()
	}
	return s.store.SaveDraft(d)
}

// Validate checks the draft without submitting it. The first problem
// found is returned as a validation error.
func (s *PublicService) Validate(d models.RequestDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return models.NewValidationError("Name is required")
	}
	if !validation.ValidEmail(d.Email, d.PartnerName) {
		return models.NewValidationError("Enter a valid email address for the selected partner")
	}
	if !validation.ValidPhone(d.Phone) {
		return models.NewValidationError("Enter a valid phone number (+250 or 07 followed by 8 digits)")
	}
	if d.SiteID == 0 {
		return models.NewValidationError("Select a site")
	}
	if strings.TrimSpace(d.Reason) == "" {
		return models.NewValidationError("Reason is required")
	}
	if strings.TrimSpace(d.RequestedTime) == "" {
		return models.NewValidationError("Requested time is required")
	}
	return nil
}

// Submit validates the draft, sends it, and clears the persisted draft
// only after the backend accepts it. The server's confirmation message
// comes back for display.
func (s *PublicService) Submit(ctx context.Context, d models.RequestDraft) (string, error) {
	if err := s.Validate(d); err != nil {
		return "", err
	}

	msg, err := s.client.CreatePublicRequest(ctx, api.PublicRequestInput{
		Name:          strings.TrimSpace(d.Name),
		Email:         strings.TrimSpace(d.Email),
		Phone:         strings.Join(strings.Fields(d.Phone), ""),
		PartnerName:   d.PartnerName,
		SiteID:        d.SiteID,
		Reason:        strings.TrimSpace(d.Reason),
		RequestedTime: d.RequestedTime,
	})
	if err != nil {
		return "", err
	}
	if err := s.store.ClearDraft(); err != nil {
		return msg, err
	}
	return msg, nil
}
