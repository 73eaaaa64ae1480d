package service

import (
	"context"
	"sync"
	"time"

	"ktrn/internal/api"
	"ktrn/internal/filter"
	"ktrn/internal/models"
)

// RequestBackend abstracts which request collection a view manages: the
// admin's full list, the admin's outsider list, or one user's history.
type RequestBackend interface {
	List(ctx context.Context) ([]models.KeyRequest, error)
	UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error
	Delete(ctx context.Context, id uint) error
}

type adminBackend struct {
	client *api.Client
}

func (b adminBackend) List(ctx context.Context) ([]models.KeyRequest, error) {
	return b.client.ListAllRequests(ctx)
}

func (b adminBackend) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	return b.client.UpdateRequestStatus(ctx, id, status)
}

func (b adminBackend) Delete(ctx context.Context, id uint) error {
	return b.client.DeleteRequest(ctx, id)
}

// AdminRequests manages the full request list.
func AdminRequests(client *api.Client) RequestBackend {
	return adminBackend{client: client}
}

type outsiderBackend struct {
	client *api.Client
}

func (b outsiderBackend) List(ctx context.Context) ([]models.KeyRequest, error) {
	outsiders, err := b.client.ListOutsiderRequests(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]models.KeyRequest, len(outsiders))
	for i, o := range outsiders {
		records[i] = o.Record()
	}
	return records, nil
}

func (b outsiderBackend) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	return b.client.UpdateOutsiderStatus(ctx, id, status)
}

func (b outsiderBackend) Delete(ctx context.Context, id uint) error {
	return models.NewValidationError("Outsider requests cannot be deleted")
}

// OutsiderRequests manages the public submission list for admin review.
func OutsiderRequests(client *api.Client) RequestBackend {
	return outsiderBackend{client: client}
}

type userBackend struct {
	client *api.Client
	userID uint
}

func (b userBackend) List(ctx context.Context) ([]models.KeyRequest, error) {
	return b.client.ListUserRequests(ctx, b.userID)
}

func (b userBackend) UpdateStatus(ctx context.Context, id uint, status models.RequestStatus) error {
	return models.NewValidationError("Request status is decided by an administrator")
}

func (b userBackend) Delete(ctx context.Context, id uint) error {
	return models.NewValidationError("Submitted requests cannot be deleted")
}

// UserRequests manages one user's read-only request history.
func UserRequests(client *api.Client, userID uint) RequestBackend {
	return userBackend{client: client, userID: userID}
}

// RequestService caches one request collection and applies mutations
// against it. Concurrent status updates are serialized; whichever call
// reaches the backend last wins, the same as two admins clicking at
// once.
type RequestService struct {
	backend RequestBackend

	mu      sync.Mutex
	records []models.KeyRequest
}

// NewRequestService creates a RequestService over the given backend.
func NewRequestService(backend RequestBackend) *RequestService {
	return &RequestService{backend: backend}
}

// Load fetches the collection, replacing the cache. On failure the
// previous cache is kept so the view degrades to stale data plus an
// error message.
func (s *RequestService) Load(ctx context.Context) error {
	records, err := s.backend.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Records returns a copy of the cached collection.
func (s *RequestService) Records() []models.KeyRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.KeyRequest, len(s.records))
	copy(out, s.records)
	return out
}

// Filtered returns the cached collection narrowed by f.
func (s *RequestService) Filtered(f filter.Filters, now time.Time) []models.KeyRequest {
	return filter.Apply(s.Records(), f, now)
}

// UpdateStatus proposes a transition for one cached record. An ID not
// in the cache fails as not-found without touching the network. Exactly
// one backend call is made; on success only the targeted record's
// status is rewritten, every other cached record is untouched.
func (s *RequestService) UpdateStatus(ctx context.Context, id uint, next models.RequestStatus) error {
	s.mu.Lock()
	idx := -1
	var current models.RequestStatus
	for i, r := range s.records {
		if r.ID == id {
			idx, current = i, r.Status
			break
		}
	}
	s.mu.Unlock()

	if idx == -1 {
		return models.NewNotFoundError("Request", id)
	}
	status, err := models.Transition(current, next)
	if err != nil {
		return err
	}

	if err := s.backend.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = status
			break
		}
	}
	return nil
}

// Delete removes one record, cache last so a backend failure leaves the
// cache intact.
func (s *RequestService) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	found := false
	for _, r := range s.records {
		if r.ID == id {
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return models.NewNotFoundError("Request", id)
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}
