package service

import (
	"context"
	"sync"

	"ktrn/internal/api"
	"ktrn/internal/models"
)

// UserService caches the account list for the admin view and reconciles
// it after each mutation using the record the backend returned.
type UserService struct {
	client *api.Client

	mu    sync.Mutex
	users []models.User
}

// NewUserService creates a UserService.
func NewUserService(client *api.Client) *UserService {
	return &UserService{client: client}
}

// Load fetches all accounts, replacing the cache.
func (s *UserService) Load(ctx context.Context) error {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Users returns a copy of the cached accounts.
func (s *UserService) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Create registers an account and appends the created record.
func (s *UserService) Create(ctx context.Context, in api.CreateUserInput) (models.User, error) {
	user, err := s.client.CreateUser(ctx, in)
	if err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	s.users = append(s.users, user)
	s.mu.Unlock()
	return user, nil
}

// Update modifies an account and rewrites the cached record.
func (s *UserService) Update(ctx context.Context, id uint, in api.UpdateUserInput) (models.User, error) {
	user, err := s.client.UpdateUser(ctx, id, in)
	if err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = user
			break
		}
	}
	return user, nil
}

// Delete removes an account, cache last.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	return nil
}

// SiteService caches the site list for the admin view.
type SiteService struct {
	client *api.Client

	mu    sync.Mutex
	sites []models.Site
}

// NewSiteService creates a SiteService.
func NewSiteService(client *api.Client) *SiteService {
	return &SiteService{client: client}
}

// Load fetches all sites, replacing the cache.
func (s *SiteService) Load(ctx context.Context) error {
	sites, err := s.client.ListSites(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sites = sites
	s.mu.Unlock()
	return nil
}

// Sites returns a copy of the cached sites.
func (s *SiteService) Sites() []models.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

// Create validates the status, registers the site, and appends the
// created record.
func (s *SiteService) Create(ctx context.Context, in api.SiteInput) (models.Site, error) {
	if !models.SiteStatus(in.Status).Valid() {
		return models.Site{}, models.NewValidationError("Unknown site status: " + in.Status)
	}
	site, err := s.client.CreateSite(ctx, in)
	if err != nil {
		return models.Site{}, err
	}
	s.mu.Lock()
	s.sites = append(s.sites, site)
	s.mu.Unlock()
	return site, nil
}

// Update modifies a site and rewrites the cached record.
func (s *SiteService) Update(ctx context.Context, id uint, in api.SiteInput) (models.Site, error) {
	if !models.SiteStatus(in.Status).Valid() {
		return models.Site{}, models.NewValidationError("Unknown site status: " + in.Status)
	}
	site, err := s.client.UpdateSite(ctx, id, in)
	if err != nil {
		return models.Site{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sites {
		if s.sites[i].ID == id {
			s.sites[i] = site
			break
		}
	}
	return site, nil
}

// Delete removes a site, cache last.
func (s *SiteService) Delete(ctx context.Context, id uint) error {
	if err := s.client.DeleteSite(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, site := range s.sites {
		if site.ID == id {
			s.sites = append(s.sites[:i], s.sites[i+1:]...)
			break
		}
	}
	return nil
}
