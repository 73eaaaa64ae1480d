// Package service holds the console's business logic between the API
// client and the terminal views. Services cache what a view is looking
// at, reconcile the cache after mutations, and keep every network
// failure inside the error taxonomy so views only ever render messages.
package service

import (
	"context"
	"strings"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/session"
)

// AuthService logs identities in and out, keeping the persisted session
// in step with what the backend issued.
type AuthService struct {
	client   *api.Client
	sessions *session.Manager
}

// NewAuthService creates an AuthService.
func NewAuthService(client *api.Client, sessions *session.Manager) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

// Login authenticates and persists the issued session. Empty fields are
// rejected before any network call.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (models.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return models.Session{}, models.NewValidationError("Username or email and password are required")
	}

	sess, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		return models.Session{}, err
	}
	if err := s.sessions.Login(sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Logout clears the persisted session. It never calls the backend; the
// token simply stops being presented.
func (s *AuthService) Logout() error {
	return s.sessions.Logout()
}

// Current exposes the active session for views deciding what to render.
func (s *AuthService) Current() *models.Session {
	return s.sessions.Current()
}

// Role returns the active role, empty when logged out.
func (s *AuthService) Role() models.Role {
	return s.sessions.Role()
}
