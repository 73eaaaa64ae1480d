// Package session manages the console's authenticated-identity state
// with an explicit lifecycle: login writes it, logout clears it, and
// every protected view reads it through Current. Views receive the
// manager by injection instead of reading ambient global storage.
package session

import (
	"time"

	"ktrn/internal/models"
	"ktrn/internal/store"
)

// Manager owns the persisted session triple.
type Manager struct {
	store *store.Store
	now   func() time.Time
}

// NewManager creates a Manager over the given state store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st, now: time.Now}
}

// Login persists the session. Incomplete sessions are rejected so a
// half-written triple can never be stored.
func (m *Manager) Login(sess models.Session) error {
	if !sess.Complete() {
		return models.NewValidationError("Login response was missing token, role, or user ID")
	}
	return m.store.SaveSession(sess)
}

// Logout clears the persisted session.
func (m *Manager) Logout() error {
	return m.store.ClearSession()
}

// Current returns the active session, or nil when logged out. Partial
// state (a token without a role, or vice versa) and sessions whose
// token has visibly expired both read as logged out.
func (m *Manager) Current() *models.Session {
	sess, err := m.store.LoadSession()
	if err != nil || sess == nil {
		return nil
	}
	if !sess.Complete() || sess.Expired(m.now()) {
		return nil
	}
	return sess
}

// Role returns the active session's role, or the empty (anonymous)
// role when logged out.
func (m *Manager) Role() models.Role {
	if sess := m.Current(); sess != nil {
		return sess.Role
	}
	return ""
}
