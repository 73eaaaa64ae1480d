package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	loaded, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, loaded, "fresh store has no session")

	sess := models.Session{Token: "tok-1", Role: models.RoleAdmin, UserID: 9}
	require.NoError(t, s.SaveSession(sess))

	loaded, err = s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess, *loaded)

	// Logging in again overwrites, never duplicates.
	second := models.Session{Token: "tok-2", Role: models.RoleTechnician, UserID: 4}
	require.NoError(t, s.SaveSession(second))
	loaded, err = s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, second, *loaded)

	require.NoError(t, s.ClearSession())
	loaded, err = s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionLegacyRoleLabel(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	require.NoError(t, s.db.Save(&sessionRow{ID: 1, Token: "tok", Role: "User", UserID: 2}).Error)
	loaded, err := s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, models.RoleOutsider, loaded.Role)
}

func TestDraftRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	loaded, err := s.LoadDraft()
	require.NoError(t, err)
	assert.Nil(t, loaded, "fresh store has no draft")

	draft := models.RequestDraft{
		Name:          "Jean Bosco",
		Email:         "jean@mtn.com",
		Phone:         "0781234567",
		PartnerName:   "MTN",
		SiteID:        3,
		Reason:        "tower maintenance",
		RequestedTime: "2025-04-01 09:00",
	}
	require.NoError(t, s.SaveDraft(draft))

	loaded, err = s.LoadDraft()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, draft, *loaded)

	require.NoError(t, s.ClearDraft())
	loaded, err = s.LoadDraft()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
