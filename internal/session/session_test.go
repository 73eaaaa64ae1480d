package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/models"
	"ktrn/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewManager(st), st
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLifecycle(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t)

	assert.Nil(t, m.Current(), "fresh state is logged out")
	assert.Equal(t, models.Role(""), m.Role())

	sess := models.Session{Token: "tok", Role: models.RoleAdmin, UserID: 5}
	require.NoError(t, m.Login(sess))

	current := m.Current()
	require.NotNil(t, current)
	assert.Equal(t, sess, *current)
	assert.Equal(t, models.RoleAdmin, m.Role())

	require.NoError(t, m.Logout())
	assert.Nil(t, m.Current())
}

func TestLoginRejectsIncompleteSession(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t)

	err := m.Login(models.Session{Token: "tok", UserID: 5})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Nil(t, m.Current())
}

func TestPartialStoredStateReadsAsLoggedOut(t *testing.T) {
	t.Parallel()
	m, st := newTestManager(t)

	// Simulate a half-written triple from an older client version.
	require.NoError(t, st.SaveSession(models.Session{Token: "tok", Role: models.RoleAdmin}))
	assert.Nil(t, m.Current())
}

func TestExpiredTokenReadsAsLoggedOut(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t)

	live := models.Session{
		Token:  tokenExpiring(t, time.Now().Add(time.Hour)),
		Role:   models.RoleTechnician,
		UserID: 2,
	}
	require.NoError(t, m.Login(live))
	require.NotNil(t, m.Current())

	dead := models.Session{
		Token:  tokenExpiring(t, time.Now().Add(-time.Minute)),
		Role:   models.RoleTechnician,
		UserID: 2,
	}
	require.NoError(t, m.Login(dead))
	assert.Nil(t, m.Current())
}
