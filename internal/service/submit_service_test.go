package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/session"
	"ktrn/internal/store"
	"ktrn/internal/testutil"
)

func newSubmitFixture(t *testing.T, loggedIn bool) (*SubmitService, *testutil.Backend) {
	t.Helper()

	backend := testutil.NewBackend(t)
	backend.Sites = []models.Site{{ID: 5, Name: "Rubavu Coast", Status: models.SiteActive}}
	backend.Users = []models.User{{ID: 7, Username: "aline", Email: "aline@ktrn.rw", Role: "Technician"}}

	st, err := store.Open(tempStorePath(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewManager(st)
	if loggedIn {
		require.NoError(t, sessions.Login(models.Session{
			Token:  testutil.Token(t, 7),
			Role:   models.RoleTechnician,
			UserID: 7,
		}))
	}

	client := api.NewClient(backend.BaseURL(), 5*time.Second, sessions)
	return NewSubmitService(client, sessions), backend
}

func TestSubmitServiceSubmit(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	t.Run("files under the logged-in identity", func(t *testing.T) {
		t.Parallel()
		svc, backend := newSubmitFixture(t, true)

		require.NoError(t, svc.Submit(context.Background(), 5, "Fiber splice", when))

		backend.Mu.Lock()
		defer backend.Mu.Unlock()
		require.Len(t, backend.Requests, 1)
		assert.Equal(t, uint(7), backend.Requests[0].UserID)
		assert.Equal(t, "aline", backend.Requests[0].Username)
		assert.Equal(t, "Rubavu Coast", backend.Requests[0].SiteName)
		assert.Equal(t, models.StatusPending, backend.Requests[0].Status)
	})

	t.Run("logged out is rejected", func(t *testing.T) {
		t.Parallel()
		svc, backend := newSubmitFixture(t, false)

		err := svc.Submit(context.Background(), 5, "Fiber splice", when)
		require.Error(t, err)
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

		backend.Mu.Lock()
		defer backend.Mu.Unlock()
		assert.Empty(t, backend.Requests)
	})

	t.Run("incomplete form is rejected locally", func(t *testing.T) {
		t.Parallel()
		svc, _ := newSubmitFixture(t, true)

		err := svc.Submit(context.Background(), 0, "Fiber splice", when)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

		err = svc.Submit(context.Background(), 5, "  ", when)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

		err = svc.Submit(context.Background(), 5, "Fiber splice", time.Time{})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}
