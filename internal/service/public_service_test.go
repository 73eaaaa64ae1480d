package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/store"
	"ktrn/internal/testutil"
)

func validDraft() models.RequestDraft {
	return models.RequestDraft{
		Name:          "Eric N.",
		Email:         "eric@mtn.com",
		Phone:         "0781234567",
		PartnerName:   "MTN",
		SiteID:        3,
		Reason:        "Generator maintenance",
		RequestedTime: "2026-03-01T09:00",
	}
}

func newPublicFixture(t *testing.T) (*PublicService, *store.Store, *testutil.Backend) {
	t.Helper()

	backend := testutil.NewBackend(t)
	backend.Sites = []models.Site{{ID: 3, Name: "Huye North", Status: models.SiteActive}}

	st, err := store.Open(tempStorePath(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	client := api.NewClient(backend.BaseURL(), 5*time.Second, nil)
	return NewPublicService(client, st), st, backend
}

func TestPublicServiceValidate(t *testing.T) {
	t.Parallel()

	svc := NewPublicService(nil, nil)

	cases := []struct {
		name   string
		mutate func(*models.RequestDraft)
		valid  bool
	}{
		{"complete draft", func(d *models.RequestDraft) {}, true},
		{"missing name", func(d *models.RequestDraft) { d.Name = " " }, false},
		{"malformed email", func(d *models.RequestDraft) { d.Email = "not-an-email" }, false},
		{"email off the partner allow-list", func(d *models.RequestDraft) { d.Email = "eric@airtel.com" }, false},
		{"gmail allowed for MTN", func(d *models.RequestDraft) { d.Email = "eric@gmail.com" }, true},
		{"short phone", func(d *models.RequestDraft) { d.Phone = "12345" }, false},
		{"foreign phone", func(d *models.RequestDraft) { d.Phone = "+1234567890" }, false},
		{"international phone", func(d *models.RequestDraft) { d.Phone = "+25078123456" }, true},
		{"no site", func(d *models.RequestDraft) { d.SiteID = 0 }, false},
		{"no reason", func(d *models.RequestDraft) { d.Reason = "" }, false},
		{"no requested time", func(d *models.RequestDraft) { d.RequestedTime = "" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			draft := validDraft()
			tc.mutate(&draft)
			err := svc.Validate(draft)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			}
		})
	}
}

func TestPublicServiceDraftLifecycle(t *testing.T) {
	t.Parallel()

	svc, _, _ := newPublicFixture(t)

	assert.True(t, svc.Draft().Empty())

	draft := validDraft()
	require.NoError(t, svc.SaveDraft(draft))
	assert.Equal(t, draft, svc.Draft())

	require.NoError(t, svc.SaveDraft(models.RequestDraft{}))
	assert.True(t, svc.Draft().Empty())
}

func TestPublicServiceSubmit(t *testing.T) {
	t.Parallel()

	t.Run("accepted submission clears the draft", func(t *testing.T) {
		t.Parallel()
		svc, _, backend := newPublicFixture(t)
		draft := validDraft()
		require.NoError(t, svc.SaveDraft(draft))

		msg, err := svc.Submit(context.Background(), draft)
		require.NoError(t, err)
		assert.Equal(t, "Request submitted successfully.", msg)
		assert.True(t, svc.Draft().Empty())

		backend.Mu.Lock()
		defer backend.Mu.Unlock()
		require.Len(t, backend.Outsiders, 1)
		assert.Equal(t, "Eric N.", backend.Outsiders[0].Name)
	})

	t.Run("rejected submission keeps the draft", func(t *testing.T) {
		t.Parallel()
		svc, _, backend := newPublicFixture(t)
		backend.FailWith("POST /public/requests", http.StatusInternalServerError, "storage unavailable")
		draft := validDraft()
		require.NoError(t, svc.SaveDraft(draft))

		_, err := svc.Submit(context.Background(), draft)
		require.Error(t, err)
		assert.Equal(t, models.CodeServer, models.ErrorCode(err))
		assert.Equal(t, draft, svc.Draft())
	})

	t.Run("invalid draft never reaches the backend", func(t *testing.T) {
		t.Parallel()
		svc, _, backend := newPublicFixture(t)
		draft := validDraft()
		draft.Phone = "12345"

		_, err := svc.Submit(context.Background(), draft)
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

		backend.Mu.Lock()
		defer backend.Mu.Unlock()
		assert.Empty(t, backend.Outsiders)
	})
}

func TestPublicServiceActiveSites(t *testing.T) {
	t.Parallel()

	svc, _, _ := newPublicFixture(t)
	sites, err := svc.ActiveSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Huye North", sites[0].Name)
}
