package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/service"
	"ktrn/internal/session"
	"ktrn/internal/store"
	"ktrn/internal/testutil"
)

func newTestApp(t *testing.T) (*App, *testutil.Backend) {
	t.Helper()

	backend := testutil.NewBackend(t)
	backend.SeedUser(models.User{ID: 1, Username: "root", Email: "root@ktrn.rw", Role: "Admin"}, "admin-pass")

	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewManager(st)
	client := api.NewClient(backend.BaseURL(), 5*time.Second, sessions)

	deps := Deps{
		Auth:      service.NewAuthService(client, sessions),
		Users:     service.NewUserService(client),
		Sites:     service.NewSiteService(client),
		Requests:  service.NewRequestService(service.AdminRequests(client)),
		Outsider:  service.NewRequestService(service.OutsiderRequests(client)),
		Dashboard: service.NewDashboardService(client),
		Reports:   service.NewReportService(client, t.TempDir()),
		Public:    service.NewPublicService(client, st),
		Submit:    service.NewSubmitService(client, sessions),
		MyRequests: func(userID uint) *service.RequestService {
			return service.NewRequestService(service.UserRequests(client, userID))
		},
		PollEvery: time.Minute,
	}
	return NewApp(deps), backend
}

func TestAppStartsLoggedOut(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	app.Init()
	assert.Equal(t, RouteLogin, app.Route())
	assert.Equal(t, routes(anonymousNav), routes(app.nav))
}

func TestAppResumesSession(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	_, err := app.deps.Auth.Login(context.Background(), "root", "admin-pass")
	require.NoError(t, err)

	resumed := NewApp(app.deps)
	resumed.Init()
	assert.Equal(t, RouteUsers, resumed.Route())
}

func TestAppLoginRoutesByRole(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	app.Init()

	_, err := app.deps.Auth.Login(context.Background(), "root", "admin-pass")
	require.NoError(t, err)

	model, _ := app.Update(loginDoneMsg{gen: app.Generation()})
	updated := model.(*App)
	assert.Equal(t, RouteUsers, updated.Route())
	assert.Equal(t, routes(roleNav[models.RoleAdmin]), routes(updated.nav))
}

func TestAppDropsStaleMessages(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	app.Init()
	before := app.Route()

	// A login result issued under an older generation must not route.
	model, cmd := app.Update(loginDoneMsg{gen: app.Generation() - 1})
	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, before, app.Route())
}

func TestAppGenerationBumpsOnRouteSwitch(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	app.Init()
	gen := app.Generation()

	app.setRoute(RoutePublic)
	assert.Equal(t, gen+1, app.Generation())

	// A fetch result from the abandoned login view is now stale.
	model, _ := app.Update(loginResultMsg{gen: gen, err: nil})
	assert.Equal(t, RoutePublic, model.(*App).Route())
}

func TestAppConfirmModal(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	app.Init()

	ran := false
	action := func() tea.Msg { ran = true; return nil }
	app.Update(confirmMsg{prompt: "Delete something?", action: action})
	require.NotNil(t, app.confirm)
	assert.Contains(t, app.View(), "Delete something?")

	t.Run("any other key cancels", func(t *testing.T) {
		model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		assert.Nil(t, model.(*App).confirm)
		assert.Nil(t, cmd)
		assert.False(t, ran)
	})

	t.Run("y runs the action", func(t *testing.T) {
		app.Update(confirmMsg{prompt: "Delete something?", action: action})
		_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		require.NotNil(t, cmd)
		cmd()
		assert.True(t, ran)
	})
}

func TestAppLogout(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	_, err := app.deps.Auth.Login(context.Background(), "root", "admin-pass")
	require.NoError(t, err)
	app.Init()

	model, _ := app.Update(loggedOutMsg{})
	updated := model.(*App)
	assert.Equal(t, RouteLogin, updated.Route())
	assert.Equal(t, routes(anonymousNav), routes(updated.nav))
}
