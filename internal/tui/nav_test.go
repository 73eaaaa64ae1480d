package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ktrn/internal/models"
)

func routes(items []NavItem) []Route {
	out := make([]Route, len(items))
	for i, item := range items {
		out[i] = item.Route
	}
	return out
}

func TestNavFor(t *testing.T) {
	t.Parallel()

	t.Run("admin", func(t *testing.T) {
		assert.Equal(t,
			[]Route{RouteDashboard, RouteUsers, RouteSites, RouteRequests, RouteOutsider, RouteReports},
			routes(NavFor(models.RoleAdmin)))
	})

	t.Run("technician", func(t *testing.T) {
		assert.Equal(t, []Route{RouteSubmit, RouteMyRequests}, routes(NavFor(models.RoleTechnician)))
	})

	t.Run("outsider", func(t *testing.T) {
		assert.Equal(t, []Route{RouteSubmit}, routes(NavFor(models.RoleOutsider)))
	})

	t.Run("anonymous", func(t *testing.T) {
		anon := routes(NavFor(""))
		assert.Equal(t, []Route{RoutePublic, RouteLogin}, anon)
		assert.Equal(t, anon, routes(NavFor("Visitor")))
	})
}

func TestLandingRoute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RouteUsers, landingRoute(models.RoleAdmin))
	assert.Equal(t, RouteSubmit, landingRoute(models.RoleTechnician))
	assert.Equal(t, RouteSubmit, landingRoute(models.RoleOutsider))
}
