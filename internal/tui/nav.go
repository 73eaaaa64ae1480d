package tui

import "ktrn/internal/models"

// Route identifies one console view.
type Route int

const (
	RouteLogin Route = iota
	RouteDashboard
	RouteUsers
	RouteSites
	RouteRequests
	RouteOutsider
	RouteReports
	RouteSubmit
	RouteMyRequests
	RoutePublic
)

// NavItem is one sidebar destination.
type NavItem struct {
	Route Route
	Title string
}

// roleNav is the static role-to-destination mapping. The role decides
// the whole set; nothing is computed per record.
var roleNav = map[models.Role][]NavItem{
	models.RoleAdmin: {
		{RouteDashboard, "Dashboard"},
		{RouteUsers, "Users"},
		{RouteSites, "Sites"},
		{RouteRequests, "Requests"},
		{RouteOutsider, "Outsider Requests"},
		{RouteReports, "Reports"},
	},
	models.RoleTechnician: {
		{RouteSubmit, "Request Access"},
		{RouteMyRequests, "My Requests"},
	},
	models.RoleOutsider: {
		{RouteSubmit, "Request Access"},
	},
}

// anonymousNav is what renders with no session: the public form and the
// login screen.
var anonymousNav = []NavItem{
	{RoutePublic, "Request a Key"},
	{RouteLogin, "Log In"},
}

// NavFor returns the sidebar destinations for a role. Unknown or empty
// roles get the anonymous set.
func NavFor(role models.Role) []NavItem {
	if items, ok := roleNav[role]; ok {
		return items
	}
	return anonymousNav
}

// landingRoute is where a fresh login lands: admins on the user list,
// everyone else on the request form.
func landingRoute(role models.Role) Route {
	if role == models.RoleAdmin {
		return RouteUsers
	}
	return RouteSubmit
}
