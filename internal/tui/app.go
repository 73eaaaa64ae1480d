// Package tui is the terminal front end: a bubbletea program with one
// root model owning route state and a role-gated set of destinations,
// delegating everything else to per-route sub-models.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ktrn/internal/service"
)

// Deps bundles the services the console runs on.
type Deps struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Sites      *service.SiteService
	Requests   *service.RequestService
	Outsider   *service.RequestService
	Dashboard  *service.DashboardService
	Reports    *service.ReportService
	Public     *service.PublicService
	Submit     *service.SubmitService
	MyRequests func(userID uint) *service.RequestService

	// PollEvery is the user list refresh interval.
	PollEvery time.Duration
}

// view is one routed screen. Views tag their async result messages
// with the generation they were created under.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (view, tea.Cmd)
	View() string
}

// typingView is implemented by views that route keystrokes into a text
// field; global single-letter bindings stand down while one is typing.
type typingView interface {
	typing() bool
}

// staleMsg is implemented by every async result message. Results from
// a view the user has already navigated away from are dropped by the
// root model before delegation.
type staleMsg interface {
	generation() int
}

// confirmMsg asks the root model to show the uniform confirmation
// modal. Every destructive action in the console goes through it.
type confirmMsg struct {
	prompt string
	action tea.Cmd
}

// loginDoneMsg is emitted by the login view after a persisted login.
type loginDoneMsg struct {
	gen int
}

func (m loginDoneMsg) generation() int { return m.gen }

// loggedOutMsg is emitted after a logout.
type loggedOutMsg struct{}

// App is the root model.
type App struct {
	deps  Deps
	theme Theme
	keys  KeyMap

	gen    int
	route  Route
	active view
	nav    []NavItem

	confirm *confirmModel

	width  int
	height int
}

// NewApp creates the root model, resuming a persisted session when one
// is still valid.
func NewApp(deps Deps) *App {
	a := &App{
		deps:   deps,
		theme:  DefaultTheme,
		keys:   DefaultKeyMap,
		width:  100,
		height: 30,
	}
	role := deps.Auth.Role()
	a.nav = NavFor(role)
	if deps.Auth.Current() != nil {
		a.route = landingRoute(role)
	} else {
		a.route = RouteLogin
	}
	return a
}

// Generation exposes the current view generation.
func (a *App) Generation() int { return a.gen }

// Route exposes the current route.
func (a *App) Route() Route { return a.route }

func (a *App) Init() tea.Cmd {
	return a.setRoute(a.route)
}

// setRoute swaps the active view, bumping the generation so in-flight
// results for the old view land dead.
func (a *App) setRoute(r Route) tea.Cmd {
	a.gen++
	a.route = r
	a.confirm = nil
	a.active = a.makeView(r)
	return a.active.Init()
}

func (a *App) makeView(r Route) view {
	switch r {
	case RouteDashboard:
		return newDashboardView(a)
	case RouteUsers:
		return newUsersView(a)
	case RouteSites:
		return newSitesView(a)
	case RouteRequests:
		return newRequestsView(a, a.deps.Requests, requestsAdmin)
	case RouteOutsider:
		return newRequestsView(a, a.deps.Outsider, requestsOutsider)
	case RouteMyRequests:
		return newMyRequestsView(a)
	case RouteReports:
		return newReportsView(a)
	case RouteSubmit:
		return newSubmitView(a)
	case RoutePublic:
		return newPublicView(a)
	default:
		return newLoginView(a)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if stale, ok := msg.(staleMsg); ok && stale.generation() != a.gen {
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case confirmMsg:
		a.confirm = &confirmModel{prompt: msg.prompt, action: msg.action, theme: a.theme}
		return a, nil

	case loginDoneMsg:
		role := a.deps.Auth.Role()
		a.nav = NavFor(role)
		return a, a.setRoute(landingRoute(role))

	case loggedOutMsg:
		a.nav = NavFor("")
		return a, a.setRoute(RouteLogin)

	case tea.KeyMsg:
		if a.confirm != nil {
			cmd := a.confirm.handle(msg)
			a.confirm = nil
			return a, cmd
		}
		if cmd, handled := a.globalKey(msg); handled {
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.active, cmd = a.active.Update(msg)
	return a, cmd
}

// globalKey handles bindings that belong to the shell rather than a
// view. Single-letter bindings stand down while the view is typing.
func (a *App) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, a.keys.Quit) {
		if msg.String() == "ctrl+c" || !a.isTyping() {
			return tea.Quit, true
		}
		return nil, false
	}
	if a.isTyping() {
		return nil, false
	}

	switch {
	case key.Matches(msg, a.keys.NextNav):
		return a.cycleNav(1), true
	case key.Matches(msg, a.keys.PrevNav):
		return a.cycleNav(-1), true
	case key.Matches(msg, a.keys.Logout):
		if a.deps.Auth.Current() == nil {
			return nil, true
		}
		return func() tea.Msg {
			_ = a.deps.Auth.Logout()
			return loggedOutMsg{}
		}, true
	}
	return nil, false
}

func (a *App) isTyping() bool {
	if t, ok := a.active.(typingView); ok {
		return t.typing()
	}
	return false
}

func (a *App) cycleNav(step int) tea.Cmd {
	if len(a.nav) == 0 {
		return nil
	}
	current := 0
	for i, item := range a.nav {
		if item.Route == a.route {
			current = i
			break
		}
	}
	next := (current + step + len(a.nav)) % len(a.nav)
	return a.setRoute(a.nav[next].Route)
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("KTRN Key Management"))
	b.WriteString("  ")
	b.WriteString(a.navBar())
	b.WriteString("\n\n")
	b.WriteString(a.active.View())

	if a.confirm != nil {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.confirm.View())
	}
	return b.String()
}

func (a *App) navBar() string {
	parts := make([]string, 0, len(a.nav))
	for _, item := range a.nav {
		if item.Route == a.route {
			parts = append(parts, a.theme.NavActive.Render(item.Title))
		} else {
			parts = append(parts, a.theme.NavItem.Render(item.Title))
		}
	}
	return strings.Join(parts, a.theme.Faint.Render(" · "))
}
