package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ktrn/internal/api"
	"ktrn/internal/models"
	"ktrn/internal/service"
)

type dashboardLoadedMsg struct {
	gen     int
	metrics service.Metrics
	err     error
}

func (m dashboardLoadedMsg) generation() int { return m.gen }

// dashboardView renders the admin stat cards and textual bar charts.
type dashboardView struct {
	app     *App
	gen     int
	metrics service.Metrics
	busy    bool
	errMsg  string
}

func newDashboardView(a *App) *dashboardView {
	return &dashboardView{app: a, gen: a.gen}
}

func (v *dashboardView) Init() tea.Cmd {
	v.busy = true
	gen := v.gen
	return func() tea.Msg {
		metrics, err := v.app.deps.Dashboard.Fetch(context.Background())
		return dashboardLoadedMsg{gen: gen, metrics: metrics, err: err}
	}
}

func (v *dashboardView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.busy = false
		v.metrics = msg.metrics
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
		}
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.app.keys.Refresh) {
			return v, v.Init()
		}
	}
	return v, nil
}

func (v *dashboardView) View() string {
	theme := v.app.theme
	m := v.metrics

	out := theme.Header.Render("Dashboard") + "\n\n"

	cards := []string{
		theme.Card.Render(fmt.Sprintf("Total requests\n%d", m.TotalRequests)),
		theme.Card.Render(fmt.Sprintf("Approved\n%d (%.0f%%)", m.ApprovedRequests, m.ApprovalRate())),
		theme.Card.Render(fmt.Sprintf("Top site\n%s (%d)", orDash(m.BestSite.SiteName), m.BestSite.TotalRequests)),
		theme.Card.Render(fmt.Sprintf("Most active\n%s (%d)", orDash(m.MostActiveUser.Username), m.MostActiveUser.TotalRequests)),
		theme.Card.Render(fmt.Sprintf("Busiest hour\n%02d:00 (%d)", m.PopularHour.RequestHour, m.PopularHour.TotalRequests)),
	}
	out += lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n"

	out += theme.Header.Render("Requests by site") + "\n"
	out += v.siteBars(m.Distribution) + "\n"

	out += theme.Header.Render("Requests by status") + "\n"
	out += v.statusBars(m.StatusBreakdown) + "\n"

	out += theme.Header.Render("Daily trend") + "\n"
	out += v.trendBars(m.Trends) + "\n"

	if v.busy {
		out += theme.Faint.Render("Loading...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render(v.errMsg) + "\n"
	}
	out += theme.Faint.Render("R: refresh")
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (v *dashboardView) siteBars(counts []api.SiteCount) string {
	max := 0
	for _, c := range counts {
		if c.TotalRequests > max {
			max = c.TotalRequests
		}
	}
	var b strings.Builder
	for _, c := range counts {
		b.WriteString(v.bar(c.SiteName, c.TotalRequests, max))
	}
	if len(counts) == 0 {
		b.WriteString(v.app.theme.Faint.Render("  no data") + "\n")
	}
	return b.String()
}

func (v *dashboardView) statusBars(counts []api.StatusCount) string {
	max := 0
	for _, c := range counts {
		if c.TotalRequests > max {
			max = c.TotalRequests
		}
	}
	var b strings.Builder
	for _, c := range counts {
		b.WriteString(v.bar(string(c.Status), c.TotalRequests, max))
	}
	if len(counts) == 0 {
		b.WriteString(v.app.theme.Faint.Render("  no data") + "\n")
	}
	return b.String()
}

func (v *dashboardView) trendBars(points []api.TrendPoint) string {
	max := 0
	for _, p := range points {
		if p.TotalRequests > max {
			max = p.TotalRequests
		}
	}
	var b strings.Builder
	for _, p := range points {
		b.WriteString(v.bar(p.RequestDate, p.TotalRequests, max))
	}
	if len(points) == 0 {
		b.WriteString(v.app.theme.Faint.Render("  no data") + "\n")
	}
	return b.String()
}

// bar renders one labeled proportional bar, 30 cells at the maximum.
func (v *dashboardView) bar(label string, value, max int) string {
	width := 0
	if max > 0 {
		width = value * 30 / max
	}
	return fmt.Sprintf("  %-20s %s %d\n",
		label, v.app.theme.BarFilled.Render(strings.Repeat("█", width)), value)
}
