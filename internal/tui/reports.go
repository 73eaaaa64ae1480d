package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/api"
	"ktrn/internal/models"
)

type reportLoadedMsg struct {
	gen    int
	report api.Report
	err    error
}

func (m reportLoadedMsg) generation() int { return m.gen }

type reportExportedMsg struct {
	gen  int
	path string
	err  error
}

func (m reportExportedMsg) generation() int { return m.gen }

// reportsView is the admin report: date-range inputs, summary, detail
// table, and spreadsheet export.
type reportsView struct {
	app    *App
	gen    int
	fields [2]textinput.Model // start date, end date
	focus  int
	typingF bool
	status  int // index into statusOptions()

	report api.Report
	loaded bool
	busy   bool
	errMsg string
	note   string
}

func newReportsView(a *App) *reportsView {
	start := textinput.New()
	start.Placeholder = "start YYYY-MM-DD"
	end := textinput.New()
	end.Placeholder = "end YYYY-MM-DD"
	return &reportsView{app: a, gen: a.gen, fields: [2]textinput.Model{start, end}}
}

func (v *reportsView) Init() tea.Cmd {
	return v.fetch()
}

func (v *reportsView) typing() bool { return v.typingF }

func (v *reportsView) query() api.ReportQuery {
	q := api.ReportQuery{
		StartDate: v.fields[0].Value(),
		EndDate:   v.fields[1].Value(),
	}
	if status := statusOptions()[v.status]; status != "all" {
		q.Status = status
	}
	return q
}

func (v *reportsView) fetch() tea.Cmd {
	v.busy = true
	gen := v.gen
	q := v.query()
	return func() tea.Msg {
		report, err := v.app.deps.Reports.Fetch(context.Background(), q)
		return reportLoadedMsg{gen: gen, report: report, err: err}
	}
}

func (v *reportsView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.report = msg.report
		v.loaded = true
		return v, nil

	case reportExportedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.note = "Exported to " + msg.path
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *reportsView) handleKey(msg tea.KeyMsg) (view, tea.Cmd) {
	if v.typingF {
		switch msg.String() {
		case "esc":
			v.typingF = false
			v.fields[v.focus].Blur()
		case "tab", "down", "up", "shift+tab":
			v.fields[v.focus].Blur()
			v.focus = (v.focus + 1) % len(v.fields)
			v.fields[v.focus].Focus()
		case "enter":
			v.typingF = false
			v.fields[v.focus].Blur()
			return v, v.fetch()
		default:
			var cmd tea.Cmd
			v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
			return v, cmd
		}
		return v, nil
	}

	keys := v.app.keys
	switch {
	case key.Matches(msg, keys.Search), key.Matches(msg, keys.Edit):
		v.typingF = true
		return v, v.fields[v.focus].Focus()
	case key.Matches(msg, keys.Refresh), key.Matches(msg, keys.Select):
		return v, v.fetch()
	case key.Matches(msg, keys.Export):
		if !v.loaded {
			return v, nil
		}
		v.busy = true
		gen := v.gen
		report := v.report
		return v, func() tea.Msg {
			path, err := v.app.deps.Reports.Export(report, time.Now())
			return reportExportedMsg{gen: gen, path: path, err: err}
		}
	}

	if msg.String() == "s" {
		v.status = (v.status + 1) % len(statusOptions())
		return v, v.fetch()
	}
	return v, nil
}

func (v *reportsView) View() string {
	theme := v.app.theme
	out := theme.Header.Render("Reports") + "\n\n"
	out += "  " + v.fields[0].View() + "   " + v.fields[1].View()
	out += "   status: " + theme.NavActive.Render(statusOptions()[v.status]) + "\n\n"

	if v.loaded {
		r := v.report
		out += fmt.Sprintf("  Total: %d   Approved: %d   Top site: %s (%d)   Top partner: %s (%d)\n\n",
			r.TotalRequests, r.ApprovedRequests,
			orDash(r.BestPerformingSite.SiteName), r.BestPerformingSite.TotalRequests,
			orDash(r.BestPartner.PartnerName), r.BestPartner.TotalRequests)

		if len(r.UserDetails) == 0 {
			out += theme.Faint.Render("  No matching requests.") + "\n"
		} else {
			rows := make([][]string, len(r.UserDetails))
			for i, d := range r.UserDetails {
				rows[i] = []string{d.Username, d.Email, d.SiteName, d.PartnerName, d.Status, d.RequestedTime}
			}
			out += renderTable(theme, []string{"Requester", "Email", "Site", "Partner", "Status", "Requested"}, rows, -1)
		}
	}

	out += "\n"
	if v.busy {
		out += theme.Faint.Render("Working...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render(v.errMsg) + "\n"
	}
	if v.note != "" {
		out += theme.Success.Render(v.note) + "\n"
	}
	out += theme.Faint.Render("e: edit dates  s: cycle status  Enter: run  X: export xlsx")
	return out
}
