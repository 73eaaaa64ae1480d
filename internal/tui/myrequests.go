package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/models"
	"ktrn/internal/service"
)

// myRequestsView is the logged-in user's read-only request history.
type myRequestsView struct {
	app    *App
	gen    int
	svc    *service.RequestService
	cursor int
	busy   bool
	errMsg string
}

func newMyRequestsView(a *App) *myRequestsView {
	var svc *service.RequestService
	if sess := a.deps.Auth.Current(); sess != nil {
		svc = a.deps.MyRequests(sess.UserID)
	} else {
		svc = a.deps.MyRequests(0)
	}
	return &myRequestsView{app: a, gen: a.gen, svc: svc}
}

func (v *myRequestsView) Init() tea.Cmd {
	v.busy = true
	gen := v.gen
	return func() tea.Msg {
		return requestsLoadedMsg{gen: gen, err: v.svc.Load(context.Background())}
	}
}

func (v *myRequestsView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
		}
		return v, nil

	case tea.KeyMsg:
		records := v.svc.Records()
		switch {
		case key.Matches(msg, v.app.keys.Up):
			v.cursor = clampCursor(v.cursor-1, len(records))
		case key.Matches(msg, v.app.keys.Down):
			v.cursor = clampCursor(v.cursor+1, len(records))
		case key.Matches(msg, v.app.keys.Refresh):
			return v, v.Init()
		}
	}
	return v, nil
}

func (v *myRequestsView) View() string {
	theme := v.app.theme
	records := v.svc.Records()
	v.cursor = clampCursor(v.cursor, len(records))

	out := theme.Header.Render("My Requests") + "\n\n"
	if len(records) == 0 {
		out += theme.Faint.Render("No requests yet.") + "\n"
	} else {
		rows := make([][]string, len(records))
		for i, r := range records {
			when := ""
			if !r.RequestedTime.IsZero() {
				when = r.RequestedTime.Format("2006-01-02 15:04")
			}
			rows[i] = []string{
				fmt.Sprintf("%d", r.ID),
				r.SiteName,
				r.Reason,
				when,
				theme.statusLabel(r.Status),
			}
		}
		out += renderTable(theme, []string{"ID", "Site", "Reason", "Requested", "Status"}, rows, v.cursor)
	}

	out += "\n"
	if v.busy {
		out += theme.Faint.Render("Loading...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render(v.errMsg) + "\n"
	}
	out += theme.Faint.Render("R: refresh")
	return out
}
