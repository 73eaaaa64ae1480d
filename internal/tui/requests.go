package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/filter"
	"ktrn/internal/models"
	"ktrn/internal/service"
)

type requestsMode int

const (
	requestsAdmin requestsMode = iota
	requestsOutsider
)

type requestsLoadedMsg struct {
	gen int
	err error
}

func (m requestsLoadedMsg) generation() int { return m.gen }

type requestActionMsg struct {
	gen  int
	err  error
	note string
}

func (m requestActionMsg) generation() int { return m.gen }

// requestsView is the admin request list: either the full collection or
// the outsider submissions, same actions on both. The outsider list
// carries no filter bar and no delete.
type requestsView struct {
	app  *App
	gen  int
	mode requestsMode
	svc  *service.RequestService

	filters filter.Filters
	search  textinput.Model
	typingF bool

	cursor int
	busy   bool
	errMsg string
	note   string
}

func newRequestsView(a *App, svc *service.RequestService, mode requestsMode) *requestsView {
	search := textinput.New()
	search.Placeholder = "search"
	return &requestsView{
		app:     a,
		gen:     a.gen,
		mode:    mode,
		svc:     svc,
		filters: filter.None(),
		search:  search,
	}
}

func (v *requestsView) Init() tea.Cmd {
	return v.load()
}

func (v *requestsView) typing() bool { return v.typingF }

func (v *requestsView) load() tea.Cmd {
	v.busy = true
	gen := v.gen
	return func() tea.Msg {
		return requestsLoadedMsg{gen: gen, err: v.svc.Load(context.Background())}
	}
}

func (v *requestsView) visible() []models.KeyRequest {
	if v.mode == requestsOutsider {
		return v.svc.Records()
	}
	return v.svc.Filtered(v.filters, time.Now())
}

func (v *requestsView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
		}
		return v, nil

	case requestActionMsg:
		v.busy = false
		v.errMsg = ""
		v.note = msg.note
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			v.note = ""
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *requestsView) handleKey(msg tea.KeyMsg) (view, tea.Cmd) {
	if v.typingF {
		switch msg.String() {
		case "enter":
			v.typingF = false
			v.search.Blur()
		case "esc":
			v.typingF = false
			v.search.Blur()
			v.search.SetValue("")
			v.filters.Search = ""
		default:
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			v.filters.Search = v.search.Value()
			v.cursor = 0
			return v, cmd
		}
		return v, nil
	}

	records := v.visible()
	keys := v.app.keys

	switch {
	case key.Matches(msg, keys.Up):
		v.cursor = clampCursor(v.cursor-1, len(records))
	case key.Matches(msg, keys.Down):
		v.cursor = clampCursor(v.cursor+1, len(records))
	case key.Matches(msg, keys.Refresh):
		return v, v.load()
	case key.Matches(msg, keys.Search):
		if v.mode == requestsAdmin {
			v.typingF = true
			return v, v.search.Focus()
		}
	case key.Matches(msg, keys.Approve):
		return v, v.transition(records, models.StatusApproved)
	case key.Matches(msg, keys.Deny):
		return v, v.transition(records, models.StatusDenied)
	case key.Matches(msg, keys.Return):
		return v, v.transition(records, models.StatusReturned)
	case key.Matches(msg, keys.Delete):
		if v.mode != requestsAdmin || v.cursor >= len(records) {
			return v, nil
		}
		target := records[v.cursor]
		gen := v.gen
		return v, confirm(
			fmt.Sprintf("Delete request #%d from %s?", target.ID, target.Username),
			func() tea.Msg {
				err := v.svc.Delete(context.Background(), target.ID)
				return requestActionMsg{gen: gen, err: err, note: fmt.Sprintf("Request #%d deleted", target.ID)}
			},
		)
	}

	if v.mode == requestsAdmin {
		switch msg.String() {
		case "s":
			v.filters.Status = cycle(v.filters.Status, statusOptions())
			v.cursor = 0
		case "t":
			v.filters.DateRange = cycle(v.filters.DateRange, []string{filter.RangeAll, filter.RangeToday, filter.RangeWeek, filter.RangeMonth})
			v.cursor = 0
		case "S":
			options := append([]string{filter.All}, filter.Sites(v.svc.Records())...)
			v.filters.Site = cycle(v.filters.Site, options)
			v.cursor = 0
		}
	}
	return v, nil
}

func (v *requestsView) transition(records []models.KeyRequest, next models.RequestStatus) tea.Cmd {
	if v.cursor >= len(records) {
		return nil
	}
	target := records[v.cursor]
	gen := v.gen
	return func() tea.Msg {
		err := v.svc.UpdateStatus(context.Background(), target.ID, next)
		return requestActionMsg{gen: gen, err: err, note: fmt.Sprintf("Request #%d %s", target.ID, next)}
	}
}

func statusOptions() []string {
	return []string{
		filter.All,
		string(models.StatusPending),
		string(models.StatusApproved),
		string(models.StatusDenied),
		string(models.StatusReturned),
	}
}

// cycle advances value to the next option, wrapping.
func cycle(value string, options []string) string {
	for i, opt := range options {
		if opt == value {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) == 0 {
		return value
	}
	return options[0]
}

func (v *requestsView) View() string {
	theme := v.app.theme
	records := v.visible()
	v.cursor = clampCursor(v.cursor, len(records))

	title := "Requests"
	if v.mode == requestsOutsider {
		title = "Outsider Requests"
	}
	out := theme.Header.Render(title) + "\n"

	if v.mode == requestsAdmin {
		out += theme.Faint.Render(fmt.Sprintf(
			"status:%s  range:%s  site:%s  ", v.filters.Status, v.filters.DateRange, v.filters.Site))
		if v.typingF || v.search.Value() != "" {
			out += "/" + v.search.View()
		}
		out += "\n"
	}
	out += "\n"

	if len(records) == 0 {
		out += theme.Faint.Render("No requests match.") + "\n"
	} else {
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{
				fmt.Sprintf("%d", r.ID),
				r.Username,
				r.SiteName,
				r.Reason,
				v.app.theme.statusLabel(r.Status),
			}
		}
		out += renderTable(theme, []string{"ID", "Requester", "Site", "Reason", "Status"}, rows, v.cursor)
	}

	out += "\n"
	if v.busy {
		out += theme.Faint.Render("Loading...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render(v.errMsg) + "\n"
	}
	if v.note != "" {
		out += theme.Success.Render(v.note) + "\n"
	}

	help := "a: approve  x: deny  r: returned  R: refresh"
	if v.mode == requestsAdmin {
		help += "  D: delete  /: search  s/t/S: filters"
	}
	out += theme.Faint.Render(help)
	return out
}
