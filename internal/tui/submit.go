package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/models"
)

type sitesFetchedMsg struct {
	gen   int
	sites []models.Site
	err   error
}

func (m sitesFetchedMsg) generation() int { return m.gen }

type submitDoneMsg struct {
	gen int
	err error
}

func (m submitDoneMsg) generation() int { return m.gen }

// requestedTimeLayout is the form's expected timestamp shape.
const requestedTimeLayout = "2006-01-02T15:04"

// submitView is the logged-in key request form: pick a site, state a
// reason and a time, submit.
type submitView struct {
	app     *App
	gen     int
	sites   []models.Site
	site    int
	fields  [2]textinput.Model // reason, requested time
	focus   int
	focused bool
	busy    bool
	errMsg  string
	note    string
}

func newSubmitView(a *App) *submitView {
	reason := textinput.New()
	reason.Placeholder = "reason for access"
	reason.Focus()
	when := textinput.New()
	when.Placeholder = requestedTimeLayout
	return &submitView{app: a, gen: a.gen, focused: true, fields: [2]textinput.Model{reason, when}}
}

func (v *submitView) Init() tea.Cmd {
	gen := v.gen
	return tea.Batch(textinput.Blink, func() tea.Msg {
		sites, err := v.app.deps.Submit.ActiveSites(context.Background())
		return sitesFetchedMsg{gen: gen, sites: sites, err: err}
	})
}

func (v *submitView) typing() bool { return v.focused }

func (v *submitView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case sitesFetchedMsg:
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.sites = msg.sites
		return v, nil

	case submitDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.errMsg = ""
		v.note = "Request submitted."
		v.fields[0].SetValue("")
		v.fields[1].SetValue("")
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			v.focused = false
			v.fields[v.focus].Blur()
			return v, nil
		case "i":
			if !v.focused {
				v.focused = true
				v.fields[v.focus].Focus()
				return v, nil
			}
		case "tab", "down":
			v.fields[v.focus].Blur()
			v.focus = (v.focus + 1) % len(v.fields)
			v.fields[v.focus].Focus()
			return v, nil
		case "shift+tab", "up":
			v.fields[v.focus].Blur()
			v.focus = (v.focus - 1 + len(v.fields)) % len(v.fields)
			v.fields[v.focus].Focus()
			return v, nil
		case "ctrl+s":
			if len(v.sites) > 0 {
				v.site = (v.site + 1) % len(v.sites)
			}
			return v, nil
		case "enter":
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *submitView) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	var siteID uint
	if v.site < len(v.sites) {
		siteID = v.sites[v.site].ID
	}
	when, err := time.ParseInLocation(requestedTimeLayout, v.fields[1].Value(), time.Local)
	if err != nil {
		v.errMsg = "Requested time must look like " + requestedTimeLayout
		return nil
	}

	v.busy = true
	v.errMsg = ""
	v.note = ""
	reason := v.fields[0].Value()
	gen := v.gen
	return func() tea.Msg {
		return submitDoneMsg{gen: gen, err: v.app.deps.Submit.Submit(context.Background(), siteID, reason, when)}
	}
}

func (v *submitView) View() string {
	theme := v.app.theme
	out := theme.Header.Render("Request Access") + "\n\n"

	site := "no active sites"
	if v.site < len(v.sites) {
		site = v.sites[v.site].Name
	}
	out += "  Site: " + theme.NavActive.Render(site) + theme.Faint.Render("  (C-s: cycle)") + "\n\n"
	out += "  " + v.fields[0].View() + "\n"
	out += "  " + v.fields[1].View() + "\n\n"

	if v.busy {
		out += theme.Faint.Render("  Submitting...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render("  "+v.errMsg) + "\n"
	}
	if v.note != "" {
		out += theme.Success.Render("  "+v.note) + "\n"
	}
	out += "\n" + theme.Faint.Render("  Enter: submit   Tab: next field   Esc then [ ]: other views")
	return out
}
