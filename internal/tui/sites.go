package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/api"
	"ktrn/internal/models"
)

type sitesLoadedMsg struct {
	gen int
	err error
}

func (m sitesLoadedMsg) generation() int { return m.gen }

type siteActionMsg struct {
	gen  int
	err  error
	note string
}

func (m siteActionMsg) generation() int { return m.gen }

// sitesView is the admin site list with inline create/edit.
type sitesView struct {
	app    *App
	gen    int
	cursor int
	busy   bool
	errMsg string
	note   string

	form *siteForm
}

type siteForm struct {
	editing uint
	fields  [2]textinput.Model
	focus   int
	status  int
}

func newSitesView(a *App) *sitesView {
	return &sitesView{app: a, gen: a.gen}
}

func (v *sitesView) Init() tea.Cmd {
	v.busy = true
	gen := v.gen
	return func() tea.Msg {
		return sitesLoadedMsg{gen: gen, err: v.app.deps.Sites.Load(context.Background())}
	}
}

func (v *sitesView) typing() bool { return v.form != nil }

func (v *sitesView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case sitesLoadedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
		}
		return v, nil

	case siteActionMsg:
		v.busy = false
		v.errMsg = ""
		v.note = msg.note
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			v.note = ""
		}
		return v, nil

	case tea.KeyMsg:
		if v.form != nil {
			return v.handleFormKey(msg)
		}
		return v.handleListKey(msg)
	}
	return v, nil
}

func (v *sitesView) handleListKey(msg tea.KeyMsg) (view, tea.Cmd) {
	sites := v.app.deps.Sites.Sites()
	keys := v.app.keys

	switch {
	case key.Matches(msg, keys.Up):
		v.cursor = clampCursor(v.cursor-1, len(sites))
	case key.Matches(msg, keys.Down):
		v.cursor = clampCursor(v.cursor+1, len(sites))
	case key.Matches(msg, keys.Refresh):
		return v, v.Init()
	case key.Matches(msg, keys.New):
		v.form = newSiteForm(nil)
		return v, textinput.Blink
	case key.Matches(msg, keys.Edit):
		if v.cursor < len(sites) {
			s := sites[v.cursor]
			v.form = newSiteForm(&s)
			return v, textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if v.cursor >= len(sites) {
			return v, nil
		}
		target := sites[v.cursor]
		gen := v.gen
		return v, confirm(
			fmt.Sprintf("Delete site %s?", target.Name),
			func() tea.Msg {
				err := v.app.deps.Sites.Delete(context.Background(), target.ID)
				return siteActionMsg{gen: gen, err: err, note: "Site " + target.Name + " deleted"}
			},
		)
	}
	return v, nil
}

func newSiteForm(s *models.Site) *siteForm {
	f := &siteForm{}

	name := textinput.New()
	name.Placeholder = "name"
	name.Focus()
	location := textinput.New()
	location.Placeholder = "location"

	if s != nil {
		f.editing = s.ID
		name.SetValue(s.Name)
		location.SetValue(s.Location)
		for i, status := range models.SiteStatuses() {
			if s.Status == status {
				f.status = i
			}
		}
	}

	f.fields = [2]textinput.Model{name, location}
	return f
}

func (v *sitesView) handleFormKey(msg tea.KeyMsg) (view, tea.Cmd) {
	f := v.form

	switch msg.String() {
	case "esc":
		v.form = nil
		return v, nil
	case "tab", "down", "shift+tab", "up":
		f.fields[f.focus].Blur()
		f.focus = (f.focus + 1) % len(f.fields)
		f.fields[f.focus].Focus()
		return v, nil
	case "ctrl+r":
		f.status = (f.status + 1) % len(models.SiteStatuses())
		return v, nil
	case "enter":
		return v, v.submitForm()
	}

	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return v, cmd
}

func (v *sitesView) submitForm() tea.Cmd {
	f := v.form
	input := api.SiteInput{
		Name:     f.fields[0].Value(),
		Location: f.fields[1].Value(),
		Status:   string(models.SiteStatuses()[f.status]),
	}
	editing := f.editing
	gen := v.gen
	v.form = nil
	v.busy = true

	return func() tea.Msg {
		if editing != 0 {
			_, err := v.app.deps.Sites.Update(context.Background(), editing, input)
			return siteActionMsg{gen: gen, err: err, note: "Site " + input.Name + " updated"}
		}
		_, err := v.app.deps.Sites.Create(context.Background(), input)
		return siteActionMsg{gen: gen, err: err, note: "Site " + input.Name + " created"}
	}
}

func (v *sitesView) View() string {
	theme := v.app.theme
	if v.form != nil {
		return v.formView()
	}

	sites := v.app.deps.Sites.Sites()
	v.cursor = clampCursor(v.cursor, len(sites))

	out := theme.Header.Render("Sites") + "\n\n"
	if len(sites) == 0 {
		out += theme.Faint.Render("No sites.") + "\n"
	} else {
		rows := make([][]string, len(sites))
		for i, s := range sites {
			rows[i] = []string{fmt.Sprintf("%d", s.ID), s.Name, s.Location, string(s.Status)}
		}
		out += renderTable(theme, []string{"ID", "Name", "Location", "Status"}, rows, v.cursor)
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
	out += theme.Faint.Render("n: new  e: edit  D: delete  R: refresh")
	return out
}

func (v *sitesView) formView() string {
	theme := v.app.theme
	f := v.form

	title := "New site"
	if f.editing != 0 {
		title = "Edit site"
	}
	out := theme.Header.Render(title) + "\n\n"
	out += "  " + f.fields[0].View() + "\n"
	out += "  " + f.fields[1].View() + "\n"
	out += "\n  Status: " + theme.NavActive.Render(string(models.SiteStatuses()[f.status])) + "\n\n"
	out += theme.Faint.Render("  Enter: save   C-r: cycle status   Esc: cancel")
	return out
}
