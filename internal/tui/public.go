package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/models"
	"ktrn/internal/validation"
)

type publicSubmitMsg struct {
	gen     int
	message string
	err     error
}

func (m publicSubmitMsg) generation() int { return m.gen }

// publicView is the anonymous request form. Input is persisted as a
// draft on every change so a closed terminal loses nothing; the draft
// clears only once the backend accepts the submission.
type publicView struct {
	app     *App
	gen     int
	sites   []models.Site
	site    int
	partner int
	fields  [5]textinput.Model // name, email, phone, reason, requested time
	focus   int
	focused bool
	busy    bool
	errMsg  string
	note    string
}

var publicFieldNames = [5]string{"name", "email", "phone (+250... or 07...)", "reason", requestedTimeLayout}

func newPublicView(a *App) *publicView {
	v := &publicView{app: a, gen: a.gen, focused: true}
	for i := range v.fields {
		v.fields[i] = textinput.New()
		v.fields[i].Placeholder = publicFieldNames[i]
	}
	v.fields[0].Focus()

	draft := a.deps.Public.Draft()
	v.fields[0].SetValue(draft.Name)
	v.fields[1].SetValue(draft.Email)
	v.fields[2].SetValue(draft.Phone)
	v.fields[3].SetValue(draft.Reason)
	v.fields[4].SetValue(draft.RequestedTime)
	for i, name := range validation.Partners() {
		if name == draft.PartnerName {
			v.partner = i
		}
	}
	return v
}

func (v *publicView) Init() tea.Cmd {
	gen := v.gen
	return tea.Batch(textinput.Blink, func() tea.Msg {
		sites, err := v.app.deps.Public.ActiveSites(context.Background())
		return sitesFetchedMsg{gen: gen, sites: sites, err: err}
	})
}

func (v *publicView) typing() bool { return v.focused }

func (v *publicView) draft() models.RequestDraft {
	var siteID uint
	if v.site < len(v.sites) {
		siteID = v.sites[v.site].ID
	}
	return models.RequestDraft{
		Name:          v.fields[0].Value(),
		Email:         v.fields[1].Value(),
		Phone:         v.fields[2].Value(),
		PartnerName:   validation.Partners()[v.partner],
		SiteID:        siteID,
		Reason:        v.fields[3].Value(),
		RequestedTime: v.fields[4].Value(),
	}
}

func (v *publicView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case sitesFetchedMsg:
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.sites = msg.sites
		// Restore the drafted site selection now that choices exist.
		if draft := v.app.deps.Public.Draft(); draft.SiteID != 0 {
			for i, site := range v.sites {
				if site.ID == draft.SiteID {
					v.site = i
				}
			}
		}
		return v, nil

	case publicSubmitMsg:
		v.busy = false
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		v.errMsg = ""
		v.note = msg.message
		for i := range v.fields {
			v.fields[i].SetValue("")
		}
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
				_ = v.app.deps.Public.SaveDraft(v.draft())
			}
			return v, nil
		case "ctrl+p":
			v.partner = (v.partner + 1) % len(validation.Partners())
			_ = v.app.deps.Public.SaveDraft(v.draft())
			return v, nil
		case "enter":
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	before := v.fields[v.focus].Value()
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	if v.fields[v.focus].Value() != before {
		_ = v.app.deps.Public.SaveDraft(v.draft())
	}
	return v, cmd
}

func (v *publicView) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	draft := v.draft()
	if err := v.app.deps.Public.Validate(draft); err != nil {
		v.errMsg = models.UserMessage(err)
		return nil
	}

	v.busy = true
	v.errMsg = ""
	v.note = ""
	gen := v.gen
	return func() tea.Msg {
		message, err := v.app.deps.Public.Submit(context.Background(), draft)
		return publicSubmitMsg{gen: gen, message: message, err: err}
	}
}

func (v *publicView) View() string {
	theme := v.app.theme
	out := theme.Header.Render("Request a Key") + "\n\n"

	site := "no active sites"
	if v.site < len(v.sites) {
		site = v.sites[v.site].Name
	}
	out += "  Partner: " + theme.NavActive.Render(validation.Partners()[v.partner]) + theme.Faint.Render("  (C-p)")
	out += "   Site: " + theme.NavActive.Render(site) + theme.Faint.Render("  (C-s)") + "\n\n"

	for i := range v.fields {
		out += "  " + v.fields[i].View() + "\n"
	}
	out += "\n"

	if v.busy {
		out += theme.Faint.Render("  Submitting...") + "\n"
	}
	if v.errMsg != "" {
		out += theme.Error.Render("  "+v.errMsg) + "\n"
	}
	if v.note != "" {
		out += theme.Success.Render("  "+v.note) + "\n"
	}
	out += "\n" + theme.Faint.Render("  Enter: submit   Tab: next field   Esc then [ ]: other views   (your draft is saved as you type)")
	return out
}
