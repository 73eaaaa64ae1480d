package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ktrn/internal/models"
)

type loginResultMsg struct {
	gen int
	err error
}

func (m loginResultMsg) generation() int { return m.gen }

// loginView is the identifier/password screen.
type loginView struct {
	app     *App
	gen     int
	fields  [2]textinput.Model
	focus   int
	focused bool
	busy    bool
	errMsg  string
}

func newLoginView(a *App) *loginView {
	v := &loginView{app: a, gen: a.gen, focused: true}

	identifier := textinput.New()
	identifier.Placeholder = "username or email"
	identifier.Focus()
	v.fields[0] = identifier

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	v.fields[1] = password

	return v
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

// typing yields the global bindings back when the user presses esc.
func (v *loginView) typing() bool { return v.focused }

func (v *loginView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.busy = false
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
			return v, nil
		}
		return v, func() tea.Msg { return loginDoneMsg{gen: v.gen} }

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
		case "tab", "shift+tab", "down", "up":
			v.fields[v.focus].Blur()
			v.focus = (v.focus + 1) % len(v.fields)
			v.fields[v.focus].Focus()
			return v, nil
		case "enter":
			if v.busy {
				return v, nil
			}
			v.busy = true
			v.errMsg = ""
			identifier, password := v.fields[0].Value(), v.fields[1].Value()
			gen := v.gen
			return v, func() tea.Msg {
				_, err := v.app.deps.Auth.Login(context.Background(), identifier, password)
				return loginResultMsg{gen: gen, err: err}
			}
		}
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *loginView) View() string {
	theme := v.app.theme
	out := theme.Header.Render("Log in") + "\n\n"
	out += "  " + v.fields[0].View() + "\n"
	out += "  " + v.fields[1].View() + "\n\n"
	if v.busy {
		out += theme.Faint.Render("  Signing in...")
	}
	if v.errMsg != "" {
		out += theme.Error.Render("  " + v.errMsg)
	}
	out += "\n\n" + theme.Faint.Render("  Enter: sign in   Tab: next field   Esc then [ ]: other views")
	return out
}
