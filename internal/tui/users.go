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

type usersLoadedMsg struct {
	gen int
	err error
}

func (m usersLoadedMsg) generation() int { return m.gen }

type userActionMsg struct {
	gen  int
	err  error
	note string
}

func (m userActionMsg) generation() int { return m.gen }

type usersPollMsg struct {
	gen int
}

func (m usersPollMsg) generation() int { return m.gen }

// usersView is the admin account list. It is the one polling view:
// every poll interval it silently refetches, and navigating away kills
// the tick through the generation guard.
type usersView struct {
	app    *App
	gen    int
	cursor int
	busy   bool
	errMsg string
	note   string

	form *userForm
}

// userForm is the inline create/edit form.
type userForm struct {
	editing uint // 0 means create
	fields  [3]textinput.Model
	focus   int
	role    int
}

func newUsersView(a *App) *usersView {
	return &usersView{app: a, gen: a.gen}
}

func (v *usersView) Init() tea.Cmd {
	return tea.Batch(v.load(), v.tick())
}

func (v *usersView) typing() bool { return v.form != nil }

func (v *usersView) load() tea.Cmd {
	v.busy = true
	gen := v.gen
	return func() tea.Msg {
		return usersLoadedMsg{gen: gen, err: v.app.deps.Users.Load(context.Background())}
	}
}

func (v *usersView) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(v.app.deps.PollEvery, func(time.Time) tea.Msg {
		return usersPollMsg{gen: gen}
	})
}

func (v *usersView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		v.busy = false
		v.errMsg = ""
		if msg.err != nil {
			v.errMsg = models.UserMessage(msg.err)
		}
		return v, nil

	case usersPollMsg:
		return v, tea.Batch(v.load(), v.tick())

	case userActionMsg:
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

func (v *usersView) handleListKey(msg tea.KeyMsg) (view, tea.Cmd) {
	users := v.app.deps.Users.Users()
	keys := v.app.keys

	switch {
	case key.Matches(msg, keys.Up):
		v.cursor = clampCursor(v.cursor-1, len(users))
	case key.Matches(msg, keys.Down):
		v.cursor = clampCursor(v.cursor+1, len(users))
	case key.Matches(msg, keys.Refresh):
		return v, v.load()
	case key.Matches(msg, keys.New):
		v.form = newUserForm(nil)
		return v, textinput.Blink
	case key.Matches(msg, keys.Edit):
		if v.cursor < len(users) {
			u := users[v.cursor]
			v.form = newUserForm(&u)
			return v, textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if v.cursor >= len(users) {
			return v, nil
		}
		target := users[v.cursor]
		gen := v.gen
		return v, confirm(
			fmt.Sprintf("Delete user %s?", target.Username),
			func() tea.Msg {
				err := v.app.deps.Users.Delete(context.Background(), target.ID)
				return userActionMsg{gen: gen, err: err, note: "User " + target.Username + " deleted"}
			},
		)
	}
	return v, nil
}

func newUserForm(u *models.User) *userForm {
	f := &userForm{}

	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	email := textinput.New()
	email.Placeholder = "email"
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	if u != nil {
		f.editing = u.ID
		username.SetValue(u.Username)
		email.SetValue(u.Email)
		for i, role := range models.Roles() {
			if models.ParseRole(u.Role) == role {
				f.role = i
			}
		}
	}

	f.fields = [3]textinput.Model{username, email, password}
	return f
}

func (v *usersView) handleFormKey(msg tea.KeyMsg) (view, tea.Cmd) {
	f := v.form
	fieldCount := 3
	if f.editing != 0 {
		fieldCount = 2 // password never edited here
	}

	switch msg.String() {
	case "esc":
		v.form = nil
		return v, nil
	case "tab", "down":
		f.fields[f.focus].Blur()
		f.focus = (f.focus + 1) % fieldCount
		f.fields[f.focus].Focus()
		return v, nil
	case "shift+tab", "up":
		f.fields[f.focus].Blur()
		f.focus = (f.focus - 1 + fieldCount) % fieldCount
		f.fields[f.focus].Focus()
		return v, nil
	case "ctrl+r":
		f.role = (f.role + 1) % len(models.Roles())
		return v, nil
	case "enter":
		return v, v.submitForm()
	}

	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return v, cmd
}

func (v *usersView) submitForm() tea.Cmd {
	f := v.form
	role := string(models.Roles()[f.role])
	gen := v.gen
	username, email, password := f.fields[0].Value(), f.fields[1].Value(), f.fields[2].Value()
	editing := f.editing
	v.form = nil
	v.busy = true

	return func() tea.Msg {
		if editing != 0 {
			_, err := v.app.deps.Users.Update(context.Background(), editing, api.UpdateUserInput{
				Username: username,
				Email:    email,
				Role:     role,
			})
			return userActionMsg{gen: gen, err: err, note: "User " + username + " updated"}
		}
		_, err := v.app.deps.Users.Create(context.Background(), api.CreateUserInput{
			Username: username,
			Email:    email,
			Password: password,
			Role:     role,
		})
		return userActionMsg{gen: gen, err: err, note: "User " + username + " created"}
	}
}

func (v *usersView) View() string {
	theme := v.app.theme
	if v.form != nil {
		return v.formView()
	}

	users := v.app.deps.Users.Users()
	v.cursor = clampCursor(v.cursor, len(users))

	out := theme.Header.Render("Users") + "\n\n"
	if len(users) == 0 {
		out += theme.Faint.Render("No accounts.") + "\n"
	} else {
		rows := make([][]string, len(users))
		for i, u := range users {
			rows[i] = []string{fmt.Sprintf("%d", u.ID), u.Username, u.Email, u.Role}
		}
		out += renderTable(theme, []string{"ID", "Username", "Email", "Role"}, rows, v.cursor)
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

func (v *usersView) formView() string {
	theme := v.app.theme
	f := v.form

	title := "New user"
	if f.editing != 0 {
		title = "Edit user"
	}
	out := theme.Header.Render(title) + "\n\n"
	out += "  " + f.fields[0].View() + "\n"
	out += "  " + f.fields[1].View() + "\n"
	if f.editing == 0 {
		out += "  " + f.fields[2].View() + "\n"
	}
	out += "\n  Role: " + theme.NavActive.Render(string(models.Roles()[f.role])) + "\n\n"
	out += theme.Faint.Render("  Enter: save   C-r: cycle role   Esc: cancel")
	return out
}
