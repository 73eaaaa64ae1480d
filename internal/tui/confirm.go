package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is the uniform confirmation modal every destructive
// action goes through. y or enter runs the pending action; anything
// else dismisses it.
type confirmModel struct {
	prompt string
	action tea.Cmd
	theme  Theme
}

func (c *confirmModel) handle(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return c.action
	}
	return nil
}

func (c *confirmModel) View() string {
	return c.theme.Modal.Render(c.prompt + "\n\n" + c.theme.Faint.Render("y: confirm   any other key: cancel"))
}

// confirm builds the command a view returns to request confirmation.
func confirm(prompt string, action tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return confirmMsg{prompt: prompt, action: action}
	}
}
