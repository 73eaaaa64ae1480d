package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ktrn/internal/models"
)

// Theme is the console's color palette and shared styles.
type Theme struct {
	Title      lipgloss.Style
	NavActive  lipgloss.Style
	NavItem    lipgloss.Style
	Header     lipgloss.Style
	Selected   lipgloss.Style
	Faint      lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Card       lipgloss.Style
	Modal      lipgloss.Style
	BarFilled  lipgloss.Style
	StatusTint map[models.RequestStatus]lipgloss.Style
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	NavActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	NavItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Header:    lipgloss.NewStyle().Bold(true).Underline(true),
	Selected:  lipgloss.NewStyle().Reverse(true),
	Faint:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		Padding(1, 2),
	BarFilled: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	StatusTint: map[models.RequestStatus]lipgloss.Style{
		models.StatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		models.StatusApproved: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		models.StatusDenied:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		models.StatusReturned: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	},
}

// statusLabel renders a status with its tint.
func (t Theme) statusLabel(s models.RequestStatus) string {
	if style, ok := t.StatusTint[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}
