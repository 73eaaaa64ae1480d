package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTable renders headers and rows as fixed-width columns, with the
// selected row (when >= 0) highlighted.
func renderTable(theme Theme, headers []string, rows [][]string, selected int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(theme.Header.Render(joinCells(headers, widths)))
	b.WriteString("\n")
	for i, row := range rows {
		line := joinCells(row, widths)
		if i == selected {
			line = theme.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := lipgloss.Width(cell)
		pad := 0
		if i < len(widths) {
			pad = widths[i] - width
		}
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.Join(parts, "  ")
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
