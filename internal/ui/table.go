package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// HeaderColor is the default header accent.
const HeaderColor = "#7c3aed"

// RenderTable builds a formatted table string using lipgloss.
// When color is false, a plain table without styling is produced. An empty
// accent uses HeaderColor for the headers.
func RenderTable(headers []string, rows [][]string, color bool, accent string) string {
	if accent == "" {
		accent = HeaderColor
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		BorderColumn(true).
		BorderHeader(true)

	if color {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent))
		cellStyle := lipgloss.NewStyle()

		t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	}

	return t.Render()
}
