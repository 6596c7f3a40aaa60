package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// modalBodyWidth is the usable content width inside a modal box for a given
// terminal width.
func modalBodyWidth(termWidth int) int {
	w := termWidth - 12
	if w > 76 {
		w = 76
	}
	if w < 24 {
		w = 24
	}
	return w
}

// renderModalBox draws a titled box sized for the current terminal width.
// Borders are kept to the outer box only: nesting bordered components inside
// a modal with a background color leaves artifacts on some terminals.
func renderModalBox(termWidth int, title, content string) string {
	bodyW := modalBodyWidth(termWidth)

	header := lipgloss.NewStyle().
		Bold(true).
		Width(bodyW).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Padding(0, 1).
		Render(truncateToWidth(title, bodyW-2))

	body := lipgloss.NewStyle().
		Width(bodyW).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Render(content)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Render(strings.Join([]string{header, body}, "\n"))
	return box
}

// placeCentered centers s on the full screen; when s fills the screen Place
// naturally has no padding.
func placeCentered(termWidth, termHeight int, s string) string {
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, s)
}
