package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines. Split layouts built with lipgloss.JoinHorizontal jitter unless both
// panes are pre-shaped like this.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// fitLine clips or pads one line to exactly width columns.
func fitLine(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// StringWidth on very long lines is slow; a raw string this long is
	// certainly wider than any pane, so cut early to bound the cost.
	if len(ln) > 8192 {
		ln = clipLine(ln, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		ln = clipLine(ln, width)
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

func clipLine(ln string, width int) string {
	if width <= 1 {
		return xansi.Cut(ln, 0, width)
	}
	return xansi.Cut(ln, 0, width-1) + "…"
}

// truncateToWidth clips s to at most w columns, ellipsizing when clipped.
func truncateToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	return clipLine(s, w)
}
