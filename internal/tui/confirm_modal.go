package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmState struct {
	ids   []string
	names map[string]string
	focus confirmModalFocus
}

func (c confirmState) body() string {
	if len(c.ids) == 1 {
		name := c.names[c.ids[0]]
		if name == "" {
			name = c.ids[0]
		}
		return fmt.Sprintf("Delete project %q?\nThe studio removes its chapters too. Locally saved drafts are kept. This cannot be undone.", name)
	}
	return fmt.Sprintf("Delete %d marked projects?\nChapters go with them. Locally saved drafts are kept. This cannot be undone.", len(c.ids))
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No borders on the buttons: nesting bordered components inside a modal
	// with a background color leaves artifacts on some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW - 2).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW - 2).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}
