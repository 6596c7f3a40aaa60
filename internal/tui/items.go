package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inkwell-cli/internal/model"
)

type projectItem struct {
	project model.Project
	marked  bool
}

func (i projectItem) FilterValue() string {
	return strings.TrimSpace(i.project.Name)
}

type chapterItem struct {
	chapter  model.Chapter
	hasDraft bool
}

func (i chapterItem) FilterValue() string {
	return strings.TrimSpace(i.chapter.Title)
}

func (i chapterItem) Title() string {
	title := strings.TrimSpace(i.chapter.Title)
	if title == "" {
		title = "(untitled)"
	}
	t := fmt.Sprintf("%d %s %s", i.chapter.Number, glyphBullet(), title)
	if i.hasDraft {
		t += " " + glyphPen()
	}
	return t
}

func (i chapterItem) Description() string {
	parts := []string{string(i.chapter.Status), fmt.Sprintf("%d words", i.chapter.WordCount)}
	if i.chapter.ConflictCount > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", i.chapter.ConflictCount))
	}
	if goal := strings.TrimSpace(i.chapter.Goal); goal != "" {
		parts = append(parts, goal)
	}
	return strings.Join(parts, "  |  ")
}

// cardDelegate renders projects as bordered two-line cards.
type cardDelegate struct {
	normalCard   lipgloss.Style
	selectedCard lipgloss.Style

	titleStyle lipgloss.Style
	metaStyle  lipgloss.Style
}

func newProjectCardDelegate() cardDelegate {
	base := lipgloss.NewStyle().
		Width(0). // Set per-render.
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)

	selected := base.BorderForeground(colorSelectedBorder)

	return cardDelegate{
		normalCard:   base,
		selectedCard: selected,
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		metaStyle:    lipgloss.NewStyle().Foreground(colorCardMetaFg),
	}
}

func (d cardDelegate) Height() int  { return 4 } // 2 inner lines + border top/bottom
func (d cardDelegate) Spacing() int { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}
	totalW := m.Width()
	if totalW < 12 {
		fmt.Fprint(w, "")
		return
	}

	card := d.normalCard
	if index == m.Index() {
		card = d.selectedCard
	}
	frameW := card.GetHorizontalFrameSize()
	innerW := totalW - frameW
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	title := strings.TrimSpace(it.project.Name)
	if title == "" {
		title = "(unnamed project)"
	}
	if it.marked {
		title = glyphMark() + " " + title
	}

	meta := fmt.Sprintf("%s / %s  |  %d chapters  |  target %s",
		strings.TrimSpace(it.project.Genre),
		strings.TrimSpace(it.project.Style),
		it.project.ChapterCount,
		fmtWordCount(it.project.TargetLength),
	)
	if it.project.CreatedAt != nil && !it.project.CreatedAt.IsZero() {
		meta += "  |  " + it.project.CreatedAt.Format("2006-01-02")
	}

	lines := []string{
		d.titleStyle.Render(truncateToWidth(title, innerW)) + "  " + renderProjectStatus(it.project.Status),
		d.metaStyle.Render(truncateToWidth(meta, innerW)),
	}
	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}

func renderProjectStatus(s model.ProjectStatus) string {
	st := styleMuted()
	switch s {
	case model.ProjectWriting:
		st = lipgloss.NewStyle().Foreground(colorAccent)
	case model.ProjectCompleted:
		st = styleOK()
	case model.ProjectReviewing:
		st = styleWarn()
	}
	return st.Render("[" + string(s) + "]")
}

func fmtWordCount(n int) string {
	if n >= 10000 && n%1000 == 0 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return fmt.Sprintf("%d", n)
}

// newList builds a list with minimal chrome; the app renders its own header
// and footer.
func newList(items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")
	// Emacs-style navigation aliases.
	up := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(up, "ctrl+p")...)
	down := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(down, "ctrl+n")...)
	return l
}

func selectProjectByID(l *list.Model, id string) {
	for i, item := range l.Items() {
		if it, ok := item.(projectItem); ok && it.project.ID == id {
			l.Select(i)
			return
		}
	}
}

func selectChapterByID(l *list.Model, id string) {
	for i, item := range l.Items() {
		if it, ok := item.(chapterItem); ok && it.chapter.ID == id {
			l.Select(i)
			return
		}
	}
}
