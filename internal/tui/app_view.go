package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"inkwell-cli/internal/model"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Loading " + glyphPending()
	}

	switch m.modal {
	case modalCreate:
		return placeCentered(m.width, m.height, m.form.view(m.width, m.templates))
	case modalConfirmDelete:
		title := "Delete project"
		if len(m.confirm.ids) > 1 {
			title = fmt.Sprintf("Delete %d projects", len(m.confirm.ids))
		}
		return placeCentered(m.width, m.height,
			renderConfirmModal(m.width, title, m.confirm.body(), "Delete", "Cancel", m.confirm.focus))
	}
	if m.uiMode.ShortcutHelp() {
		return placeCentered(m.width, m.height, m.renderHelpOverlay())
	}
	if m.activity.Visible() {
		return placeCentered(m.width, m.height, m.renderActivityOverlay())
	}

	parts := []string{
		m.renderHeader(),
		m.renderStaleNotice(),
		m.renderBody(),
		m.renderFooter(),
	}
	return strings.Join(parts, "\n")
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Inkwell")

	crumb := m.view.String()
	switch m.view {
	case viewProject:
		crumb = m.selectedProjectName
	case viewEditor:
		crumb = m.selectedProjectName + " " + glyphArrow() + " " + m.editor.chapterTitle
		if m.uiMode.ReadingMode() {
			crumb += "  (reading)"
		}
	case viewMetrics:
		if m.metricsScope != "" {
			crumb = m.selectedProjectName + " / metrics"
		} else {
			crumb = "workspace metrics"
		}
	}

	right := ""
	if m.cache.Loading() || m.metricsBusy {
		right = m.loadSpinner.View() + " "
	}
	right += styleMuted().Render(m.studio.BaseURL())

	left := title + "  " + lipgloss.NewStyle().Foreground(colorChromeFg).Render(crumb)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncateToWidth(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderStaleNotice surfaces a parked fetch error for whatever the current
// view shows. The cached data underneath stays on screen.
func (m appModel) renderStaleNotice() string {
	var errMsg string
	switch m.view {
	case viewProjects:
		errMsg = m.cache.ProjectsError()
	case viewProject, viewEditor:
		if errMsg = m.cache.ProjectError(); errMsg == "" {
			errMsg = m.cache.ChaptersError()
		}
	case viewMetrics:
		errMsg = m.metricsErr
	}
	if errMsg == "" {
		return ""
	}
	return styleWarn().Render(truncateToWidth(glyphCross()+" showing cached data: "+errMsg, m.width))
}

func (m appModel) renderBody() string {
	main := normalizePane(m.renderMain(), m.bodyWidth(), m.bodyHeight())
	if !m.sidebarVisible() {
		return main
	}
	sidebar := normalizePane(m.renderSidebar(), m.sidebarWidth(), m.bodyHeight())
	divider := normalizePane("", 1, m.bodyHeight())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, main)
}

func (m appModel) renderMain() string {
	switch m.view {
	case viewProjects:
		if len(m.projectsList.Items()) == 0 {
			if m.cache.Loading() {
				return styleMuted().Render("Loading projects " + glyphPending())
			}
			return styleMuted().Render("No projects yet. Press n to start one.")
		}
		return m.projectsList.View()
	case viewProject:
		return m.renderProjectSplit()
	case viewEditor:
		return m.renderEditor()
	case viewMetrics:
		return m.renderMetrics()
	}
	return ""
}

func (m appModel) renderProjectSplit() string {
	h := m.bodyHeight()
	leftW := m.bodyWidth() / 2
	if leftW < 30 {
		leftW = 30
	}
	rightW := m.bodyWidth() - leftW - 1
	if rightW < 24 {
		rightW = 24
	}

	left := m.chaptersList.View()
	if len(m.chaptersList.Items()) == 0 {
		if m.cache.Loading() {
			left = styleMuted().Render("Loading chapters " + glyphPending())
		} else {
			left = styleMuted().Render("No chapters yet.")
		}
	}

	right := m.renderProjectDetail(rightW)
	divider := normalizePane("", 1, h)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, leftW, h),
		divider,
		normalizePane(right, rightW, h),
	)
}

func (m appModel) renderProjectDetail(width int) string {
	d := m.cache.Current()
	if d == nil || d.ID != m.selectedProjectID {
		return styleMuted().Render("Loading project " + glyphPending())
	}

	label := lipgloss.NewStyle().Foreground(colorChromeFg)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncateToWidth(d.Name, width)) + "  " + renderProjectStatus(d.Status) + "\n\n")
	b.WriteString(label.Render("genre   ") + d.Genre + "\n")
	b.WriteString(label.Render("style   ") + d.Style + "\n")
	b.WriteString(label.Render("target  ") + fmtWordCount(d.TargetLength) + " words\n")
	b.WriteString(label.Render("size    ") + fmt.Sprintf("%d chapters, %d entities, %d events\n",
		d.ChapterCount, d.EntityCount, d.EventCount))
	if d.UpdatedAt != nil && !d.UpdatedAt.IsZero() {
		b.WriteString(label.Render("updated ") + timeAgo(d.UpdatedAt.Time) + "\n")
	}
	if len(d.TabooConstraints) > 0 {
		b.WriteString("\n" + label.Render("taboos") + "\n")
		for _, t := range d.TabooConstraints {
			b.WriteString("  " + glyphBullet() + " " + truncateToWidth(t, width-4) + "\n")
		}
	}

	if it, ok := m.chaptersList.SelectedItem().(chapterItem); ok {
		ch := it.chapter
		b.WriteString("\n" + strings.Repeat(glyphHRule(), min(width, 24)) + "\n")
		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(truncateToWidth(fmt.Sprintf("Chapter %d %s %s", ch.Number, glyphBullet(), title), width)) + "\n")
		b.WriteString(label.Render("status  ") + string(ch.Status) + "\n")
		b.WriteString(label.Render("words   ") + fmt.Sprintf("%d", ch.WordCount) + "\n")
		if ch.ConflictCount > 0 {
			b.WriteString(label.Render("issues  ") + styleWarn().Render(fmt.Sprintf("%d conflicts", ch.ConflictCount)) + "\n")
		}
		if goal := strings.TrimSpace(ch.Goal); goal != "" {
			b.WriteString(label.Render("goal    ") + truncateToWidth(goal, width-8) + "\n")
		}
		if m.draftChapters[ch.ID] {
			b.WriteString(label.Render("draft   ") + glyphPen() + " local draft, enter to edit\n")
		}
	}
	return b.String()
}

func (m appModel) renderEditor() string {
	if m.uiMode.ReadingMode() {
		return m.renderReading()
	}

	status := m.renderDraftStatus()
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(truncateToWidth(m.editor.chapterTitle, m.bodyWidth())),
		m.editor.area.View(),
		status,
	}, "\n")
}

// renderReading shows the draft as rendered markdown, full width, scrolled
// by readOffset.
func (m appModel) renderReading() string {
	content := m.editor.area.Value()
	if strings.TrimSpace(content) == "" {
		return styleMuted().Render("Nothing to read yet.")
	}
	width := m.bodyWidth() - 2
	if width > 100 {
		width = 100
	}
	rendered := renderMarkdown(content, width)
	lines := strings.Split(rendered, "\n")

	h := m.bodyHeight() - 1
	maxOffset := len(lines) - h
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := m.editor.readOffset
	if offset > maxOffset {
		offset = maxOffset
	}
	end := offset + h
	if end > len(lines) {
		end = len(lines)
	}

	pos := ""
	if maxOffset > 0 {
		pos = styleMuted().Render(fmt.Sprintf(" %d/%d", offset+1, maxOffset+1))
	}
	return strings.Join(lines[offset:end], "\n") + "\n" + pos
}

func (m appModel) renderDraftStatus() string {
	saver := m.editor.saver
	if saver == nil {
		return ""
	}
	content := m.editor.area.Value()
	draft := saver.Draft()
	switch {
	case strings.TrimSpace(content) == "" && draft == nil:
		return styleMuted().Render("empty drafts are not kept")
	case draft != nil && draft.Content == content:
		return styleMuted().Render(glyphCheck() + " saved " + draft.SavedAt.Format("15:04:05"))
	default:
		return styleMuted().Render(glyphPending() + " unsaved changes, autosave pending (ctrl+s saves now)")
	}
}

func (m appModel) renderMetrics() string {
	if m.metricsBusy && m.metrics == nil {
		return styleMuted().Render("Loading metrics " + glyphPending())
	}
	if m.metrics == nil {
		if m.metricsErr != "" {
			return styleError().Render("Metrics unavailable: " + m.metricsErr)
		}
		return styleMuted().Render("No metrics yet.")
	}

	mt := m.metrics
	width := m.bodyWidth()
	barW := width - 34
	if barW > 40 {
		barW = 40
	}
	if barW < 10 {
		barW = 10
	}
	m.metricsBar.Width = barW

	label := lipgloss.NewStyle().Foreground(colorChromeFg).Width(18)
	row := func(name string, ratio float64) string {
		return label.Render(name) + m.metricsBar.ViewAs(ratio) + fmt.Sprintf(" %5.1f%%", ratio*100)
	}

	var b strings.Builder
	b.WriteString(styleMuted().Render(fmt.Sprintf("sample: %d chapters", mt.SampleSize)) + "\n\n")
	b.WriteString(row("first-pass rate", mt.FirstPassRate) + "\n")
	b.WriteString(row("p0 ratio", mt.P0Ratio) + "\n")
	b.WriteString(row("recall hit rate", mt.RecallHitRate) + "\n")
	b.WriteString(row("exemption rate", mt.ExemptionRate) + "\n\n")
	b.WriteString(label.Render("generation time") + fmt.Sprintf("%.1fs avg", mt.ChapterGenerationTime) + "\n")
	b.WriteString(label.Render("search time") + fmt.Sprintf("%.0fms avg", mt.SearchTime*1000) + "\n")
	b.WriteString(label.Render("conflicts/chapter") + fmt.Sprintf("%.2f", mt.ConflictsPerChapter) + "\n")
	b.WriteString(label.Render("chapters with p0") + fmt.Sprintf("%d", mt.ChaptersWithP0) + "\n")

	writeProblemChapters := func(title string, chapters []model.ChapterQuality) {
		if len(chapters) == 0 {
			return
		}
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(title) + "\n")
		limit := len(chapters)
		if limit > 4 {
			limit = 4
		}
		for _, ch := range chapters[:limit] {
			line := fmt.Sprintf("  %s ch.%d %s", glyphBullet(), ch.ChapterNumber, ch.ChapterTitle)
			if m.metricsScope == "" {
				line += "  (" + ch.ProjectName + ")"
			}
			b.WriteString(truncateToWidth(line, width) + "\n")
		}
		if len(chapters) > limit {
			b.WriteString(styleMuted().Render(fmt.Sprintf("  +%d more", len(chapters)-limit)) + "\n")
		}
	}
	writeProblemChapters("Unresolved P0 conflicts", mt.QualityDetails.P0ConflictChapters)
	writeProblemChapters("Failed first pass", mt.QualityDetails.FirstPassFailedChapters)
	writeProblemChapters("Missed memory recalls", mt.QualityDetails.RecallMissedChapters)

	return b.String()
}

func (m appModel) renderSidebar() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorChromeFg)
	w := m.sidebarWidth()

	var b strings.Builder
	b.WriteString(title.Render("Recent") + "\n")
	items := m.recents.Items()
	if len(items) == 0 {
		b.WriteString(styleMuted().Render("nothing yet") + "\n")
	}
	for _, it := range items {
		glyph := glyphBullet()
		if it.Kind == model.RecentChapter {
			glyph = glyphPen()
		}
		b.WriteString(truncateToWidth(glyph+" "+it.Name, w) + "\n")
		b.WriteString(styleMuted().Render(truncateToWidth("  "+timeAgo(it.Timestamp), w)) + "\n")
	}

	b.WriteString("\n" + strings.Repeat(glyphHRule(), w) + "\n")
	if n := len(m.activity.Records()); n > 0 {
		b.WriteString(styleMuted().Render(fmt.Sprintf("a: activity (%d)", n)) + "\n")
	} else {
		b.WriteString(styleMuted().Render("a: activity") + "\n")
	}
	b.WriteString(styleMuted().Render("b: hide sidebar") + "\n")
	b.WriteString(styleMuted().Render("?: shortcuts") + "\n")
	return b.String()
}

func (m appModel) renderFooter() string {
	var hints string
	switch {
	case m.view == viewProjects:
		hints = "enter: open  n: new  space: mark  x: delete  r: refresh  m: metrics  q: quit"
	case m.view == viewProject:
		hints = "enter: draft  N: notes  m: metrics  r: refresh  esc: back  q: quit"
	case m.view == viewEditor && m.uiMode.ReadingMode():
		hints = "j/k: scroll  esc: stop reading"
	case m.view == viewEditor:
		hints = "ctrl+s: save  ctrl+r: read  ctrl+x: discard  esc: close"
	case m.view == viewMetrics:
		hints = "r: refresh  esc: back  q: quit"
	}

	line := styleMuted().Render(truncateToWidth(hints, m.width))
	toast := ""
	if m.toastText != "" {
		st := lipgloss.NewStyle().Foreground(colorAccent)
		if m.toastErr {
			st = styleError()
		}
		toast = st.Render(truncateToWidth(m.toastText, m.width))
	}
	return line + "\n" + toast
}

func (m appModel) renderActivityOverlay() string {
	records := m.activity.Records()
	bodyW := modalBodyWidth(m.width)

	var b strings.Builder
	if len(records) == 0 {
		b.WriteString(styleMuted().Render("No operations recorded yet.") + "\n")
	}
	maxRows := m.height - 10
	if maxRows < 5 {
		maxRows = 5
	}
	// Keep the cursor in the visible window.
	start := 0
	if m.activityCursor >= maxRows {
		start = m.activityCursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(records) {
		end = len(records)
	}
	for i := start; i < end; i++ {
		rec := records[i]
		var mark string
		switch rec.Status {
		case model.ActivitySuccess:
			mark = styleOK().Render(glyphCheck())
		case model.ActivityError:
			mark = styleError().Render(glyphCross())
		default:
			mark = styleMuted().Render(glyphPending())
		}
		line := fmt.Sprintf("%s %s  %s", mark, styleMuted().Render(timeAgo(rec.Timestamp)), rec.Description)
		if rec.Retry != nil {
			line += styleMuted().Render("  (r retries)")
		}
		line = truncateToWidth(line, bodyW-2)
		if i == m.activityCursor {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Width(bodyW - 2).
				Render(line)
		}
		b.WriteString(line + "\n")
	}
	if end < len(records) {
		b.WriteString(styleMuted().Render(fmt.Sprintf("+%d older", len(records)-end)) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render("j/k: move   r: retry   C: clear   esc: close"))

	return renderModalBox(m.width, fmt.Sprintf("Activity (%d)", len(records)), b.String())
}

func (m appModel) renderHelpOverlay() string {
	section := lipgloss.NewStyle().Bold(true).Foreground(colorChromeFg)
	rows := []string{
		section.Render("Projects"),
		"  enter open   n new   space mark   x/d delete   r refresh   m metrics",
		section.Render("Project"),
		"  enter/e chapter draft   N project notes   m metrics   r refresh   esc back",
		section.Render("Editor"),
		"  ctrl+s save now   ctrl+r reading mode   ctrl+x discard draft   esc close",
		section.Render("Reading"),
		"  j/k scroll   space page   esc stop",
		section.Render("Anywhere"),
		"  a activity   b sidebar   ? this help   / filter lists   q quit",
	}
	return renderModalBox(m.width, "Shortcuts", strings.Join(rows, "\n"))
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
