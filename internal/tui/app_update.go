package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"inkwell-cli/internal/model"
)

func uiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeCallTimeout)
}

// reconcilePoke re-reads the cache shortly after a mutation. Create and
// delete kick off a background list refetch; that refetch finishes outside
// the program loop, so a delayed no-op fetch is used to pick up its result.
func reconcilePoke() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return freshTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loadSpinner, cmd = m.loadSpinner.Update(msg)
		return m, cmd

	case freshTickMsg:
		return m, tea.Batch(m.revalidateCmd(), freshTick())

	case projectsFetchedMsg:
		m.refreshProjects()
		if msg.forced {
			return m.finishManualRefresh(msg.err, "Refreshed projects")
		}
		return m, nil

	case projectFetchedMsg:
		if msg.id == m.selectedProjectID {
			m.refreshChapters()
		}
		return m, nil

	case chaptersFetchedMsg:
		if msg.projectID == m.selectedProjectID {
			m.refreshChapters()
		}
		if msg.forced {
			return m.finishManualRefresh(msg.err, "Refreshed chapters")
		}
		return m, nil

	case projectCreatedMsg:
		return m.finishCreate(msg)

	case projectsDeletedMsg:
		return m.finishDelete(msg)

	case metricsFetchedMsg:
		if msg.seq != m.metricsSeq {
			debugLogf("stale metrics response dropped scope=%q seq=%d", msg.scope, msg.seq)
			return m, nil
		}
		m.metricsBusy = false
		m.metrics = msg.metrics
		m.metricsErr = msg.err
		return m, nil

	case templatesFetchedMsg:
		if msg.seq != m.templatesSeq {
			return m, nil
		}
		if msg.err == "" {
			m.templates = msg.templates
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toastText = ""
		}
		return m, nil

	case retryDoneMsg:
		m.refreshProjects()
		toast := m.showToast("Retried", false)
		return m, tea.Batch(toast, reconcilePoke())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// revalidateCmd refetches whatever backs the current view. Unforced, so the
// freshness window short-circuits it when nothing went stale.
func (m *appModel) revalidateCmd() tea.Cmd {
	switch m.view {
	case viewProject, viewEditor:
		if m.selectedProjectID != "" {
			return tea.Batch(
				m.fetchProjectCmd(m.selectedProjectID, false),
				m.fetchChaptersCmd(m.selectedProjectID, false, false),
				m.fetchProjectsCmd(false, false),
			)
		}
		return m.fetchProjectsCmd(false, false)
	default:
		return m.fetchProjectsCmd(false, false)
	}
}

func (m appModel) finishManualRefresh(errMsg, okText string) (tea.Model, tea.Cmd) {
	if errMsg != "" {
		m.recordActivity(model.ActivityRefresh, model.ActivityError, "Refresh failed: "+errMsg,
			buildRefreshRetry(m.cache, m.activity))
		cmd := m.showToast(errMsg, true)
		return m, cmd
	}
	m.recordActivity(model.ActivityRefresh, model.ActivitySuccess, okText, nil)
	cmd := m.showToast(okText, false)
	return m, cmd
}

func (m appModel) finishCreate(msg projectCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != "" {
		m.recordActivity(model.ActivityCreate, model.ActivityError,
			"Create \""+msg.form.Name+"\" failed: "+msg.err,
			buildCreateRetry(m.cache, m.activity, msg.form))
		if m.modal == modalCreate {
			m.form.busy = false
			m.form.errText = msg.err
		}
		cmd := m.showToast(msg.err, true)
		return m, cmd
	}

	m.recordActivity(model.ActivityCreate, model.ActivitySuccess,
		"Created project \""+msg.form.Name+"\"", nil)
	if m.modal == modalCreate {
		m.modal = modalNone
		m.form = createForm{}
	}
	m.refreshProjects()
	selectProjectByID(&m.projectsList, msg.id)
	toast := m.showToast("Created \""+msg.form.Name+"\"", false)
	return m, tea.Batch(toast, reconcilePoke())
}

func (m appModel) finishDelete(msg projectsDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != "" {
		m.recordActivity(model.ActivityDelete, model.ActivityError, "Delete failed: "+msg.err,
			buildDeleteRetry(m.cache, m.activity, msg.ids, msg.names))
		cmd := m.showToast(msg.err, true)
		return m, cmd
	}

	ctx, cancel := uiCtx()
	m.activity.Add(ctx, deleteOutcomeRecord(m.cache, m.activity, msg.res, msg.names))
	cancel()
	m.activityCursor = 0

	m.refreshProjects()
	if msg.res != nil && m.selectedProjectID != "" {
		for _, id := range msg.res.PurgedIDs() {
			if id != m.selectedProjectID {
				continue
			}
			// The open project went away with the batch.
			if m.editor.open() {
				m.closeEditor(false)
			}
			m.selectedProjectID = ""
			m.selectedProjectName = ""
			if m.view == viewProject || m.view == viewEditor {
				m.view = viewProjects
			}
			break
		}
	}

	summary := deleteSummary(msg.res, msg.names)
	isErr := msg.res != nil && msg.res.FailedCount > 0
	toast := m.showToast(summary, isErr)
	return m, tea.Batch(toast, reconcilePoke())
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.editor.open() {
			m.closeEditor(true)
		}
		return m, tea.Quit
	}

	switch m.modal {
	case modalCreate:
		return m.handleCreateModalKey(msg)
	case modalConfirmDelete:
		return m.handleConfirmModalKey(msg)
	}

	if m.uiMode.ShortcutHelp() {
		switch msg.String() {
		case "?", "esc", "q":
			m.uiMode.ToggleShortcutHelp()
		}
		return m, nil
	}

	if m.activity.Visible() {
		return m.handleActivityKey(msg)
	}

	switch m.view {
	case viewProjects:
		return m.handleProjectsKey(msg)
	case viewProject:
		return m.handleProjectKey(msg)
	case viewEditor:
		return m.handleEditorKey(msg)
	case viewMetrics:
		return m.handleMetricsKey(msg)
	}
	return m, nil
}

// handleGlobalKey covers keys shared by the browse views. handled is false
// when the key should fall through to the view.
func (m *appModel) handleGlobalKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd, quit bool) {
	switch msg.String() {
	case "q":
		return true, nil, true
	case "a":
		m.activity.ToggleVisible()
		m.activityCursor = 0
		return true, nil, false
	case "b":
		ctx, cancel := uiCtx()
		m.uiMode.ToggleSidebar(ctx)
		cancel()
		m.resizeLists()
		return true, nil, false
	case "?":
		m.uiMode.ToggleShortcutHelp()
		return true, nil, false
	}
	return false, nil, false
}

func (m appModel) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.projectsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.projectsList, cmd = m.projectsList.Update(msg)
		return m, cmd
	}
	if handled, cmd, quit := m.handleGlobalKey(msg); handled {
		if quit {
			return m, tea.Quit
		}
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
			cmd := m.openProject(it.project)
			return m, cmd
		}
		return m, nil
	case "n":
		m.modal = modalCreate
		m.form = newCreateForm()
		cmds := []tea.Cmd{m.form.inputs[m.form.focus].Focus()}
		if len(m.templates) == 0 {
			cmds = append(cmds, m.fetchTemplatesCmd())
		}
		return m, tea.Batch(cmds...)
	case " ":
		if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
			if m.marked[it.project.ID] {
				delete(m.marked, it.project.ID)
			} else {
				m.marked[it.project.ID] = true
			}
			m.refreshProjects()
		}
		return m, nil
	case "x", "d":
		ids, names := m.deleteTargets()
		if len(ids) == 0 {
			return m, nil
		}
		m.confirm = confirmState{ids: ids, names: names, focus: confirmFocusCancel}
		m.modal = modalConfirmDelete
		return m, nil
	case "r":
		return m, m.fetchProjectsCmd(true, true)
	case "m":
		m.view = viewMetrics
		cmd := m.fetchMetricsCmd("")
		return m, cmd
	}

	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

// deleteTargets resolves which projects a delete acts on: the marked set if
// any, otherwise the selected card.
func (m *appModel) deleteTargets() ([]string, map[string]string) {
	names := map[string]string{}
	var ids []string
	if len(m.marked) > 0 {
		for _, item := range m.projectsList.Items() {
			if it, ok := item.(projectItem); ok && m.marked[it.project.ID] {
				ids = append(ids, it.project.ID)
				names[it.project.ID] = it.project.Name
			}
		}
		return ids, names
	}
	if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
		ids = append(ids, it.project.ID)
		names[it.project.ID] = it.project.Name
	}
	return ids, names
}

func (m appModel) handleProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chaptersList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.chaptersList, cmd = m.chaptersList.Update(msg)
		return m, cmd
	}
	if handled, cmd, quit := m.handleGlobalKey(msg); handled {
		if quit {
			return m, tea.Quit
		}
		return m, cmd
	}

	switch msg.String() {
	case "esc", "backspace":
		m.view = viewProjects
		return m, nil
	case "enter", "e":
		if it, ok := m.chaptersList.SelectedItem().(chapterItem); ok {
			cmd := m.openChapterEditor(it.chapter)
			return m, cmd
		}
		return m, nil
	case "N":
		cmd := m.openNotesEditor()
		return m, cmd
	case "m":
		m.view = viewMetrics
		cmd := m.fetchMetricsCmd(m.selectedProjectID)
		return m, cmd
	case "r":
		return m, tea.Batch(
			m.fetchProjectCmd(m.selectedProjectID, true),
			m.fetchChaptersCmd(m.selectedProjectID, true, true),
		)
	}

	var cmd tea.Cmd
	m.chaptersList, cmd = m.chaptersList.Update(msg)
	return m, cmd
}

func (m appModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uiMode.ReadingMode() {
		switch msg.String() {
		case "esc", "v", "ctrl+r", "q":
			ctx, cancel := uiCtx()
			m.uiMode.ExitReadingMode(ctx)
			cancel()
			m.editor.readOffset = 0
			m.resizeLists()
			return m, nil
		case "up", "k":
			if m.editor.readOffset > 0 {
				m.editor.readOffset--
			}
		case "down", "j":
			m.editor.readOffset++
		case "pgup":
			m.editor.readOffset -= m.bodyHeight() / 2
			if m.editor.readOffset < 0 {
				m.editor.readOffset = 0
			}
		case "pgdown", " ":
			m.editor.readOffset += m.bodyHeight() / 2
		case "g", "home":
			m.editor.readOffset = 0
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeEditor(true)
		return m, nil
	case "ctrl+s":
		ctx, cancel := uiCtx()
		m.editor.saver.Flush(ctx)
		cancel()
		cmd := m.showToast("Draft saved", false)
		return m, cmd
	case "ctrl+x":
		ctx, cancel := uiCtx()
		m.editor.saver.Discard(ctx)
		cancel()
		m.editor.area.Reset()
		cmd := m.showToast("Draft discarded", false)
		return m, cmd
	case "ctrl+r":
		ctx, cancel := uiCtx()
		m.uiMode.EnterReadingMode(ctx)
		cancel()
		m.editor.readOffset = 0
		m.resizeLists()
		return m, nil
	}

	before := m.editor.area.Value()
	var cmd tea.Cmd
	m.editor.area, cmd = m.editor.area.Update(msg)
	if after := m.editor.area.Value(); after != before {
		m.editor.saver.Update(after)
	}
	return m, cmd
}

func (m appModel) handleMetricsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd, quit := m.handleGlobalKey(msg); handled {
		if quit {
			return m, tea.Quit
		}
		return m, cmd
	}
	switch msg.String() {
	case "esc", "backspace":
		if m.metricsScope != "" && m.selectedProjectID != "" {
			m.view = viewProject
		} else {
			m.view = viewProjects
		}
		return m, nil
	case "r":
		cmd := m.fetchMetricsCmd(m.metricsScope)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleCreateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.form = createForm{}
		return m, nil
	case "tab", "down":
		cmd := m.form.setFocus(m.form.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.setFocus(m.form.focus - 1)
		return m, cmd
	case "ctrl+t":
		m.form.cycleTemplate(m.templates)
		return m, nil
	case "enter":
		if m.form.focus < formFieldCount-1 {
			cmd := m.form.setFocus(m.form.focus + 1)
			return m, cmd
		}
		return m.submitCreateForm()
	case "ctrl+s":
		return m.submitCreateForm()
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m appModel) submitCreateForm() (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}
	form, ok := m.form.submission(m.templates)
	if !ok {
		return m, nil
	}
	m.form.busy = true
	return m, m.createProjectCmd(form)
}

func (m appModel) handleConfirmModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		m.confirm = confirmState{}
		return m, nil
	case "tab", "left", "right":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.dispatchDelete()
	case "enter":
		if m.confirm.focus == confirmFocusConfirm {
			return m.dispatchDelete()
		}
		m.modal = modalNone
		m.confirm = confirmState{}
		return m, nil
	}
	return m, nil
}

func (m appModel) dispatchDelete() (tea.Model, tea.Cmd) {
	ids, names := m.confirm.ids, m.confirm.names
	m.modal = modalNone
	m.confirm = confirmState{}
	if len(ids) == 0 {
		return m, nil
	}
	toast := m.showToast("Deleting "+glyphPending(), false)
	return m, tea.Batch(m.deleteProjectsCmd(ids, names), toast)
}

func (m appModel) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	records := m.activity.Records()
	switch msg.String() {
	case "esc", "a", "q":
		m.activity.ToggleVisible()
		return m, nil
	case "up", "k":
		if m.activityCursor > 0 {
			m.activityCursor--
		}
		return m, nil
	case "down", "j":
		if m.activityCursor < len(records)-1 {
			m.activityCursor++
		}
		return m, nil
	case "r":
		if m.activityCursor < len(records) {
			if rec := records[m.activityCursor]; rec.Retry != nil {
				toast := m.showToast("Retrying "+glyphPending(), false)
				return m, tea.Batch(runRetryCmd(rec.Retry), toast)
			}
		}
		return m, nil
	case "C":
		ctx, cancel := uiCtx()
		m.activity.Clear(ctx)
		cancel()
		m.activityCursor = 0
		return m, nil
	}
	return m, nil
}
