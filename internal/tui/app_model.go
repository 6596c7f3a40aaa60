package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inkwell-cli/internal/api"
	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
	"inkwell-cli/internal/store"
)

const (
	// studioCallTimeout bounds one backend request issued from the UI loop.
	studioCallTimeout = 15 * time.Second
	// storeCallTimeout bounds local state reads/writes.
	storeCallTimeout = 2 * time.Second

	// freshPollInterval drives background revalidation. Unforced fetches
	// short-circuit on the cache freshness window, so polling faster than
	// the TTL only bounds how stale the screen can get.
	freshPollInterval = 5 * time.Second

	toastDuration = 2500 * time.Millisecond
)

type editorState struct {
	projectID    string
	projectName  string
	chapterID    string
	chapterTitle string
	key          string

	area  textarea.Model
	saver *state.AutoSaver

	// readOffset scrolls the rendered markdown in reading mode.
	readOffset int
}

func (e editorState) open() bool { return e.saver != nil }

type appModel struct {
	studio *api.Client
	st     store.Store

	cache    *state.ProjectCache
	activity *state.ActivityLog
	recents  *state.RecentList
	uiMode   *state.UIMode

	width          int
	height         int
	seenWindowSize bool

	view  view
	modal modalKind

	projectsList list.Model
	chaptersList list.Model
	marked       map[string]bool

	// selectedProjectID is the project behind viewProject/viewEditor.
	selectedProjectID   string
	selectedProjectName string
	// draftChapters marks chapters with a stored draft, for list badges.
	draftChapters map[string]bool

	form    createForm
	confirm confirmState
	editor  editorState

	metrics      *model.Metrics
	metricsErr   string
	metricsSeq   uint64
	metricsScope string
	metricsBusy  bool

	templates    []model.StoryTemplate
	templatesSeq uint64

	activityCursor int

	toastText string
	toastErr  bool
	toastSeq  uint64

	loadSpinner spinner.Model
	metricsBar  progress.Model
}

func newAppModel(opts Options) appModel {
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()

	m := appModel{
		studio:        opts.Studio,
		st:            opts.Store,
		cache:         state.NewProjectCache(opts.Studio),
		activity:      state.NewActivityLog(ctx, opts.Store),
		recents:       state.NewRecentList(ctx, opts.Store),
		uiMode:        state.NewUIMode(ctx, opts.Store),
		marked:        map[string]bool{},
		draftChapters: map[string]bool{},
		view:          viewProjects,
		modal:         modalNone,
	}

	m.projectsList = newList(nil, newProjectCardDelegate())
	m.chaptersList = newList(nil, list.NewDefaultDelegate())
	m.loadSpinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.loadSpinner.Style = lipgloss.NewStyle().Foreground(colorAccent)
	m.metricsBar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchProjectsCmd(false, false),
		freshTick(),
		m.loadSpinner.Tick,
	)
}

func freshTick() tea.Cmd {
	return tea.Tick(freshPollInterval, func(time.Time) tea.Msg { return freshTickMsg{} })
}

// sidebarVisible reports whether the recent-access rail should render. The
// persisted preference is overridden by narrow terminals, which simply have
// no room for it.
func (m appModel) sidebarVisible() bool {
	if m.width > 0 && m.width < 72 {
		return false
	}
	if m.view == viewEditor {
		return !m.uiMode.SidebarCollapsed() && !m.uiMode.ReadingMode()
	}
	return !m.uiMode.SidebarCollapsed()
}

func (m appModel) sidebarWidth() int {
	if !m.sidebarVisible() {
		return 0
	}
	if m.width >= 110 {
		return 30
	}
	return 24
}

func (m appModel) bodyWidth() int {
	w := m.width
	if sw := m.sidebarWidth(); sw > 0 {
		w -= sw + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m appModel) bodyHeight() int {
	// Header takes two lines, the footer two more; one spare for the stale
	// notice under the header.
	h := m.height - 5
	if h < 8 {
		h = 8
	}
	return h
}

func (m *appModel) resizeLists() {
	w := m.bodyWidth()
	h := m.bodyHeight()
	m.projectsList.SetSize(w, h)
	m.chaptersList.SetSize(w/2, h)
	m.resizeEditor()
}

func (m *appModel) resizeEditor() {
	if !m.editor.open() {
		return
	}
	w := m.bodyWidth() - 2
	if w < 20 {
		w = 20
	}
	h := m.bodyHeight() - 2
	if h < 5 {
		h = 5
	}
	m.editor.area.SetWidth(w)
	m.editor.area.SetHeight(h)
}

// refreshProjects rebuilds the projects list from the cache, keeping the
// selection when the selected project survived.
func (m *appModel) refreshProjects() {
	curID := ""
	if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
		curID = it.project.ID
	}
	projects := m.cache.Projects()
	items := make([]list.Item, 0, len(projects))
	live := map[string]bool{}
	for _, p := range projects {
		live[p.ID] = true
		items = append(items, projectItem{project: p, marked: m.marked[p.ID]})
	}
	m.projectsList.SetItems(items)
	if curID != "" {
		selectProjectByID(&m.projectsList, curID)
	}
	for id := range m.marked {
		if !live[id] {
			delete(m.marked, id)
		}
	}
}

func (m *appModel) refreshChapters() {
	curID := ""
	if it, ok := m.chaptersList.SelectedItem().(chapterItem); ok {
		curID = it.chapter.ID
	}
	chapters, owner := m.cache.Chapters()
	if owner != m.selectedProjectID {
		m.chaptersList.SetItems(nil)
		return
	}
	items := make([]list.Item, 0, len(chapters))
	for _, ch := range chapters {
		items = append(items, chapterItem{chapter: ch, hasDraft: m.draftChapters[ch.ID]})
	}
	m.chaptersList.SetItems(items)
	if curID != "" {
		selectChapterByID(&m.chaptersList, curID)
	}
}

// scanDrafts refreshes the per-chapter draft badges for the open project.
func (m *appModel) scanDrafts() {
	m.draftChapters = map[string]bool{}
	if m.selectedProjectID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()
	prefix := state.DraftKeyPrefix + "chapter:" + m.selectedProjectID + ":"
	keys, err := m.st.Keys(ctx, prefix)
	if err != nil {
		return
	}
	for _, k := range keys {
		m.draftChapters[strings.TrimPrefix(k, prefix)] = true
	}
}

func (m *appModel) openProject(p model.Project) tea.Cmd {
	m.selectedProjectID = p.ID
	m.selectedProjectName = p.Name
	m.view = viewProject
	m.scanDrafts()
	m.refreshChapters()

	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()
	m.recents.Add(ctx, model.RecentItem{
		Kind:      model.RecentProject,
		ID:        p.ID,
		Name:      p.Name,
		Path:      p.Name,
		ProjectID: p.ID,
	})

	return tea.Batch(
		m.fetchProjectCmd(p.ID, false),
		m.fetchChaptersCmd(p.ID, false, false),
	)
}

func chapterDraftKey(projectID, chapterID string) string {
	return "chapter:" + projectID + ":" + chapterID
}

func projectNotesKey(projectID string) string {
	return "project:" + projectID + ":notes"
}

func (m *appModel) openChapterEditor(ch model.Chapter) tea.Cmd {
	title := strings.TrimSpace(ch.Title)
	if title == "" {
		title = "(untitled)"
	}
	cmd := m.openEditor(ch.ID, title, chapterDraftKey(m.selectedProjectID, ch.ID))

	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()
	m.recents.Add(ctx, model.RecentItem{
		Kind:      model.RecentChapter,
		ID:        ch.ID,
		Name:      title,
		Path:      m.selectedProjectName + " / " + title,
		ProjectID: m.selectedProjectID,
	})
	return cmd
}

func (m *appModel) openNotesEditor() tea.Cmd {
	return m.openEditor("", "notes", projectNotesKey(m.selectedProjectID))
}

func (m *appModel) openEditor(chapterID, title, key string) tea.Cmd {
	area := textarea.New()
	area.Placeholder = "Start writing…"
	area.CharLimit = 0
	area.ShowLineNumbers = false

	saver := state.NewAutoSaver(m.st, state.AutoSaverOpts{Key: key})
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	area.SetValue(saver.Restore(ctx))
	cancel()

	m.editor = editorState{
		projectID:    m.selectedProjectID,
		projectName:  m.selectedProjectName,
		chapterID:    chapterID,
		chapterTitle: title,
		key:          key,
		area:         area,
		saver:        saver,
	}
	m.view = viewEditor
	m.resizeEditor()
	return m.editor.area.Focus()
}

// closeEditor flushes any pending draft, drops the saver and returns to the
// project view. Leaving the editor also leaves reading mode, which restores
// the sidebar preference captured on entry.
func (m *appModel) closeEditor(flush bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()

	if m.editor.saver != nil {
		if flush {
			m.editor.saver.Flush(ctx)
		}
		m.editor.saver.Stop()
	}
	if m.uiMode.ReadingMode() {
		m.uiMode.ExitReadingMode(ctx)
	}
	m.editor = editorState{}
	m.view = viewProject
	m.scanDrafts()
	m.refreshChapters()
}

func (m *appModel) showToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toastText = text
	m.toastErr = isErr
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m *appModel) recordActivity(typ model.ActivityType, status model.ActivityStatus, desc string, retry func()) {
	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()
	m.activity.Add(ctx, model.ActivityRecord{
		Type:        typ,
		Status:      status,
		Description: desc,
		Retry:       retry,
	})
	m.activityCursor = 0
}
