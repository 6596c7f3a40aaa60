package tui

import (
	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
)

type view int

const (
	viewProjects view = iota
	viewProject
	viewEditor
	viewMetrics
)

func (v view) String() string {
	switch v {
	case viewProjects:
		return "projects"
	case viewProject:
		return "project"
	case viewEditor:
		return "editor"
	case viewMetrics:
		return "metrics"
	default:
		return "?"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalCreate
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// Fetch completions. The cache already discarded stale responses and parked
// errors by the time these arrive; the messages only tell the UI to re-read
// it. forced distinguishes a user-initiated refresh, which gets an activity
// record, from background revalidation, which stays silent.
type projectsFetchedMsg struct {
	err    string
	forced bool
}

type projectFetchedMsg struct {
	id  string
	err string
}

type chaptersFetchedMsg struct {
	projectID string
	err       string
	forced    bool
}

type projectCreatedMsg struct {
	id   string
	err  string
	form state.CreateProjectForm
}

type projectsDeletedMsg struct {
	ids   []string
	res   *model.BatchDeleteResult
	names map[string]string
	err   string
}

// metricsFetchedMsg carries a sequence number so a slow response for a
// previously shown scope can't overwrite the current one.
type metricsFetchedMsg struct {
	seq     uint64
	scope   string
	metrics *model.Metrics
	err     string
}

type templatesFetchedMsg struct {
	seq       uint64
	templates []model.StoryTemplate
	err       string
}

// freshTickMsg drives background revalidation of whatever the current view
// shows. The cache's freshness window decides whether any request is made.
type freshTickMsg struct{}

type toastExpiredMsg struct {
	seq uint64
}

// retryDoneMsg fires after an activity retry closure ran; the closure
// records its own outcome, the UI just refreshes.
type retryDoneMsg struct{}
