package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"inkwell-cli/internal/api"
	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
)

// Backend work runs inside tea commands so the UI loop never blocks. The
// cache applies its own stale-response and freshness rules; completions just
// tell the model to re-read it.

func errText(err error) string {
	if err == nil {
		return ""
	}
	return api.UserMessage(err)
}

func (m *appModel) fetchProjectsCmd(force, forced bool) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		err := cache.FetchProjects(ctx, force)
		return projectsFetchedMsg{err: errText(err), forced: forced}
	}
}

func (m *appModel) fetchProjectCmd(id string, force bool) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		err := cache.FetchProject(ctx, id, force)
		return projectFetchedMsg{id: id, err: errText(err)}
	}
}

func (m *appModel) fetchChaptersCmd(projectID string, force, forced bool) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		err := cache.FetchChapters(ctx, projectID, force)
		return chaptersFetchedMsg{projectID: projectID, err: errText(err), forced: forced}
	}
}

func (m *appModel) createProjectCmd(form state.CreateProjectForm) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		id, err := cache.CreateProject(ctx, form)
		return projectCreatedMsg{id: id, err: errText(err), form: form}
	}
}

func (m *appModel) deleteProjectsCmd(ids []string, names map[string]string) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		res, err := cache.DeleteProjects(ctx, ids)
		return projectsDeletedMsg{ids: ids, res: res, names: names, err: errText(err)}
	}
}

func (m *appModel) fetchMetricsCmd(scope string) tea.Cmd {
	m.metricsSeq++
	m.metricsScope = scope
	m.metricsBusy = true
	seq := m.metricsSeq
	studio := m.studio
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		res, err := studio.GetMetrics(ctx, scope)
		return metricsFetchedMsg{seq: seq, scope: scope, metrics: res, err: errText(err)}
	}
}

func (m *appModel) fetchTemplatesCmd() tea.Cmd {
	m.templatesSeq++
	seq := m.templatesSeq
	studio := m.studio
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		res, err := studio.ListStoryTemplates(ctx)
		return templatesFetchedMsg{seq: seq, templates: res, err: errText(err)}
	}
}

func runRetryCmd(retry func()) tea.Cmd {
	return func() tea.Msg {
		retry()
		return retryDoneMsg{}
	}
}

// buildCreateRetry makes the retry closure stored on failed create records.
// It re-runs the create against the cache and records its own outcome; a
// repeat failure stays retryable.
func buildCreateRetry(cache *state.ProjectCache, activity *state.ActivityLog, form state.CreateProjectForm) func() {
	var run func()
	run = func() {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		if _, err := cache.CreateProject(ctx, form); err != nil {
			activity.Add(ctx, model.ActivityRecord{
				Type:        model.ActivityCreate,
				Status:      model.ActivityError,
				Description: fmt.Sprintf("Create %q failed: %s", form.Name, api.UserMessage(err)),
				Retry:       run,
			})
			return
		}
		activity.Add(ctx, model.ActivityRecord{
			Type:        model.ActivityCreate,
			Status:      model.ActivitySuccess,
			Description: fmt.Sprintf("Created project %q", form.Name),
		})
	}
	return run
}

// buildDeleteRetry makes the retry closure for failed deletions. A partial
// failure re-arms the retry with just the ids that did not go through.
func buildDeleteRetry(cache *state.ProjectCache, activity *state.ActivityLog, ids []string, names map[string]string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		res, err := cache.DeleteProjects(ctx, ids)
		if err != nil {
			activity.Add(ctx, model.ActivityRecord{
				Type:        model.ActivityDelete,
				Status:      model.ActivityError,
				Description: "Delete failed: " + api.UserMessage(err),
				Retry:       buildDeleteRetry(cache, activity, ids, names),
			})
			return
		}
		activity.Add(ctx, deleteOutcomeRecord(cache, activity, res, names))
	}
}

// buildRefreshRetry makes the retry closure for failed manual refreshes.
func buildRefreshRetry(cache *state.ProjectCache, activity *state.ActivityLog) func() {
	var run func()
	run = func() {
		ctx, cancel := context.WithTimeout(context.Background(), studioCallTimeout)
		defer cancel()
		if err := cache.FetchProjects(ctx, true); err != nil {
			activity.Add(ctx, model.ActivityRecord{
				Type:        model.ActivityRefresh,
				Status:      model.ActivityError,
				Description: "Refresh failed: " + api.UserMessage(err),
				Retry:       run,
			})
			return
		}
		activity.Add(ctx, model.ActivityRecord{
			Type:        model.ActivityRefresh,
			Status:      model.ActivitySuccess,
			Description: "Refreshed projects",
		})
	}
	return run
}

// deleteOutcomeRecord summarizes one batch delete result as an activity
// record, retryable when part of the batch failed.
func deleteOutcomeRecord(cache *state.ProjectCache, activity *state.ActivityLog, res *model.BatchDeleteResult, names map[string]string) model.ActivityRecord {
	rec := model.ActivityRecord{
		Type:        model.ActivityDelete,
		Status:      model.ActivitySuccess,
		Description: deleteSummary(res, names),
	}
	if res != nil && res.FailedCount > 0 {
		rec.Status = model.ActivityError
		failed := make([]string, 0, len(res.Failed))
		for _, f := range res.Failed {
			failed = append(failed, f.ProjectID)
		}
		rec.Retry = buildDeleteRetry(cache, activity, failed, names)
	}
	return rec
}

func deleteSummary(res *model.BatchDeleteResult, names map[string]string) string {
	if res == nil {
		return "Deleted projects"
	}
	label := func(id string) string {
		if n := names[id]; n != "" {
			return fmt.Sprintf("%q", n)
		}
		return id
	}
	switch {
	case res.RequestedCount == 1 && res.FailedCount > 0:
		f := res.Failed[0]
		return fmt.Sprintf("Delete %s failed: %s", label(f.ProjectID), f.Detail)
	case res.RequestedCount == 1 && res.MissingCount > 0:
		return fmt.Sprintf("Project %s was already gone", label(res.Missing[0].ProjectID))
	case res.RequestedCount == 1 && res.DeletedCount > 0:
		return fmt.Sprintf("Deleted project %s", label(res.Deleted[0].ProjectID))
	case res.FailedCount > 0:
		return fmt.Sprintf("Deleted %d of %d projects, %d failed",
			res.DeletedCount, res.RequestedCount, res.FailedCount)
	default:
		return fmt.Sprintf("Deleted %d project(s)", res.DeletedCount+res.MissingCount)
	}
}
