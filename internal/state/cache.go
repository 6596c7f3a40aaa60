package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"inkwell-cli/internal/api"
	"inkwell-cli/internal/model"
)

// FreshTTL is how long a successful fetch keeps its resource trusted
// without a forced refresh.
const FreshTTL = 30 * time.Second

// StudioAPI is the backend surface the cache consumes. *api.Client
// implements it.
type StudioAPI interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (*model.ProjectDetail, error)
	ListChapters(ctx context.Context, projectID string) ([]model.Chapter, error)
	CreateProject(ctx context.Context, in model.CreateProjectInput) (*model.ProjectCreated, error)
	DeleteProject(ctx context.Context, id string) (model.DeleteOutcome, error)
	BatchDeleteProjects(ctx context.Context, ids []string) (*model.BatchDeleteResult, error)
}

// Scope selects what Invalidate forgets.
type Scope string

const (
	ScopeProjects Scope = "projects"
	ScopeProject  Scope = "project"
	ScopeChapters Scope = "chapters"
)

// Request token slots. One token counter per cached slot: the list, the
// single current detail and the single chapter list. Issuing a new request
// for a slot supersedes whatever was in flight for it.
const (
	slotProjects = "projects"
	slotProject  = "project"
	slotChapters = "chapters"
)

// ProjectCache fetches and caches the three studio resource shapes: the
// project list, one project detail and one chapter list. Freshness stamps
// (per id for the keyed resources) suppress redundant calls inside the TTL
// window. Responses carry per-slot request tokens captured at dispatch; a
// response mutates visible state only while its token is still the newest
// issued for its slot, so a fetch that was superseded mid-flight can stamp
// its own freshness bookkeeping but never clobbers what the user is looking
// at now (last request wins, not last response).
type ProjectCache struct {
	studio StudioAPI

	mu sync.Mutex

	projects        []model.Project
	projectsFetched time.Time
	projectsErr     string

	current        *model.ProjectDetail
	projectFetched map[string]time.Time
	projectErr     string

	chapters        []model.Chapter
	chaptersOwner   string
	chaptersFetched map[string]time.Time
	chaptersErr     string

	tokens   map[string]uint64
	inflight int

	now func() time.Time
	ttl time.Duration
}

func NewProjectCache(studio StudioAPI) *ProjectCache {
	return &ProjectCache{
		studio:          studio,
		projectFetched:  map[string]time.Time{},
		chaptersFetched: map[string]time.Time{},
		tokens:          map[string]uint64{},
		now:             time.Now,
		ttl:             FreshTTL,
	}
}

// Projects returns a copy of the cached project list.
func (c *ProjectCache) Projects() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Current returns the cached project detail, or nil when none is loaded.
func (c *ProjectCache) Current() *model.ProjectDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}

// Chapters returns the cached chapter list and the id of the project it
// belongs to.
func (c *ProjectCache) Chapters() ([]model.Chapter, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Chapter, len(c.chapters))
	copy(out, c.chapters)
	return out, c.chaptersOwner
}

// Loading reports whether any fetch is in flight. A shared counter drives
// the single flag so overlapping fetches do not flicker it.
func (c *ProjectCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

func (c *ProjectCache) ProjectsError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectsErr
}

func (c *ProjectCache) ProjectError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectErr
}

func (c *ProjectCache) ChaptersError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chaptersErr
}

// fresh reports whether a stamp is inside the TTL window. Callers hold mu.
func (c *ProjectCache) fresh(at time.Time) bool {
	return !at.IsZero() && c.now().Sub(at) < c.ttl
}

func (c *ProjectCache) issueToken(slot string) uint64 {
	c.tokens[slot]++
	return c.tokens[slot]
}

func (c *ProjectCache) isLatest(slot string, tok uint64) bool {
	return c.tokens[slot] == tok
}

// FetchProjects loads the project list unless the cached one is still
// fresh. The error is also recorded in ProjectsError as a user-facing
// message; a failed refresh keeps the previously cached list.
func (c *ProjectCache) FetchProjects(ctx context.Context, force bool) error {
	c.mu.Lock()
	if !force && c.fresh(c.projectsFetched) {
		c.mu.Unlock()
		return nil
	}
	tok := c.issueToken(slotProjects)
	c.inflight++
	c.mu.Unlock()

	projects, err := c.studio.ListProjects(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		if c.isLatest(slotProjects, tok) {
			c.projectsErr = api.UserMessage(err)
		}
		return err
	}
	c.projectsFetched = c.now()
	if c.isLatest(slotProjects, tok) {
		c.projects = projects
		c.projectsErr = ""
	}
	return nil
}

// FetchProject loads one project detail into the current slot. The call is
// a no-op when the id's stamp is fresh and the loaded detail is already
// that project.
func (c *ProjectCache) FetchProject(ctx context.Context, id string, force bool) error {
	c.mu.Lock()
	if !force && c.fresh(c.projectFetched[id]) && c.current != nil && c.current.ID == id {
		c.mu.Unlock()
		return nil
	}
	tok := c.issueToken(slotProject)
	c.inflight++
	c.mu.Unlock()

	detail, err := c.studio.GetProject(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		if c.isLatest(slotProject, tok) {
			c.current = nil
			c.projectErr = api.UserMessage(err)
		}
		return err
	}
	c.projectFetched[id] = c.now()
	if c.isLatest(slotProject, tok) {
		c.current = detail
		c.projectErr = ""
	}
	return nil
}

// FetchChapters loads the chapter list for one project.
func (c *ProjectCache) FetchChapters(ctx context.Context, projectID string, force bool) error {
	c.mu.Lock()
	if !force && c.fresh(c.chaptersFetched[projectID]) && c.chaptersOwner == projectID {
		c.mu.Unlock()
		return nil
	}
	tok := c.issueToken(slotChapters)
	c.inflight++
	c.mu.Unlock()

	chapters, err := c.studio.ListChapters(ctx, projectID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		if c.isLatest(slotChapters, tok) {
			c.chapters = nil
			c.chaptersOwner = ""
			c.chaptersErr = api.UserMessage(err)
		}
		return err
	}
	c.chaptersFetched[projectID] = c.now()
	if c.isLatest(slotChapters, tok) {
		c.chapters = chapters
		c.chaptersOwner = projectID
		c.chaptersErr = ""
	}
	return nil
}

// CreateProject submits the form and, on success, prepends an optimistic
// summary to the cached list (counts zeroed, id and status from the
// response), marks the list fresh and kicks off a forced background
// refresh to reconcile with server truth. Failures leave cached state
// untouched.
func (c *ProjectCache) CreateProject(ctx context.Context, form CreateProjectForm) (string, error) {
	in, err := form.Input()
	if err != nil {
		return "", err
	}
	created, err := c.studio.CreateProject(ctx, in)
	if err != nil {
		return "", err
	}

	summary := model.Project{
		ID:           created.ID,
		Name:         created.Name,
		Genre:        in.Genre,
		Style:        in.Style,
		TemplateID:   created.TemplateID,
		Status:       created.Status,
		TargetLength: in.TargetLength,
		CreatedAt:    created.CreatedAt,
	}
	if summary.CreatedAt == nil {
		summary.CreatedAt = &model.Time{Time: c.now()}
	}

	c.mu.Lock()
	list := make([]model.Project, 0, len(c.projects)+1)
	list = append(list, summary)
	for _, p := range c.projects {
		if p.ID != summary.ID {
			list = append(list, p)
		}
	}
	c.projects = list
	c.projectsFetched = c.now()
	c.mu.Unlock()

	c.refreshListAsync()
	return created.ID, nil
}

// DeleteProject removes one project and purges it from every cached slot.
// A project that was already gone counts as removed.
func (c *ProjectCache) DeleteProject(ctx context.Context, id string) (model.DeleteOutcome, error) {
	out, err := c.studio.DeleteProject(ctx, id)
	if err != nil {
		return out, err
	}
	c.purge([]string{id})
	c.refreshListAsync()
	return out, nil
}

// DeleteProjects removes several projects. It tries the batch endpoint
// first (the API client already falls through to the compatibility form);
// if that fails outright nothing is assumed deleted and each id is deleted
// individually instead, so one stubborn project cannot abort the rest. The
// result reports every id as deleted, missing or failed.
func (c *ProjectCache) DeleteProjects(ctx context.Context, ids []string) (*model.BatchDeleteResult, error) {
	unique := dedupeTrim(ids)
	if len(unique) == 0 {
		return &model.BatchDeleteResult{}, nil
	}

	res, err := c.studio.BatchDeleteProjects(ctx, unique)
	if err != nil {
		res = c.deleteSequential(ctx, unique)
	}

	if purged := res.PurgedIDs(); len(purged) > 0 {
		c.purge(purged)
	}
	c.refreshListAsync()
	return res, nil
}

func (c *ProjectCache) deleteSequential(ctx context.Context, ids []string) *model.BatchDeleteResult {
	res := &model.BatchDeleteResult{RequestedCount: len(ids)}
	for _, id := range ids {
		out, err := c.studio.DeleteProject(ctx, id)
		switch {
		case err != nil:
			res.Failed = append(res.Failed, model.DeleteOutcome{
				ProjectID: id,
				Status:    "failed",
				Detail:    api.UserMessage(err),
			})
		case out.Missing():
			res.Missing = append(res.Missing, out)
		default:
			res.Deleted = append(res.Deleted, out)
		}
	}
	res.DeletedCount = len(res.Deleted)
	res.MissingCount = len(res.Missing)
	res.FailedCount = len(res.Failed)
	return res
}

// purge drops ids that no longer exist on the backend from every cached
// slot: the list, both freshness maps, the current detail and the chapter
// list when they belong to a purged id.
func (c *ProjectCache) purge(ids []string) {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.projects[:0]
	for _, p := range c.projects {
		if !gone[p.ID] {
			kept = append(kept, p)
		}
	}
	c.projects = kept

	for id := range gone {
		delete(c.projectFetched, id)
		delete(c.chaptersFetched, id)
	}
	if c.current != nil && gone[c.current.ID] {
		c.current = nil
	}
	if c.chaptersOwner != "" && gone[c.chaptersOwner] {
		c.chapters = nil
		c.chaptersOwner = ""
	}
}

// Invalidate clears freshness stamps so the next unforced fetch goes to
// the network. An empty id clears the whole map for keyed scopes.
func (c *ProjectCache) Invalidate(scope Scope, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch scope {
	case ScopeProjects:
		c.projectsFetched = time.Time{}
	case ScopeProject:
		if id == "" {
			c.projectFetched = map[string]time.Time{}
		} else {
			delete(c.projectFetched, id)
		}
	case ScopeChapters:
		if id == "" {
			c.chaptersFetched = map[string]time.Time{}
			c.chaptersOwner = ""
		} else {
			delete(c.chaptersFetched, id)
			if c.chaptersOwner == id {
				c.chaptersOwner = ""
			}
		}
	}
}

// refreshListAsync reconciles the cached list with server truth after an
// optimistic mutation. The caller's context may be gone by the time the
// refresh runs, so it gets a fresh one; the transport timeout still bounds
// it.
func (c *ProjectCache) refreshListAsync() {
	go func() { _ = c.FetchProjects(context.Background(), true) }()
}

func dedupeTrim(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
