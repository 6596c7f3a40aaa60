package state

import (
	"context"
	"sync"
	"time"

	"inkwell-cli/internal/model"
)

// DefaultAutoSaveDebounce is the quiet period after the last edit before a
// draft is persisted.
const DefaultAutoSaveDebounce = 2 * time.Second

// AutoSaver debounces edits to one draft key and persists the latest
// content after the quiet period. Storage failures are dropped; the saver
// keeps the draft in memory and tries again on the next save.
type AutoSaver struct {
	kv  KV
	key string

	debounce time.Duration
	now      func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	content string
	draft   *model.Draft
}

type AutoSaverOpts struct {
	Key      string
	Debounce time.Duration
}

func NewAutoSaver(kv KV, opts AutoSaverOpts) *AutoSaver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultAutoSaveDebounce
	}
	return &AutoSaver{
		kv:       kv,
		key:      DraftKey(opts.Key),
		debounce: debounce,
		now:      time.Now,
	}
}

// Update records a content change. Any armed timer is cancelled first.
// Empty content schedules nothing, so an empty initial render can never
// overwrite a real draft.
func (a *AutoSaver) Update(content string) {
	if a == nil {
		return
	}

	a.mu.Lock()
	if content == "" {
		a.pending = false
		if a.timer != nil {
			a.timer.Stop()
		}
		a.mu.Unlock()
		return
	}
	a.pending = true
	a.content = content
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.onTimer)
		a.mu.Unlock()
		return
	}
	a.timer.Reset(a.debounce)
	a.mu.Unlock()
}

func (a *AutoSaver) onTimer() {
	a.mu.Lock()
	if a.running {
		// A save is in flight; run again afterwards to pick up the newer content.
		if a.timer != nil {
			a.timer.Reset(a.debounce)
		}
		a.mu.Unlock()
		return
	}
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.running = true
	content := a.content
	a.mu.Unlock()

	a.save(context.Background(), content)

	a.mu.Lock()
	a.running = false
	if a.pending && a.timer != nil {
		a.timer.Reset(a.debounce)
	}
	a.mu.Unlock()
}

func (a *AutoSaver) save(ctx context.Context, content string) {
	draft := model.Draft{Content: content, SavedAt: a.now()}
	// Best effort: a full or unavailable store degrades to memory-only.
	_ = a.kv.Put(ctx, a.key, draft)

	a.mu.Lock()
	a.draft = &draft
	a.mu.Unlock()
}

// Flush persists any pending content immediately, without waiting out the
// debounce. Used when the editor closes.
func (a *AutoSaver) Flush(ctx context.Context) {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	content := a.content
	a.mu.Unlock()

	a.save(ctx, content)
}

// Restore reads the persisted draft directly from storage, bypassing the
// in-memory mirror, and returns its content. Missing and corrupt entries
// both read as empty.
func (a *AutoSaver) Restore(ctx context.Context) string {
	var draft model.Draft
	ok, err := a.kv.Get(ctx, a.key, &draft)
	if err != nil || !ok || draft.Content == "" {
		return ""
	}
	a.mu.Lock()
	a.draft = &draft
	a.mu.Unlock()
	return draft.Content
}

// Discard removes the persisted draft and forgets the in-memory mirror and
// any pending save.
func (a *AutoSaver) Discard(ctx context.Context) {
	a.mu.Lock()
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.draft = nil
	a.mu.Unlock()

	_ = a.kv.Delete(ctx, a.key)
}

// HasDraft reports whether a draft is known in memory, either saved this
// session or loaded by Restore.
func (a *AutoSaver) HasDraft() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft != nil
}

// Draft returns the in-memory draft mirror, or nil.
func (a *AutoSaver) Draft() *model.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draft == nil {
		return nil
	}
	cp := *a.draft
	return &cp
}

// Stop cancels any armed timer without saving.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
}
