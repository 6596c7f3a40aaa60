package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"inkwell-cli/internal/store"
)

// memKV is an in-memory KV for tests that don't need the real sqlite store.
// It mirrors the store's contract: corrupt values read as absent, and
// failPuts simulates a full disk without corrupting what is already there.
type memKV struct {
	mu       sync.Mutex
	rows     map[string][]byte
	putCalls int
	failPuts bool
}

func newMemKV() *memKV { return &memKV{rows: map[string][]byte{}} }

func (m *memKV) Get(ctx context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.rows[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memKV) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPuts {
		return errors.New("disk full")
	}
	m.rows[key] = raw
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
	return nil
}

func (m *memKV) puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putCalls
}

const testDebounce = 20 * time.Millisecond

func TestAutoSaveRoundTrip(t *testing.T) {
	t.Parallel()
	st := store.Store{Dir: t.TempDir()}
	content := "The weir was louder at night.\n\nShe counted the lanterns twice."

	saver := NewAutoSaver(st, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()
	saver.Update(content)
	waitFor(t, "draft to persist", saver.HasDraft)

	// A fresh saver models the next launch: restore must read storage, not
	// this process's memory.
	relaunch := NewAutoSaver(st, AutoSaverOpts{Key: "chapter:p1:c1"})
	if got := relaunch.Restore(context.Background()); got != content {
		t.Fatalf("Restore = %q, want original content", got)
	}
	if !relaunch.HasDraft() {
		t.Fatal("restore did not populate the in-memory draft")
	}
}

func TestAutoSaveCoalescesBurst(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()

	saver.Update("T")
	saver.Update("Th")
	saver.Update("The")
	saver.Update("The weir")
	waitFor(t, "burst to persist", saver.HasDraft)

	if got := kv.puts(); got != 1 {
		t.Fatalf("burst caused %d writes, want 1", got)
	}
	if d := saver.Draft(); d == nil || d.Content != "The weir" {
		t.Fatalf("draft = %+v, want latest content", d)
	}
}

func TestAutoSaveEmptyContentSchedulesNothing(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()

	saver.Update("")
	time.Sleep(5 * testDebounce)
	if saver.HasDraft() {
		t.Fatal("empty content produced a draft")
	}
	if got := kv.puts(); got != 0 {
		t.Fatalf("empty content wrote %d times", got)
	}
}

func TestAutoSaveEmptyAfterEditCancelsPendingSave(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()

	saver.Update("doomed paragraph")
	saver.Update("")
	time.Sleep(5 * testDebounce)
	if got := kv.puts(); got != 0 {
		t.Fatalf("cancelled edit still wrote %d times", got)
	}
}

func TestAutoSaveFlushSkipsDebounce(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: time.Minute})
	defer saver.Stop()

	saver.Update("closing the editor mid-thought")
	saver.Flush(context.Background())

	if got := kv.puts(); got != 1 {
		t.Fatalf("flush wrote %d times, want 1", got)
	}
	fresh := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1"})
	if got := fresh.Restore(context.Background()); got != "closing the editor mid-thought" {
		t.Fatalf("Restore after flush = %q", got)
	}
}

func TestAutoSaveDiscard(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()

	saver.Update("kept for a moment")
	waitFor(t, "draft to persist", saver.HasDraft)

	saver.Discard(context.Background())
	if saver.HasDraft() {
		t.Fatal("discard left the in-memory draft")
	}
	if got := saver.Restore(context.Background()); got != "" {
		t.Fatalf("Restore after discard = %q", got)
	}
}

func TestAutoSaveStorageFailureDegradesToMemory(t *testing.T) {
	t.Parallel()
	kv := newMemKV()
	kv.failPuts = true
	saver := NewAutoSaver(kv, AutoSaverOpts{Key: "chapter:p1:c1", Debounce: testDebounce})
	defer saver.Stop()

	saver.Update("unpersistable")
	waitFor(t, "in-memory mirror despite failed write", saver.HasDraft)
	if d := saver.Draft(); d == nil || d.Content != "unpersistable" {
		t.Fatalf("draft = %+v", d)
	}

	// Editing keeps working; each quiet period retries the write.
	saver.Update("still typing")
	waitFor(t, "second save attempt", func() bool { return kv.puts() >= 2 })
	if d := saver.Draft(); d == nil || d.Content != "still typing" {
		t.Fatalf("draft = %+v", d)
	}
}

func TestAutoSaveRestoreWithNothingStored(t *testing.T) {
	t.Parallel()
	st := store.Store{Dir: t.TempDir()}
	saver := NewAutoSaver(st, AutoSaverOpts{Key: "chapter:p1:c1"})
	if got := saver.Restore(context.Background()); got != "" {
		t.Fatalf("Restore = %q, want empty", got)
	}
	if saver.HasDraft() {
		t.Fatal("empty restore claimed a draft")
	}
}
