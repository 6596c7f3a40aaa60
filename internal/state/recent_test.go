package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell-cli/internal/model"
	"inkwell-cli/internal/store"
)

func TestRecentDedupeMovesToFront(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewRecentList(ctx, newMemKV())
	now, advance := testClock(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	r.now = now

	for _, id := range []string{"a", "b", "c"} {
		r.Add(ctx, model.RecentItem{Kind: model.RecentProject, ID: id, Name: "P-" + id})
		advance(time.Minute)
	}
	r.Add(ctx, model.RecentItem{Kind: model.RecentProject, ID: "a", Name: "P-a"})

	items := r.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	gotOrder := []string{items[0].ID, items[1].ID, items[2].ID}
	wantOrder := []string{"a", "c", "b"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
	if !items[0].Timestamp.After(items[1].Timestamp) {
		t.Fatal("re-added item did not get a newer timestamp")
	}
}

func TestRecentCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewRecentList(ctx, newMemKV())

	for i := 1; i <= MaxRecentItems+2; i++ {
		r.Add(ctx, model.RecentItem{
			Kind: model.RecentChapter,
			ID:   fmt.Sprintf("c%d", i),
			Name: fmt.Sprintf("Chapter %d", i),
		})
	}
	items := r.Items()
	if len(items) != MaxRecentItems {
		t.Fatalf("len = %d, want %d", len(items), MaxRecentItems)
	}
	if items[0].ID != "c7" || items[len(items)-1].ID != "c3" {
		t.Fatalf("window wrong: first %s last %s", items[0].ID, items[len(items)-1].ID)
	}
}

func TestRecentPersistRoundTrip(t *testing.T) {
	t.Parallel()
	st := store.Store{Dir: t.TempDir()}
	ctx := context.Background()

	r := NewRecentList(ctx, st)
	r.Add(ctx, model.RecentItem{Kind: model.RecentProject, ID: "p1", Name: "Ash Garden", Path: "Ash Garden"})
	r.Add(ctx, model.RecentItem{
		Kind: model.RecentChapter, ID: "c1", Name: "Smoke",
		Path: "Ash Garden / Ch.1 Smoke", ProjectID: "p1",
	})

	items := NewRecentList(ctx, st).Items()
	if len(items) != 2 {
		t.Fatalf("reloaded %d items, want 2", len(items))
	}
	if items[0].ID != "c1" || items[0].Kind != model.RecentChapter || items[0].ProjectID != "p1" {
		t.Fatalf("head item wrong: %+v", items[0])
	}
	if items[1].ID != "p1" || items[1].Path != "Ash Garden" {
		t.Fatalf("tail item wrong: %+v", items[1])
	}
}

func TestRecentClear(t *testing.T) {
	t.Parallel()
	st := store.Store{Dir: t.TempDir()}
	ctx := context.Background()

	r := NewRecentList(ctx, st)
	r.Add(ctx, model.RecentItem{Kind: model.RecentProject, ID: "p1", Name: "Ash Garden"})
	r.Clear(ctx)
	if got := r.Items(); len(got) != 0 {
		t.Fatalf("items after clear: %+v", got)
	}
	if got := NewRecentList(ctx, st).Items(); len(got) != 0 {
		t.Fatalf("persisted items after clear: %+v", got)
	}
}
