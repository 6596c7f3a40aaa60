package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
	"inkwell-cli/internal/store"
)

func seededStore(t *testing.T) store.Store {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	ctx := context.Background()
	saved := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	drafts := map[string]model.Draft{
		"chapter:p1:c1":    {Content: "The ferry left at dawn.", SavedAt: saved},
		"chapter:p1:c2":    {Content: "Rain again. **Always** rain.", SavedAt: saved.Add(time.Hour)},
		"project:p1:notes": {Content: "Keep the ferryman off-page until act two.", SavedAt: saved},
	}
	for k, d := range drafts {
		if err := st.Put(ctx, state.DraftKey(k), d); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	return st
}

func TestRenderDraftMarkdown_SectionsAndMeta(t *testing.T) {
	t.Parallel()

	draft := model.Draft{
		Content: "The ferry left at dawn.",
		SavedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	md := RenderDraftMarkdown("chapter:p1:c1", draft)
	if !strings.Contains(md, "# Draft: chapter:p1:c1") {
		t.Fatalf("expected title header, got:\n%s", md)
	}
	if !strings.Contains(md, "- Saved: 2026-03-14T09:00:00Z") {
		t.Fatalf("expected saved timestamp, got:\n%s", md)
	}
	if !strings.Contains(md, "- Words: 5") {
		t.Fatalf("expected word count, got:\n%s", md)
	}
	if !strings.Contains(md, "## Content") || !strings.Contains(md, "The ferry left at dawn.") {
		t.Fatalf("expected content section, got:\n%s", md)
	}
}

func TestWriteDrafts_ExportsAllWithIndex(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	to := t.TempDir()
	res, err := WriteDrafts(context.Background(), st, to, nil, Options{})
	if err != nil {
		t.Fatalf("WriteDrafts: %v", err)
	}
	if len(res.Written) != 4 {
		t.Fatalf("expected 3 drafts + index; got %d (%v)", len(res.Written), res.Written)
	}

	page := filepath.Join(to, "drafts", "chapter-p1-c1.md")
	if _, err := os.Stat(page); err != nil {
		t.Fatalf("stat draft page: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(to, "drafts", "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	idx := string(b)
	if !strings.Contains(idx, "[chapter:p1:c1](chapter-p1-c1.md)") {
		t.Fatalf("index missing link:\n%s", idx)
	}
	if !strings.Contains(idx, "[project:p1:notes](project-p1-notes.md)") {
		t.Fatalf("index missing notes link:\n%s", idx)
	}
}

func TestWriteDrafts_RefusesOverwriteByDefault(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	to := t.TempDir()
	if _, err := WriteDrafts(context.Background(), st, to, []string{"chapter:p1:c1"}, Options{}); err != nil {
		t.Fatalf("first export: %v", err)
	}
	_, err := WriteDrafts(context.Background(), st, to, []string{"chapter:p1:c1"}, Options{})
	if err == nil || !strings.Contains(err.Error(), "file exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := WriteDrafts(context.Background(), st, to, []string{"chapter:p1:c1"}, Options{Overwrite: true}); err != nil {
		t.Fatalf("overwrite export: %v", err)
	}
}

func TestWriteDrafts_UnknownKey(t *testing.T) {
	t.Parallel()

	st := seededStore(t)
	_, err := WriteDrafts(context.Background(), st, t.TempDir(), []string{"chapter:p9:c9"}, Options{})
	if err == nil || !strings.Contains(err.Error(), "draft not found") {
		t.Fatalf("expected draft-not-found, got %v", err)
	}
}
