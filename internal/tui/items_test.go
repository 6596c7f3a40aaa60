package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"

	"inkwell-cli/internal/model"
)

func TestFmtWordCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{950, "950"},
		{9000, "9000"},
		{10000, "10k"},
		{300000, "300k"},
		{300500, "300500"},
	}
	for _, c := range cases {
		if got := fmtWordCount(c.n); got != c.want {
			t.Errorf("fmtWordCount(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestChapterItemTitleMarksDrafts(t *testing.T) {
	t.Parallel()

	ch := model.Chapter{ID: "c1", Number: 3, Title: "Embers", Status: model.ChapterDraft, WordCount: 1200}
	plain := chapterItem{chapter: ch}.Title()
	if !strings.Contains(plain, "3") || !strings.Contains(plain, "Embers") {
		t.Fatalf("title missing number or name: %q", plain)
	}
	if strings.Contains(plain, glyphPen()) {
		t.Fatalf("no draft, no pen: %q", plain)
	}

	drafted := chapterItem{chapter: ch, hasDraft: true}.Title()
	if !strings.Contains(drafted, glyphPen()) {
		t.Fatalf("draft marker missing: %q", drafted)
	}
}

func TestChapterItemDescriptionSkipsEmptyParts(t *testing.T) {
	t.Parallel()

	ch := model.Chapter{Number: 1, Title: "Embers", Status: model.ChapterRevised, WordCount: 3200}
	desc := chapterItem{chapter: ch}.Description()
	if strings.Contains(desc, "conflicts") {
		t.Fatalf("zero conflicts should be omitted: %q", desc)
	}

	ch.ConflictCount = 2
	ch.Goal = "introduce the ferryman"
	desc = chapterItem{chapter: ch}.Description()
	if !strings.Contains(desc, "2 conflicts") || !strings.Contains(desc, "ferryman") {
		t.Fatalf("description missing parts: %q", desc)
	}
}

func TestSelectProjectByID(t *testing.T) {
	t.Parallel()

	items := []list.Item{
		projectItem{project: model.Project{ID: "p1", Name: "Ash Garden"}},
		projectItem{project: model.Project{ID: "p2", Name: "Night Ferry"}},
	}
	l := newList(items, newProjectCardDelegate())
	l.SetSize(80, 24)

	selectProjectByID(&l, "p2")
	if l.Index() != 1 {
		t.Fatalf("Index = %d, want 1", l.Index())
	}
	selectProjectByID(&l, "nope")
	if l.Index() != 1 {
		t.Fatalf("unknown id should leave selection alone, Index = %d", l.Index())
	}
}
