package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
)

// Store is the slice of the local store the exporter reads.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type Options struct {
	Overwrite bool
}

type Result struct {
	Written []string `json:"written"`
}

// WriteDrafts renders saved drafts as markdown files under toDir/drafts,
// plus an index.md linking them. With no keys it exports every saved draft.
func WriteDrafts(ctx context.Context, st Store, toDir string, keys []string, opt Options) (Result, error) {
	if st == nil {
		return Result{}, errors.New("missing store")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return Result{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	if len(keys) == 0 {
		stored, err := st.Keys(ctx, state.DraftKeyPrefix)
		if err != nil {
			return Result{}, err
		}
		for _, k := range stored {
			keys = append(keys, strings.TrimPrefix(k, state.DraftKeyPrefix))
		}
	}
	sort.Strings(keys)

	outDir := filepath.Join(toDir, "drafts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, err
	}

	// Write draft pages first (stop on first error), then the index.
	written := make([]string, 0, len(keys)+1)
	type indexEntry struct {
		key   string
		file  string
		draft model.Draft
	}
	index := make([]indexEntry, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		var draft model.Draft
		ok, err := st.Get(ctx, state.DraftKey(key), &draft)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, fmt.Errorf("draft not found: %s", key)
		}
		file := fileName(key) + ".md"
		p := filepath.Join(outDir, file)
		if err := writeFile(p, []byte(RenderDraftMarkdown(key, draft)), opt.Overwrite); err != nil {
			return Result{}, err
		}
		written = append(written, p)
		index = append(index, indexEntry{key: key, file: file, draft: draft})
	}

	var buf bytes.Buffer
	buf.WriteString("# Drafts\n\n")
	for _, e := range index {
		fmt.Fprintf(&buf, "- [%s](%s) (%s, %d words)\n",
			e.key, e.file, e.draft.SavedAt.UTC().Format("2006-01-02"), wordCount(e.draft.Content))
	}
	indexPath := filepath.Join(outDir, "index.md")
	if err := writeFile(indexPath, buf.Bytes(), opt.Overwrite); err != nil {
		return Result{}, err
	}
	written = append(written, indexPath)

	return Result{Written: written}, nil
}

// RenderDraftMarkdown renders one saved draft as a standalone markdown page.
func RenderDraftMarkdown(key string, draft model.Draft) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Draft: " + strings.TrimSpace(key))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- Key: " + strings.TrimSpace(key))
	writeLn("- Saved: " + draft.SavedAt.UTC().Format(time.RFC3339))
	writeLn(fmt.Sprintf("- Words: %d", wordCount(draft.Content)))

	content := strings.TrimSpace(draft.Content)
	if content != "" {
		writeLn("")
		writeLn("## Content")
		writeLn("")
		writeLn(content)
	}

	return buf.String()
}

// fileName maps an opaque draft key to a safe file name. Keys use ':' as a
// segment separator; anything outside [A-Za-z0-9._-] becomes '-'.
func fileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "draft"
	}
	return name
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
