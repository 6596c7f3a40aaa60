package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ProjectID string `json:"project_id"`
	WordCount int    `json:"word_count"`
	Taboos    []string
}

func TestWriteJSONCompactAndPretty(t *testing.T) {
	t.Parallel()
	v := sample{ProjectID: "p1", WordCount: 1200}

	var compact bytes.Buffer
	if err := Write(&compact, v, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := compact.String(); !strings.HasPrefix(got, `{"project_id":"p1"`) {
		t.Fatalf("compact output: %q", got)
	}

	var pretty bytes.Buffer
	if err := Write(&pretty, v, "", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := pretty.String(); !strings.Contains(got, "\n  \"project_id\": \"p1\"") {
		t.Fatalf("pretty output: %q", got)
	}
}

func TestWriteYAMLUsesJSONFieldNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, sample{ProjectID: "p1", WordCount: 1200}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "project_id: p1") {
		t.Fatalf("yaml keys did not follow json tags: %q", got)
	}
	if !strings.Contains(got, "word_count: 1200") {
		t.Fatalf("yaml output: %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, sample{}, "toml", false); err == nil {
		t.Fatal("unknown format accepted")
	}
}
