package tui

import (
	"strings"
	"testing"
)

func clearMarkdownEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INKWELL_TUI_MD_STYLE", "")
	t.Setenv("INKWELL_TUI_THEME", "")
	t.Setenv("INKWELL_TUI_DARKBG", "")
	t.Setenv("COLORFGBG", "")
}

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	clearMarkdownEnv(t)

	t.Setenv("INKWELL_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("INKWELL_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_MDStyleOverridesTheme(t *testing.T) {
	clearMarkdownEnv(t)
	t.Setenv("INKWELL_TUI_THEME", "dark")

	t.Setenv("INKWELL_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
}

func TestMarkdownStyle_ColorFgBgFallback(t *testing.T) {
	clearMarkdownEnv(t)

	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark for bg=0; got %q", got)
	}

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light for bg=15; got %q", got)
	}
}

func TestRenderMarkdown_WrapsAndTrims(t *testing.T) {
	clearMarkdownEnv(t)
	t.Setenv("INKWELL_TUI_MD_STYLE", "dark")

	out := renderMarkdown("# Chapter One\n\nRain again.", 40)
	if out == "" {
		t.Fatal("expected rendered output")
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatal("trailing newlines should be trimmed")
	}
	if !strings.Contains(out, "Chapter One") {
		t.Fatalf("heading text missing from output:\n%s", out)
	}

	if renderMarkdown("   \n\t", 40) != "" {
		t.Fatal("blank input should render empty")
	}
}
