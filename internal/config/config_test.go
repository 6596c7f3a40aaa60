package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("INKWELL_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("api base = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("timeout = %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.Format != "json" {
		t.Fatalf("format = %q", cfg.Format)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKWELL_CONFIG_DIR", dir)
	raw := "api_base_url: http://studio.local:9000\ntui:\n  glyphs: ascii\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://studio.local:9000" {
		t.Fatalf("api base = %q", cfg.APIBaseURL)
	}
	if cfg.TUI.Glyphs != "ascii" {
		t.Fatalf("glyphs = %q", cfg.TUI.Glyphs)
	}
	if cfg.RequestTimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("partial file lost the timeout default: %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKWELL_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_base_url: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("broken yaml loaded silently")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("INKWELL_CONFIG_DIR", t.TempDir())

	want := Default()
	want.APIBaseURL = "http://127.0.0.1:8765"
	want.TUI.Profile = "parchment"
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.APIBaseURL != want.APIBaseURL || got.TUI.Profile != want.TUI.Profile {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}
