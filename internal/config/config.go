// Package config loads the optional client configuration from
// ~/.inkwell/config.yaml. Every field has a default, so a missing file is
// not an error; flags and environment variables override whatever the file
// says.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL     = "http://127.0.0.1:8000"
	DefaultTimeoutSeconds = 30
)

type Config struct {
	// APIBaseURL is the studio backend address.
	APIBaseURL string `yaml:"api_base_url,omitempty" json:"api_base_url,omitempty"`

	// RequestTimeoutSeconds bounds every backend call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty" json:"request_timeout_seconds,omitempty"`

	// StateDir overrides where drafts, history and UI state live.
	StateDir string `yaml:"state_dir,omitempty" json:"state_dir,omitempty"`

	// Format is the default CLI output format (json|yaml).
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	TUI TUIConfig `yaml:"tui,omitempty" json:"tui,omitempty"`
}

// TUIConfig holds user preferences for the interactive TUI.
type TUIConfig struct {
	// Profile is the appearance profile id (e.g. "default", "parchment").
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`
	// Glyphs selects the glyph set (e.g. "unicode", "ascii").
	Glyphs string `yaml:"glyphs,omitempty" json:"glyphs,omitempty"`
}

func Default() Config {
	return Config{
		APIBaseURL:            DefaultAPIBaseURL,
		RequestTimeoutSeconds: DefaultTimeoutSeconds,
		Format:                "json",
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.inkwell).
	if v := strings.TrimSpace(os.Getenv("INKWELL_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inkwell"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file, filling unset fields with defaults. A missing
// file yields the defaults; a file that does not parse is an error so typos
// fail loudly instead of being silently ignored.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

// normalized maps explicitly empty values back to their defaults.
func (c Config) normalized() Config {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = DefaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = "json"
	}
	return c
}

// Save writes the config atomically so a crash mid-write cannot leave a
// half-file behind.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "config.yaml.*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, 0o600)
	return os.Rename(tmp, path)
}
