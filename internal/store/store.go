package store

import (
	"os"
	"path/filepath"
	"strings"
)

const stateFileName = "state.sqlite"

// Store anchors all local persistence under one directory. Everything in it
// is an offline convenience; the studio backend stays authoritative and the
// directory can be deleted without losing real data.
type Store struct {
	Dir string
}

// DefaultDir resolves the state directory: $INKWELL_STATE_DIR when set,
// otherwise ~/.inkwell.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("INKWELL_STATE_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inkwell"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) statePath() string {
	return filepath.Join(s.Dir, stateFileName)
}
