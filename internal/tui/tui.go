// Package tui is the interactive studio browser: projects, chapters, draft
// editing with auto-save, reading mode and the operation history, all backed
// by the same state stores the CLI uses.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"inkwell-cli/internal/api"
	"inkwell-cli/internal/config"
	"inkwell-cli/internal/store"
)

type Options struct {
	Studio *api.Client
	Store  store.Store
	TUI    config.TUIConfig
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyAppearancePreference(opts.TUI.Profile)
	applyGlyphPreference(opts.TUI.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
