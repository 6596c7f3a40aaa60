package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Common semantic colors. The working set is mutable so appearance profiles
// can restyle the whole TUI; the default* values are the reset baseline.
var (
	defaultColorMuted lipgloss.TerminalColor = ac("240", "243")
	colorMuted                               = defaultColorMuted

	// Headings, breadcrumbs and other secondary chrome.
	defaultColorChromeFg lipgloss.TerminalColor = ac("240", "245")
	colorChromeFg                               = defaultColorChromeFg

	defaultColorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceBg                               = defaultColorSurfaceBg
	defaultColorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorSurfaceFg                               = defaultColorSurfaceFg

	// Slightly elevated surface for controls/inputs so they stay visible on
	// light terminals.
	defaultColorControlBg lipgloss.TerminalColor = ac("252", "236")
	colorControlBg                               = defaultColorControlBg

	defaultColorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedBg                               = defaultColorSelectedBg
	defaultColorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSelectedFg                               = defaultColorSelectedFg

	// Card borders: soft when unselected so the selection stands out.
	defaultColorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorCardBorder                                   = defaultColorCardBorder
	defaultColorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorSelectedBorder                               = defaultColorSelectedBorder

	defaultColorAccent lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccent                               = defaultColorAccent

	defaultColorError lipgloss.TerminalColor = ac("160", "203")
	colorError                               = defaultColorError
	defaultColorWarn  lipgloss.TerminalColor = ac("130", "179")
	colorWarn                                = defaultColorWarn
	defaultColorOK    lipgloss.TerminalColor = ac("28", "78")
	colorOK                                  = defaultColorOK

	// Small secondary labels inside cards.
	defaultColorCardMetaFg lipgloss.TerminalColor = ac("238", "250")
	colorCardMetaFg                               = defaultColorCardMetaFg
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleWarn() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorWarn)
}

func styleOK() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorOK)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors
// in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal's
// capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector reports,
	// trust the env. Color probing under-reports on some terminals, which
	// would leave the whole UI in degraded grays.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Some terminals don't reliably report their background, which can make
// AdaptiveColor pick the wrong variant (dark palette on a light theme).
//
// Priority:
// 1) INKWELL_TUI_THEME=light|dark|auto
// 2) INKWELL_TUI_DARKBG=true|false
// 3) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference() {
	if v := strings.TrimSpace(os.Getenv("INKWELL_TUI_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		case "auto":
			// fallthrough to heuristics
		default:
			// Unknown value: ignore.
		}
	}

	if v := strings.TrimSpace(os.Getenv("INKWELL_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	// COLORFGBG is often "fg;bg" (sometimes more segments); use the last
	// segment as bg. Common xterm palette: 0-6 dark, 7-15 light.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
			return
		}
	}
}

type appearanceProfileID string

const (
	appearanceDefault   appearanceProfileID = "default"
	appearanceParchment appearanceProfileID = "parchment"
	appearanceInkstone  appearanceProfileID = "inkstone"
)

var (
	appearanceMu      sync.RWMutex
	currentAppearance = appearanceDefault
)

func resetAppearancePalette() {
	colorMuted = defaultColorMuted
	colorChromeFg = defaultColorChromeFg
	colorSurfaceBg = defaultColorSurfaceBg
	colorSurfaceFg = defaultColorSurfaceFg
	colorControlBg = defaultColorControlBg
	colorSelectedBg = defaultColorSelectedBg
	colorSelectedFg = defaultColorSelectedFg
	colorCardBorder = defaultColorCardBorder
	colorSelectedBorder = defaultColorSelectedBorder
	colorAccent = defaultColorAccent
	colorError = defaultColorError
	colorWarn = defaultColorWarn
	colorOK = defaultColorOK
	colorCardMetaFg = defaultColorCardMetaFg
}

// applyAppearancePreference picks the appearance profile. The env override
// wins over the config file value so a profile can be tried without editing
// config.
func applyAppearancePreference(configProfile string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("INKWELL_TUI_PROFILE")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configProfile))
	}
	switch appearanceProfileID(v) {
	case appearanceParchment:
		setAppearanceProfile(appearanceParchment)
	case appearanceInkstone:
		setAppearanceProfile(appearanceInkstone)
	case appearanceDefault, "":
		setAppearanceProfile(appearanceDefault)
	default:
		// Unknown value: ignore.
	}
}

func setAppearanceProfile(id appearanceProfileID) {
	appearanceMu.Lock()
	defer appearanceMu.Unlock()

	switch id {
	case appearanceParchment:
		currentAppearance = appearanceParchment
		resetAppearancePalette()

		// Warm writing-desk palette. Dark variant is "parchment-inspired"
		// for OS-dark terminals.
		colorSurfaceBg = ac("#f6efe0", "#1f1b14")
		colorSurfaceFg = ac("#3f3628", "#d8cdb4")
		colorControlBg = ac("#efe6d2", "#2a251b")
		colorSelectedBg = ac("#e4d8bd", "#3a3323")
		colorSelectedFg = ac("#2c2619", "#efe6ce")
		colorCardBorder = ac("#d5c8a8", "#4a4130")
		colorSelectedBorder = ac("#6b5d3f", "#cbbb92")
		colorAccent = ac("#8a5a2b", "#c8973f")
		colorMuted = ac("#877a5e", "#8d8266")
		colorChromeFg = ac("#6f6448", "#9c9172")
		colorCardMetaFg = ac("#6f6448", "#a99d7d")
	case appearanceInkstone:
		currentAppearance = appearanceInkstone
		resetAppearancePalette()

		// Cool gray-blue palette, low chroma.
		colorSurfaceBg = ac("#f2f4f6", "#14171c")
		colorSurfaceFg = ac("#30363d", "#c9d1d9")
		colorControlBg = ac("#e8ecf0", "#1d222a")
		colorSelectedBg = ac("#d9e0e8", "#2b3340")
		colorSelectedFg = ac("#1f2429", "#e6edf3")
		colorCardBorder = ac("#c4ccd6", "#39414d")
		colorSelectedBorder = ac("#39414d", "#c4ccd6")
		colorAccent = ac("#2f6feb", "#6ca0f5")
		colorMuted = ac("#6e7781", "#8b949e")
		colorChromeFg = ac("#57606a", "#8b949e")
		colorCardMetaFg = ac("#57606a", "#9aa4ae")
	default:
		currentAppearance = appearanceDefault
		resetAppearancePalette()
	}
}

func appearanceProfile() appearanceProfileID {
	appearanceMu.RLock()
	defer appearanceMu.RUnlock()
	return currentAppearance
}
