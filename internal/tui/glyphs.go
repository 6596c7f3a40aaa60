package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's font. Instead we choose between
// Unicode and ASCII glyph sets for UI affordances (bullets, separators,
// status marks). This helps on terminals/fonts that don't render some
// glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference resolves the glyph set from INKWELL_TUI_GLYPHS,
// falling back to the config file value.
func applyGlyphPreference(configGlyphs string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("INKWELL_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configGlyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphCheck() string {
	if glyphs() == glyphSetASCII {
		return "+"
	}
	return "✓"
}

func glyphCross() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "✗"
}

func glyphPending() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "…"
}

func glyphMark() string {
	if glyphs() == glyphSetASCII {
		return "[x]"
	}
	return "◆"
}

func glyphPen() string {
	if glyphs() == glyphSetASCII {
		return "#"
	}
	return "✎"
}
