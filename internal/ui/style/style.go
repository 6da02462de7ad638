// Package style holds the palette and glyphs used when rendering build output.
package style

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Muted is used for routine progress lines.
	Muted = lipgloss.Color("#667085")
	// Stage tints the stage tag in front of a line.
	Stage = lipgloss.Color("#8B5CF6")
	// Caution marks recoverable conditions such as the assembler retry.
	Caution = lipgloss.Color("#F59E0B")
	// Failure marks errors.
	Failure = lipgloss.Color("#D93025")
)

// Arrow introduces each cause in a rendered error chain.
const Arrow = "→"

// Marker is the glyph and color a line is rendered with.
type Marker struct {
	Glyph string
	Color lipgloss.Color
}

// ForLevel picks the marker for a log level. Info and debug lines have no glyph.
func ForLevel(level slog.Level) Marker {
	switch {
	case level >= slog.LevelError:
		return Marker{Glyph: "✗", Color: Failure}
	case level >= slog.LevelWarn:
		return Marker{Glyph: "!", Color: Caution}
	default:
		return Marker{Color: Muted}
	}
}
