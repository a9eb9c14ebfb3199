package viewmodel

import (
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/planner/pkg/record"
)

// Event pill palette. The order matters: positional fallback coloring
// indexes into it, so reordering repaints every uncategorized event.
var palette = []lipgloss.Color{
	lipgloss.Color("#4DAF6F"), // green
	lipgloss.Color("#F3B5B5"), // pink
	lipgloss.Color("#8CA7CF"), // blue
	lipgloss.Color("#E9DFC9"), // beige
}

var categoryColors = map[record.EventCategory]lipgloss.Color{
	record.CategorySchool:   palette[2],
	record.CategoryWork:     palette[0],
	record.CategoryPersonal: palette[1],
	record.CategoryOther:    palette[3],
}

// ColorForCategory maps a known category to its fixed color. Unknown or
// absent categories take a palette entry by list position, so re-rendering
// the same list in the same order stays visually stable.
func ColorForCategory(category record.EventCategory, fallbackIndex int) lipgloss.Color {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	if fallbackIndex < 0 {
		fallbackIndex = -fallbackIndex
	}
	return palette[fallbackIndex%len(palette)]
}

// PaletteSize reports the number of fallback colors.
func PaletteSize() int {
	return len(palette)
}
