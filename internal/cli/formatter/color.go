package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorInk    = lipgloss.Color("#1d2021")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleCursor = lipgloss.NewStyle().Foreground(ColorInk).Background(ColorYellow).Bold(true)
)

// heatRamp runs from light to dark blue. Index 0 is reserved for zero days.
var heatRamp = []lipgloss.Color{
	"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1",
	"#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b",
}

// DefaultHeatMax is the day count that maps to the darkest shade.
const DefaultHeatMax = 22

// HeatLevel maps days onto the ramp. Zero stays at level 0, anything at or
// above max lands on the last level.
func HeatLevel(days, max int) int {
	if max <= 0 {
		max = DefaultHeatMax
	}
	if days <= 0 {
		return 0
	}
	top := len(heatRamp) - 1
	if days >= max {
		return top
	}
	level := 1 + (days*(top-1))/max
	if level > top {
		level = top
	}
	return level
}

// HeatStyle returns the cell style for days. Dark shades switch to light text.
func HeatStyle(days, max int) lipgloss.Style {
	level := HeatLevel(days, max)
	if level == 0 {
		return StyleDim
	}
	fg := ColorInk
	if level >= len(heatRamp)/2 {
		fg = lipgloss.Color("#f7fbff")
	}
	return lipgloss.NewStyle().Foreground(fg).Background(heatRamp[level])
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders an error line in red.
func Error(err error) string {
	return StyleRed.Render("Error: " + err.Error())
}
