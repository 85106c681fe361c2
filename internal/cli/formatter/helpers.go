package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatDays renders a day count with thousands separators, e.g. "1,250".
func FormatDays(n int) string {
	return numbers.Sprintf("%d", n)
}

// RoundTenth rounds half away from zero to one decimal place.
func RoundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// FormatBurnRate renders a burn rate as "12.5 days/mo".
func FormatBurnRate(rate float64) string {
	return fmt.Sprintf("%.1f days/mo", RoundTenth(rate))
}

// Truncate shortens s to at most width terminal cells, ending in "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s within width terminal cells.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
