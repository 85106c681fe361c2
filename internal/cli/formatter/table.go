package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableOption adjusts how RenderTable lays out columns.
type TableOption func(*tableLayout)

type tableLayout struct {
	rightFrom int
	footer    []string
}

// AlignRightFrom right-aligns every column at index col and beyond.
// Numeric month columns use this so digits line up.
func AlignRightFrom(col int) TableOption {
	return func(l *tableLayout) { l.rightFrom = col }
}

// WithFooter appends a totals row below a second separator.
func WithFooter(row []string) TableOption {
	return func(l *tableLayout) { l.footer = row }
}

// RenderTable renders an aligned table with a header separator line.
// Column widths are measured on visible width, so cells may carry ANSI
// styling or wide runes.
func RenderTable(headers []string, rows [][]string, opts ...TableOption) string {
	if len(headers) == 0 {
		return ""
	}
	layout := tableLayout{rightFrom: -1}
	for _, opt := range opts {
		opt(&layout)
	}

	cols := len(headers)
	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	if layout.footer != nil {
		measure(layout.footer)
	}

	const colGap = 2
	var b strings.Builder

	writeRow := func(row []string, style func(...string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if pad < 0 {
				pad = 0
			}
			if style != nil {
				cell = style(cell)
			}
			right := layout.rightFrom >= 0 && i >= layout.rightFrom
			if right {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(cell)
			if i < cols-1 {
				gap := colGap
				if !right {
					gap += pad
				}
				b.WriteString(strings.Repeat(" ", gap))
			}
		}
		b.WriteString("\n")
	}
	writeSeparator := func() {
		for i, w := range widths {
			b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, StyleHeader.Render)
	writeSeparator()
	for _, row := range rows {
		writeRow(row, nil)
	}
	if layout.footer != nil {
		writeSeparator()
		writeRow(layout.footer, StyleBold.Render)
	}

	return b.String()
}
