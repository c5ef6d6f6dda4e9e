package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pickerItem is one row in a vertical list.
type pickerItem struct {
	Label  string
	Desc   string
	Marked bool
}

// renderPicker draws items with an arrow on the cursor row. Marked rows
// get a check after the label.
func renderPicker(items []pickerItem, cursor int, pal palette) string {
	var b strings.Builder

	activeStyle := lipgloss.NewStyle().Foreground(pal.Accent).Bold(true)
	arrowStyle := lipgloss.NewStyle().Foreground(pal.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(pal.Help)

	for i, item := range items {
		label := item.Label
		if item.Marked {
			label += " ✓"
		}
		line := fmt.Sprintf(" %-26s %s", label, item.Desc)
		if i == cursor {
			b.WriteString(arrowStyle.Render("▸") + activeStyle.Render(line))
		} else {
			b.WriteString(" " + dimStyle.Render(line))
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// moveCursor returns cursor moved by delta, clamped to [0, n).
func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	cursor += delta
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
