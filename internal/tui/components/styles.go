// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the palette shared by tables, inputs and forms.
type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	RowAlt   lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Focus    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Title    lipgloss.Style
}

// DefaultStyles returns the amber palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#FFAA00")
	secondary := lipgloss.Color("#AA7700")
	accent := lipgloss.Color("#FFCC66")
	muted := lipgloss.Color("#664400")

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Row:      lipgloss.NewStyle().Foreground(primary),
		RowAlt:   lipgloss.NewStyle().Foreground(secondary),
		Selected: lipgloss.NewStyle().Background(primary).Foreground(lipgloss.Color("#000000")),
		Border:   lipgloss.NewStyle().Foreground(secondary),
		Label:    lipgloss.NewStyle().Foreground(secondary).Width(18),
		Value:    lipgloss.NewStyle().Foreground(primary),
		Focus:    lipgloss.NewStyle().Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")),
		Title:    lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

// fit truncates s to width display cells, ending with an ellipsis when cut.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// align pads s to width display cells.
func align(s string, width int, pos lipgloss.Position) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch pos {
	case lipgloss.Right:
		return strings.Repeat(" ", gap) + s
	case lipgloss.Center:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
