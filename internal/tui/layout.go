package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// narrowWidth is the terminal width below which dashboard panels stack.
const narrowWidth = 60

// minContentRows keeps tables usable on very short terminals.
const minContentRows = 5

// dashboardPanelWidth returns the width of one dashboard panel: half the
// content area, or all of it on a narrow terminal.
func dashboardPanelWidth(width int) int {
	if width < narrowWidth {
		return width
	}
	return width/2 - 2
}

// Panel renders a bordered panel with the title set into the top border.
func (t *Theme) Panel(title, content string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.SecondaryColor).
		Width(width - 2).
		Padding(0, 1)

	rendered := style.Render(content)
	if title == "" {
		return rendered
	}

	lines := strings.Split(rendered, "\n")
	label := " " + title + " "
	labelWidth := lipgloss.Width(label)
	if labelWidth+4 < width {
		border := lipgloss.NewStyle().Foreground(t.SecondaryColor)
		lines[0] = border.Render("╭─") +
			t.Accent.Bold(true).Render(label) +
			border.Render(strings.Repeat("─", width-labelWidth-3)+"╮")
	}
	return strings.Join(lines, "\n")
}

// SideBySide joins two panel columns with gap spaces between them, or stacks
// them when they do not fit in totalWidth.
func SideBySide(left, right string, totalWidth, gap int) string {
	if lipgloss.Width(left)+lipgloss.Width(right)+gap > totalWidth {
		return left + "\n\n" + right
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
}

// StockGauge draws available stock against its minimum level. A full gauge
// means the minimum is covered; colour tracks how far below it the item is.
func (t *Theme) StockGauge(available, minimum decimal.Decimal, width int) string {
	cells := width - 2
	if cells < 4 {
		cells = 4
	}

	filled := cells
	ratio := decimal.NewFromInt(1)
	if minimum.IsPositive() {
		ratio = decimal.Max(decimal.Zero, decimal.Min(available.Div(minimum), ratio))
		filled = int(ratio.Mul(decimal.NewFromInt(int64(cells))).IntPart())
	}

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", cells-filled) + "]"
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return t.Success.Render(bar)
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.5)):
		return t.Warning.Render(bar)
	default:
		return t.Error.Render(bar)
	}
}

// Truncate cuts s to maxWidth display cells, ending in an ellipsis when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight fills s with trailing spaces up to width display cells.
func PadRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// ContentWidth clamps the terminal width to [minWidth, maxWidth]. A zero
// maxWidth leaves the upper end open.
func ContentWidth(termWidth, minWidth, maxWidth int) int {
	w := max(termWidth, minWidth)
	if maxWidth > 0 {
		w = min(w, maxWidth)
	}
	return w
}

// ContentHeight returns the rows left for a table once chromeLines of header,
// footer and alert bar are taken.
func ContentHeight(termHeight, chromeLines int) int {
	return max(termHeight-chromeLines, minContentRows)
}
