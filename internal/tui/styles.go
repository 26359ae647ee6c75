// Package tui provides the terminal user interface for brewops.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brewops/brewops/internal/config"
	"github.com/brewops/brewops/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color
	MutedColor     lipgloss.Color
	ErrorColor     lipgloss.Color
	WarningColor   lipgloss.Color
	SuccessColor   lipgloss.Color

	Base    lipgloss.Style
	Primary lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Selected  lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style

	StatusDivider lipgloss.Style
}

// NewTheme creates a theme for the configured palette. Unknown names fall back to amber.
func NewTheme(theme config.Theme) *Theme {
	switch theme {
	case config.ThemeGreen:
		return newGreenTheme()
	default:
		return newAmberTheme()
	}
}

// newAmberTheme is the copper-kettle palette.
func newAmberTheme() *Theme {
	return buildTheme(
		lipgloss.Color("#FFAA00"), // primary
		lipgloss.Color("#AA7700"), // secondary
		lipgloss.Color("#FFCC66"), // accent
		lipgloss.Color("#664400"), // muted
		lipgloss.Color("#FF4444"), // error
		lipgloss.Color("#FFFF00"), // warning
		lipgloss.Color("#88DD44"), // success
	)
}

// newGreenTheme is the hop-green palette.
func newGreenTheme() *Theme {
	return buildTheme(
		lipgloss.Color("#00FF00"),
		lipgloss.Color("#00AA00"),
		lipgloss.Color("#66FF66"),
		lipgloss.Color("#006600"),
		lipgloss.Color("#FF4444"),
		lipgloss.Color("#FFAA00"),
		lipgloss.Color("#00FF00"),
	)
}

func buildTheme(primary, secondary, accent, muted, errorColor, warningColor, successColor lipgloss.Color) *Theme {
	background := lipgloss.Color("#000000")

	t := &Theme{
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		AccentColor:    accent,
		MutedColor:     muted,
		ErrorColor:     errorColor,
		WarningColor:   warningColor,
		SuccessColor:   successColor,
	}

	t.Base = lipgloss.NewStyle().Foreground(primary)
	t.Primary = lipgloss.NewStyle().Foreground(primary)
	t.Accent = lipgloss.NewStyle().Foreground(accent)
	t.Error = lipgloss.NewStyle().Foreground(errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(warningColor)
	t.Success = lipgloss.NewStyle().Foreground(successColor)
	t.Muted = lipgloss.NewStyle().Foreground(muted)

	// Header - top bar with brewery info
	t.Header = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)

	t.Label = lipgloss.NewStyle().
		Foreground(secondary)

	t.Value = lipgloss.NewStyle().
		Foreground(primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 1)

	t.Selected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true)

	t.Alert = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)

	t.AlertWarn = lipgloss.NewStyle().
		Foreground(warningColor).
		Bold(true)

	t.AlertCrit = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.TableRow = lipgloss.NewStyle().
		Foreground(primary)

	t.TableRowAlt = lipgloss.NewStyle().
		Foreground(secondary)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(muted).
		SetString(" │ ")

	return t
}

// Components returns the palette used by tables, inputs and forms.
func (t *Theme) Components() components.Styles {
	return components.Styles{
		Header:   t.TableHeader,
		Row:      t.TableRow,
		RowAlt:   t.TableRowAlt,
		Selected: t.Selected,
		Border:   lipgloss.NewStyle().Foreground(t.SecondaryColor),
		Label:    t.Label.Width(18),
		Value:    t.Value,
		Focus:    t.Accent,
		Muted:    t.Muted,
		Error:    t.Error,
		Title:    t.Title,
	}
}

// Box characters for drawing
const (
	BoxHorizontal       = "─"
	BoxDoubleHorizontal = "═"
)

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	if width < 0 {
		width = 0
	}
	return t.Muted.Render(strings.Repeat(BoxHorizontal, width))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	if width < 0 {
		width = 0
	}
	return t.Primary.Render(strings.Repeat(BoxDoubleHorizontal, width))
}
