// Package output provides styled terminal rendering helpers for meshctl.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorHigh is used for high-value scores and active nodes.
	ColorHigh = lipgloss.Color("#66bb6a")

	// ColorLow is used for low-value scores and dormant nodes.
	ColorLow = lipgloss.Color("#ef5350")

	// ColorWarning is used for mid-band values.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleHigh is used for strong scores.
	StyleHigh = lipgloss.NewStyle().
			Foreground(ColorHigh)

	// StyleLow is used for weak scores.
	StyleLow = lipgloss.NewStyle().
			Foreground(ColorLow)

	// StyleWarning is used for mid-band scores.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleMuted is used for de-emphasized text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleBold is used for emphasized text.
	StyleBold = lipgloss.NewStyle().
			Bold(true)
)

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally.
// When disabled, all package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleHigh = plain
		StyleLow = plain
		StyleWarning = plain
		StyleMuted = plain
		StyleBold = plain
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// AutoDetect disables color when stdout is not a terminal.
func AutoDetect() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		SetNoColor(true)
	}
}

// Section renders a styled section header.
func Section(title string) string {
	return StyleHeader.Render("== " + title + " ==")
}

// ScoreStyle picks a style band for a strategic value score.
func ScoreStyle(value float64) lipgloss.Style {
	switch {
	case value > 60:
		return StyleHigh
	case value >= 40:
		return StyleWarning
	default:
		return StyleLow
	}
}
