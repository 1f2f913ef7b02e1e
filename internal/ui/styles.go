package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ANSI256 color codes for the status highlights.
const (
	colorOverdue  = 203 // red
	colorDueToday = 221 // yellow
	colorMuted    = 245 // medium gray
	colorAccent   = 74  // blue
)

var noColor bool

// RenderOverdue returns s highlighted as an overdue communication (red).
func RenderOverdue(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorOverdue, s)
}

// RenderDueToday returns s highlighted as due today (yellow).
func RenderDueToday(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorDueToday, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Chart styles used by the report bar charts.
var (
	ChartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("74"))
	ChartLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	ChartTitleStyle = lipgloss.NewStyle().Bold(true)
)
