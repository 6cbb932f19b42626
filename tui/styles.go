// ABOUTME: Defines lipgloss style constants for the TUI panels, status bar, and drag log formatting.
// ABOUTME: Node and wire colours live in the render package; these cover the chrome around the canvas.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Log event colors
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogEventStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	LogSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LogCancelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)
