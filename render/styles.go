// ABOUTME: Colours and lipgloss styles for node kinds, borders, ports, and wires.
// ABOUTME: Kind colours are shared by the terminal canvas and the PNG rasteriser.
package render

import "github.com/charmbracelet/lipgloss"

// DefaultKindColor is used for nodes without a recognised kind.
const DefaultKindColor = "#5a5f66"

var kindColors = map[string]string{
	"function":   "#3b6fb6",
	"event":      "#b33a3a",
	"expression": "#3e8e41",
	"getter":     "#7a4fb3",
	"setter":     "#b3873a",
}

// KindColor returns the hex header colour for a node kind.
func KindColor(kind string) string {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return DefaultKindColor
}

var (
	// Box outline and body text
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	// Port markers
	PortStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	// Connection curves
	WireStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// HeaderStyle returns the title style for a node kind.
func HeaderStyle(kind string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(KindColor(kind)))
}
