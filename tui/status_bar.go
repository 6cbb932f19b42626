// ABOUTME: Implements a single-line status bar for the bottom of the TUI showing graph size and drag state.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays session status in a single line.
type StatusBarModel struct {
	name        string
	nodes       int
	connections int
	dragState   string
	dragNode    string
	width       int
}

// NewStatusBarModel creates a status bar for the named graph.
func NewStatusBarModel(name string) StatusBarModel {
	return StatusBarModel{name: name, dragState: "idle"}
}

// SetCounts updates the node and connection totals.
func (m *StatusBarModel) SetCounts(nodes, connections int) {
	m.nodes = nodes
	m.connections = connections
}

// SetDrag updates the drag state and the dragged node's name.
func (m *StatusBarModel) SetDrag(state, node string) {
	m.dragState = state
	m.dragNode = node
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	drag := m.dragState
	if m.dragNode != "" {
		drag += " " + m.dragNode
	}
	content := fmt.Sprintf("Graph: %s | %d nodes | %d connections | Drag: %s",
		m.name, m.nodes, m.connections, drag)

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
