// ABOUTME: Implements a scrollable drag log panel using the bubbles viewport component.
// ABOUTME: Each gesture step is one line, colour-coded by outcome.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/patchbay/drag"
)

// LogEntry is one line of the drag log.
type LogEntry struct {
	Time   time.Time
	Event  drag.EventType
	Node   string
	Detail string
	Err    error
}

// LogPanelModel is a scrollable log of drag events.
type LogPanelModel struct {
	entries  []LogEntry
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewLogPanelModel creates a new log panel with a maximum number of entries.
// If maxEntries is <= 0, it defaults to 200.
func NewLogPanelModel(maxEntries int) LogPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(80, 5)
	return LogPanelModel{
		entries:  make([]LogEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: vp,
	}
}

// Append adds an entry to the log, evicting the oldest entry if at capacity.
func (m *LogPanelModel) Append(e LogEntry) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, e)
	m.syncViewport()
}

// Len returns the number of entries in the log.
func (m LogPanelModel) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the log.
func (m LogPanelModel) Entries() []LogEntry {
	return append([]LogEntry(nil), m.entries...)
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines top/bottom) and title (1 line)
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// View renders the log panel.
func (m LogPanelModel) View() string {
	content := "No drags yet"
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}
	return BorderStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(TitleStyle.Render("DRAG LOG") + "\n" + content)
}

// syncViewport rebuilds the viewport content from entries and scrolls to the bottom.
func (m *LogPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, formatEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry formats a single log entry as a line.
func formatEntry(e LogEntry) string {
	parts := []string{
		LogTimestampStyle.Render(e.Time.Format("15:04:05")),
		entryStyle(e).Render(string(e.Event)),
	}
	if e.Node != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Node))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Err != nil {
		parts = append(parts, LogErrorStyle.Render(e.Err.Error()))
	}
	return strings.Join(parts, " ")
}

func entryStyle(e LogEntry) lipgloss.Style {
	if e.Err != nil {
		return LogErrorStyle
	}
	switch e.Event {
	case drag.EventEnd:
		return LogSuccessStyle
	case drag.EventCancel:
		return LogCancelStyle
	default:
		return LogEventStyle
	}
}
