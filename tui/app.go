// ABOUTME: Top-level Bubble Tea AppModel: the graph canvas, a drag log, a status bar, and a help footer.
// ABOUTME: Left-button press on a node header starts a drag; motion moves it; release commits; esc cancels.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/patchbay/drag"
	"github.com/2389-research/patchbay/editor"
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
)

const logPanelHeight = 7

// AppModel is the top-level Bubble Tea model. The session owns all graph state;
// the model only translates terminal input into drag events and draws.
type AppModel struct {
	session   *editor.Session
	log       LogPanelModel
	statusBar StatusBarModel
	help      help.Model
	keys      keyMap

	dragNode graph.NodeID
	showLog  bool
	width    int
	height   int
	now      func() time.Time
}

// NewAppModel creates an AppModel drawing sess, whose scene should use a cell layout.
func NewAppModel(sess *editor.Session, name string) AppModel {
	m := AppModel{
		session:   sess,
		log:       NewLogPanelModel(200),
		statusBar: NewStatusBarModel(name),
		help:      help.New(),
		keys:      defaultKeyMap(),
		showLog:   true,
		now:       time.Now,
	}
	m.refresh()
	return m
}

// Run starts a full-screen program with mouse motion reporting and blocks until it exits.
func Run(ctx context.Context, sess *editor.Session, name string) error {
	p := tea.NewProgram(
		NewAppModel(sess, name),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	m.statusBar.SetWidth(m.width)
	m.log.SetSize(m.width, logPanelHeight)

	var b strings.Builder
	b.WriteString(m.session.Terminal(m.width, m.canvasHeight()))
	if m.showLog {
		b.WriteString("\n")
		b.WriteString(m.log.View())
	}
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// canvasHeight is what remains after the log, status bar, and help footer.
func (m AppModel) canvasHeight() int {
	h := m.height - 1 - m.helpHeight()
	if m.showLog {
		h -= logPanelHeight
	}
	return max(h, 1)
}

func (m AppModel) helpHeight() int {
	if m.help.ShowAll {
		return len(m.keys.FullHelp()[0])
	}
	return 1
}

// Dragging reports whether a gesture is in progress.
func (m AppModel) Dragging() bool {
	return m.dragNode != ""
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := geom.Pt(float64(msg.X), float64(msg.Y))
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.Dragging() || msg.Y >= m.canvasHeight() {
			return m, nil
		}
		id, ok := m.session.NodeAt(p)
		if !ok {
			return m, nil
		}
		m.apply(drag.Event{Type: drag.EventStart, NodeID: id, Pointer: p})
	case tea.MouseActionMotion:
		if m.Dragging() {
			m.apply(drag.Event{Type: drag.EventMove, Pointer: p})
		}
	case tea.MouseActionRelease:
		if m.Dragging() {
			m.apply(drag.Event{Type: drag.EventEnd, Pointer: p})
		}
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.Dragging() {
			m.apply(drag.Event{Type: drag.EventCancel})
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.Dragging() {
			m.apply(drag.Event{Type: drag.EventCancel})
		}
	case key.Matches(msg, m.keys.Log):
		m.showLog = !m.showLog
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// apply sends ev to the session and records the outcome. Moves are only logged on error.
func (m *AppModel) apply(ev drag.Event) {
	node := m.dragNode
	if ev.Type == drag.EventStart {
		node = ev.NodeID
	}
	status, err := m.session.Drag(ev)
	m.dragNode = status.NodeID

	if ev.Type != drag.EventMove || err != nil {
		entry := LogEntry{Time: m.now(), Event: ev.Type, Err: err}
		if n, gerr := m.session.GetNode(node); gerr == nil {
			entry.Node = n.Name
			entry.Detail = fmt.Sprintf("at %g,%g", n.Position.Left, n.Position.Top)
		}
		m.log.Append(entry)
	}
	m.refresh()
}

func (m *AppModel) refresh() {
	snap := m.session.Snapshot()
	m.statusBar.SetCounts(len(snap.Nodes), len(snap.Connections))
	status := m.session.DragStatus()
	name := ""
	if status.NodeID != "" {
		if n, err := m.session.GetNode(status.NodeID); err == nil {
			name = n.Name
		}
	}
	m.statusBar.SetDrag(status.State, name)
}
