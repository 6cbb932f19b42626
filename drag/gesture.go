// ABOUTME: Gesture is the explicit state record of one node drag.
// ABOUTME: Holds the drag origin, pointer anchor, cached endpoint offsets, and pending paths.
package drag

import (
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/route"
)

// State is the phase of a drag gesture.
type State int

const (
	// Idle means no gesture has started.
	Idle State = iota
	// Armed means the pointer is down and the origin is captured.
	Armed
	// Dragging means at least one move has been applied.
	Dragging
	// Committed means the gesture ended and its geometry was stored.
	Committed
	// Cancelled means the gesture was abandoned and prior geometry restored.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Active reports whether the gesture still accepts moves.
func (s State) Active() bool {
	return s == Armed || s == Dragging
}

// Gesture is everything a drag needs between events. It is built once at drag start
// and never re-reads the registry's geometry while moving.
type Gesture struct {
	NodeID       graph.NodeID
	Origin       graph.Position
	PointerStart geom.Point
	Anchors      []route.Anchor
	Pending      map[graph.ConnectionID]geom.Path
	State        State
}

// NewGesture arms a gesture for node n grabbed at pointer. conns are the node's
// connections as currently stored.
func NewGesture(n graph.Node, conns []graph.Connection, pointer geom.Point) *Gesture {
	g := &Gesture{
		NodeID:       n.ID,
		Origin:       n.Position,
		PointerStart: pointer,
		Anchors:      make([]route.Anchor, 0, len(conns)),
		Pending:      make(map[graph.ConnectionID]geom.Path, len(conns)),
		State:        Armed,
	}
	for _, c := range conns {
		g.Anchors = append(g.Anchors, route.Capture(c, n.ID, n.Position))
	}
	return g
}

// PositionAt returns the node position for a pointer at p: origin plus the pointer's
// displacement since the gesture started. It depends only on p, so repeated moves
// never accumulate rounding error.
func (g *Gesture) PositionAt(p geom.Point) graph.Position {
	return graph.PositionAt(g.Origin.Point().Add(p.Sub(g.PointerStart)))
}

// Step applies a pointer move: it recomputes every anchored path, records them as
// pending, and returns the node's new position.
func (g *Gesture) Step(r route.Router, p geom.Point) graph.Position {
	pos := g.PositionAt(p)
	for _, a := range g.Anchors {
		g.Pending[a.Connection.ID] = r.RerouteForDrag(a, pos)
	}
	g.State = Dragging
	return pos
}
