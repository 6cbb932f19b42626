// ABOUTME: Scene is an in-memory renderer: it records node boxes and wires by view handle.
// ABOUTME: Port centres are measured from the layout, and the terminal and PNG outputs draw from it.
package render

import (
	"fmt"
	"strings"

	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/view"
)

var _ view.Renderer = (*Scene)(nil)

// NodeBox is one drawn node.
type NodeBox struct {
	Handles view.NodeHandles
	View    view.NodeView
}

// Wire is one drawn connection.
type Wire struct {
	Handle view.Handle
	Path   geom.Path
}

type portRef struct {
	node  view.Handle
	dir   graph.Direction
	index int
}

// Scene records everything drawn through it. It is not safe for concurrent use.
type Scene struct {
	layout    Layout
	next      view.Handle
	nodes     map[view.Handle]*NodeBox
	nodeOrder []view.Handle
	ports     map[view.Handle]portRef
	wires     map[view.Handle]geom.Path
	wireOrder []view.Handle
	alpha     float64
}

// NewScene creates an empty scene using layout l.
func NewScene(l Layout) *Scene {
	return &Scene{
		layout: l,
		nodes:  make(map[view.Handle]*NodeBox),
		ports:  make(map[view.Handle]portRef),
		wires:  make(map[view.Handle]geom.Path),
		alpha:  geom.DefaultAlpha,
	}
}

// Layout returns the scene's layout metrics.
func (s *Scene) Layout() Layout { return s.layout }

// SetWireAlpha sets the Catmull-Rom alpha used when the scene draws wires as text.
func (s *Scene) SetWireAlpha(alpha float64) { s.alpha = alpha }

// WireAlpha returns the Catmull-Rom alpha used for terminal wires.
func (s *Scene) WireAlpha() float64 { return s.alpha }

func (s *Scene) handle() view.Handle {
	s.next++
	return s.next
}

// CreateNodeView implements view.Renderer.
func (s *Scene) CreateNodeView(v view.NodeView) view.NodeHandles {
	h := view.NodeHandles{Node: s.handle(), Header: s.handle()}
	for i := range v.Inputs {
		ph := s.handle()
		s.ports[ph] = portRef{node: h.Node, dir: graph.Input, index: i}
		h.Inputs = append(h.Inputs, ph)
	}
	for i := range v.Outputs {
		ph := s.handle()
		s.ports[ph] = portRef{node: h.Node, dir: graph.Output, index: i}
		h.Outputs = append(h.Outputs, ph)
	}
	s.nodes[h.Node] = &NodeBox{Handles: h, View: v}
	s.nodeOrder = append(s.nodeOrder, h.Node)
	return h
}

// MoveNodeView implements view.Renderer.
func (s *Scene) MoveNodeView(h view.NodeHandles, pos graph.Position) {
	if box, ok := s.nodes[h.Node]; ok {
		box.View.Position = pos
	}
}

// RemoveNodeView implements view.Renderer.
func (s *Scene) RemoveNodeView(h view.NodeHandles) {
	if _, ok := s.nodes[h.Node]; !ok {
		return
	}
	delete(s.nodes, h.Node)
	for _, ph := range append(append([]view.Handle(nil), h.Inputs...), h.Outputs...) {
		delete(s.ports, ph)
	}
	s.nodeOrder = without(s.nodeOrder, h.Node)
}

// CreateConnectionView implements view.Renderer.
func (s *Scene) CreateConnectionView(path geom.Path) view.Handle {
	h := s.handle()
	s.wires[h] = path
	s.wireOrder = append(s.wireOrder, h)
	return h
}

// UpdateConnectionView implements view.Renderer.
func (s *Scene) UpdateConnectionView(h view.Handle, path geom.Path) {
	if _, ok := s.wires[h]; ok {
		s.wires[h] = path
	}
}

// RemoveConnectionView implements view.Renderer.
func (s *Scene) RemoveConnectionView(h view.Handle) {
	if _, ok := s.wires[h]; !ok {
		return
	}
	delete(s.wires, h)
	s.wireOrder = without(s.wireOrder, h)
}

// MeasurePortCenter implements view.Renderer.
func (s *Scene) MeasurePortCenter(port view.Handle) geom.Point {
	ref, ok := s.ports[port]
	if !ok {
		return geom.Point{}
	}
	box := s.nodes[ref.node]
	return s.layout.PortCenter(box.View.Position, ref.dir, ref.index)
}

// Nodes returns the drawn nodes in creation order.
func (s *Scene) Nodes() []NodeBox {
	out := make([]NodeBox, 0, len(s.nodeOrder))
	for _, h := range s.nodeOrder {
		out = append(out, *s.nodes[h])
	}
	return out
}

// Wires returns the drawn connections in creation order.
func (s *Scene) Wires() []Wire {
	out := make([]Wire, 0, len(s.wireOrder))
	for _, h := range s.wireOrder {
		out = append(out, Wire{Handle: h, Path: s.wires[h]})
	}
	return out
}

// HitHeader returns the header handle of the topmost node whose header contains p.
func (s *Scene) HitHeader(p geom.Point) (view.Handle, bool) {
	for i := len(s.nodeOrder) - 1; i >= 0; i-- {
		box := s.nodes[s.nodeOrder[i]]
		if s.layout.HitHeader(box.View.Position, p) {
			return box.Handles.Header, true
		}
	}
	return 0, false
}

// Bounds returns the smallest rectangle containing every node box and wire control point.
func (s *Scene) Bounds() (geom.Point, geom.Point, bool) {
	var lo, hi geom.Point
	seen := false
	grow := func(p geom.Point) {
		if !seen {
			lo, hi, seen = p, p, true
			return
		}
		lo = geom.Pt(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.Pt(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	for _, box := range s.Nodes() {
		w, h := s.layout.Size(len(box.View.Inputs), len(box.View.Outputs))
		grow(box.View.Position.Point())
		grow(box.View.Position.Point().Add(geom.Pt(w, h)))
	}
	for _, w := range s.Wires() {
		for _, p := range w.Path.Points() {
			grow(p)
		}
	}
	return lo, hi, seen
}

// Fingerprint is a stable textual digest input describing everything drawn.
func (s *Scene) Fingerprint() string {
	var b strings.Builder
	for _, box := range s.Nodes() {
		fmt.Fprintf(&b, "n %d %q %q %g %g", box.Handles.Node, box.View.Name, box.View.Kind,
			box.View.Position.Top, box.View.Position.Left)
		for _, p := range box.View.Inputs {
			fmt.Fprintf(&b, " i:%q", p.Label)
		}
		for _, p := range box.View.Outputs {
			fmt.Fprintf(&b, " o:%q", p.Label)
		}
		b.WriteByte('\n')
	}
	for _, w := range s.Wires() {
		fmt.Fprintf(&b, "w %d %s\n", w.Handle, w.Path)
	}
	return b.String()
}

func without(hs []view.Handle, h view.Handle) []view.Handle {
	for i, x := range hs {
		if x == h {
			return append(hs[:i], hs[i+1:]...)
		}
	}
	return hs
}
