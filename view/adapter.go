// ABOUTME: Adapter maps registry ids to renderer view handles in a side table.
// ABOUTME: Implements graph.Surface and drag.Painter so the core never holds view handles.
package view

import (
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
)

var _ graph.Surface = (*Adapter)(nil)

// Handle is an opaque reference to something a renderer drew.
type Handle uint64

// NodeHandles are the handles a renderer returns for one node view.
type NodeHandles struct {
	Node    Handle
	Header  Handle
	Inputs  []Handle
	Outputs []Handle
}

// NodeView is what a renderer needs to draw a node.
type NodeView struct {
	Name     string
	Kind     string
	Position graph.Position
	Inputs   []graph.Port
	Outputs  []graph.Port
}

// Renderer draws node and connection views and reports where ports landed.
type Renderer interface {
	CreateNodeView(v NodeView) NodeHandles
	MoveNodeView(h NodeHandles, pos graph.Position)
	RemoveNodeView(h NodeHandles)
	CreateConnectionView(path geom.Path) Handle
	UpdateConnectionView(h Handle, path geom.Path)
	RemoveConnectionView(h Handle)
	MeasurePortCenter(port Handle) geom.Point
}

// Adapter owns the id-to-handle side table for one registry.
type Adapter struct {
	renderer Renderer
	nodes    map[graph.NodeID]NodeHandles
	headers  map[Handle]graph.NodeID
	conns    map[graph.ConnectionID]Handle
}

// NewAdapter creates an adapter drawing through r.
func NewAdapter(r Renderer) *Adapter {
	return &Adapter{
		renderer: r,
		nodes:    make(map[graph.NodeID]NodeHandles),
		headers:  make(map[Handle]graph.NodeID),
		conns:    make(map[graph.ConnectionID]Handle),
	}
}

// NodeAdded creates the node's view.
func (a *Adapter) NodeAdded(n graph.Node) {
	h := a.renderer.CreateNodeView(NodeView{
		Name:     n.Name,
		Kind:     n.Kind,
		Position: n.Position,
		Inputs:   n.Inputs,
		Outputs:  n.Outputs,
	})
	a.nodes[n.ID] = h
	a.headers[h.Header] = n.ID
}

// NodeMoved moves the node's view.
func (a *Adapter) NodeMoved(n graph.Node) {
	if h, ok := a.nodes[n.ID]; ok {
		a.renderer.MoveNodeView(h, n.Position)
	}
}

// NodeRemoved drops the node's view and handles.
func (a *Adapter) NodeRemoved(id graph.NodeID) {
	h, ok := a.nodes[id]
	if !ok {
		return
	}
	a.renderer.RemoveNodeView(h)
	delete(a.headers, h.Header)
	delete(a.nodes, id)
}

// PortCenter measures a port through its view handle. A node without a view
// reports its origin.
func (a *Adapter) PortCenter(n graph.Node, dir graph.Direction, port string) geom.Point {
	h, ok := a.nodes[n.ID]
	if !ok {
		return n.Position.Point()
	}
	handles := h.Inputs
	if dir == graph.Output {
		handles = h.Outputs
	}
	i := n.PortIndex(dir, port)
	if i < 0 || i >= len(handles) {
		return n.Position.Point()
	}
	return a.renderer.MeasurePortCenter(handles[i])
}

// ConnectionAdded creates the connection's view.
func (a *Adapter) ConnectionAdded(c graph.Connection) {
	a.conns[c.ID] = a.renderer.CreateConnectionView(c.Geometry)
}

// ConnectionChanged repaints the connection's view.
func (a *Adapter) ConnectionChanged(c graph.Connection) {
	if h, ok := a.conns[c.ID]; ok {
		a.renderer.UpdateConnectionView(h, c.Geometry)
	}
}

// ConnectionRemoved drops the connection's view.
func (a *Adapter) ConnectionRemoved(id graph.ConnectionID) {
	if h, ok := a.conns[id]; ok {
		a.renderer.RemoveConnectionView(h)
		delete(a.conns, id)
	}
}

// NodeHandles returns the handles of a node's view.
func (a *Adapter) NodeHandles(id graph.NodeID) (NodeHandles, bool) {
	h, ok := a.nodes[id]
	return h, ok
}

// ConnectionHandle returns the handle of a connection's view.
func (a *Adapter) ConnectionHandle(id graph.ConnectionID) (Handle, bool) {
	h, ok := a.conns[id]
	return h, ok
}

// NodeForHeader resolves a header handle, as reported by a hit test, to its node.
func (a *Adapter) NodeForHeader(h Handle) (graph.NodeID, bool) {
	id, ok := a.headers[h]
	return id, ok
}
