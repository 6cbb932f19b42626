// ABOUTME: Registry is the single source of truth for nodes and connections.
// ABOUTME: Validates before mutating so every operation either fully applies or changes nothing.
package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/2389-research/patchbay/geom"
)

// Surface is the rendering side of the registry. It is told about every topology change
// and measures where a port currently sits on screen. Implementations keep their own
// view handles; the registry only ever passes ids and value copies.
type Surface interface {
	NodeAdded(n Node)
	NodeMoved(n Node)
	NodeRemoved(id NodeID)
	PortCenter(n Node, dir Direction, port string) geom.Point
	ConnectionAdded(c Connection)
	ConnectionChanged(c Connection)
	ConnectionRemoved(id ConnectionID)
}

// Router shapes the path between an output port at from and an input port at to.
type Router interface {
	Route(from, to geom.Point) geom.Path
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(from, to geom.Point) geom.Path

// Route calls f(from, to).
func (f RouterFunc) Route(from, to geom.Point) geom.Path { return f(from, to) }

// DefaultPosition is used for zero position components in a NodeSpec.
var DefaultPosition = Position{Top: 20, Left: 20}

// Option configures a Registry.
type Option func(*Registry)

// WithSurface attaches a rendering surface. Without one, every port is located at its
// node's origin and no view notifications are sent.
func WithSurface(s Surface) Option {
	return func(r *Registry) { r.surface = s }
}

// WithRouter replaces the default curve router.
func WithRouter(rt Router) Option {
	return func(r *Registry) { r.router = rt }
}

// WithFanIn allows more than one incoming connection per input port, including exact
// duplicates of an existing connection.
func WithFanIn(allow bool) Option {
	return func(r *Registry) { r.fanIn = allow }
}

// WithClock sets the wall clock used for id timestamps. Times outside the ULID range
// are clamped to it.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.ids.now = now }
}

// WithDefaultPosition sets the position components used when a spec leaves them zero.
func WithDefaultPosition(p Position) Option {
	return func(r *Registry) { r.defaultPos = p }
}

// Registry owns every node and connection of one editor graph.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	nodes      *OrderedMap[NodeID, *Node]
	conns      *OrderedMap[ConnectionID, *Connection]
	ids        idSource
	surface    Surface
	router     Router
	fanIn      bool
	defaultPos Position
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		nodes:      NewOrderedMap[NodeID, *Node](),
		conns:      NewOrderedMap[ConnectionID, *Connection](),
		ids:        idSource{now: time.Now},
		defaultPos: DefaultPosition,
		router: RouterFunc(func(from, to geom.Point) geom.Path {
			return geom.Curve(from, to, geom.DefaultGrowOffset)
		}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddNode creates a node from spec with a fresh id and asks the surface for its view.
// Ports keep the order given in the spec. A port without a label uses its name.
func (r *Registry) AddNode(spec NodeSpec) (Node, error) {
	inputs, err := buildPorts(spec.Inputs, Input)
	if err != nil {
		return Node{}, err
	}
	outputs, err := buildPorts(spec.Outputs, Output)
	if err != nil {
		return Node{}, err
	}

	pos := spec.Position
	if pos.Top == 0 {
		pos.Top = r.defaultPos.Top
	}
	if pos.Left == 0 {
		pos.Left = r.defaultPos.Left
	}

	n := &Node{
		ID:            NodeID(r.ids.next()),
		Name:          spec.Name,
		Kind:          spec.Kind,
		Position:      pos,
		Inputs:        inputs,
		Outputs:       outputs,
		ConnectionIDs: make(ConnectionSet),
	}
	r.nodes.Set(n.ID, n)
	if r.surface != nil {
		r.surface.NodeAdded(n.clone())
	}
	return n.clone(), nil
}

func buildPorts(specs []PortSpec, dir Direction) ([]Port, error) {
	seen := make(map[string]bool, len(specs))
	ports := make([]Port, 0, len(specs))
	for _, ps := range specs {
		if ps.Name == "" {
			return nil, fmt.Errorf("%w: %s port without a name", ErrInvalidSpec, dir)
		}
		if seen[ps.Name] {
			return nil, fmt.Errorf("%w: duplicate %s port %q", ErrInvalidSpec, dir, ps.Name)
		}
		seen[ps.Name] = true
		label := ps.Label
		if label == "" {
			label = ps.Name
		}
		ports = append(ports, Port{Name: ps.Name, Label: label, Direction: dir})
	}
	return ports, nil
}

// GetNode returns a copy of the node.
func (r *Registry) GetNode(id NodeID) (Node, error) {
	n, ok := r.nodes.Get(id)
	if !ok {
		return Node{}, &NodeNotFoundError{ID: id}
	}
	return n.clone(), nil
}

// RemoveNode disconnects every connection of the node, then deletes it.
// The returned node is the record as it was before removal.
func (r *Registry) RemoveNode(id NodeID) (Removal, error) {
	n, ok := r.nodes.Get(id)
	if !ok {
		return Removal{}, &NodeNotFoundError{ID: id}
	}
	removal := Removal{Node: n.clone(), ConnectionIDs: n.ConnectionIDs.Sorted()}
	for _, cid := range removal.ConnectionIDs {
		if err := r.Disconnect(cid); err != nil {
			return Removal{}, fmt.Errorf("remove node %s: %w", id, err)
		}
	}
	r.nodes.Delete(id)
	if r.surface != nil {
		r.surface.NodeRemoved(id)
	}
	return removal, nil
}

// Connect links an output port to an input port. Both nodes and both ports are checked
// before anything is mutated. The initial geometry is routed between the ports' current
// on-screen centres.
func (r *Registry) Connect(spec ConnectionSpec) (Connection, error) {
	from, to, err := r.validate(spec, "")
	if err != nil {
		return Connection{}, err
	}

	c := &Connection{
		ID:       ConnectionID(r.ids.next()),
		FromNode: spec.FromNode,
		FromPort: spec.FromPort,
		ToNode:   spec.ToNode,
		ToPort:   spec.ToPort,
	}
	c.Geometry = r.route(from, c.FromPort, to, c.ToPort)

	r.conns.Set(c.ID, c)
	from.ConnectionIDs[c.ID] = struct{}{}
	to.ConnectionIDs[c.ID] = struct{}{}
	if r.surface != nil {
		r.surface.ConnectionAdded(*c)
	}
	return *c, nil
}

// validate checks that spec can be registered. self is the id of a connection being
// rewritten by SetConnection, excluded from the single-inlet check.
func (r *Registry) validate(spec ConnectionSpec, self ConnectionID) (*Node, *Node, error) {
	from, ok := r.nodes.Get(spec.FromNode)
	if !ok {
		return nil, nil, &NodeNotFoundError{ID: spec.FromNode}
	}
	to, ok := r.nodes.Get(spec.ToNode)
	if !ok {
		return nil, nil, &NodeNotFoundError{ID: spec.ToNode}
	}
	if _, ok := to.Port(Input, spec.ToPort); !ok {
		return nil, nil, &PortNotFoundError{NodeID: to.ID, Port: spec.ToPort, Side: Inlet}
	}
	if _, ok := from.Port(Output, spec.FromPort); !ok {
		return nil, nil, &PortNotFoundError{NodeID: from.ID, Port: spec.FromPort, Side: Outlet}
	}
	if !r.fanIn {
		for _, cid := range to.ConnectionIDs.Sorted() {
			c, _ := r.conns.Get(cid)
			if cid != self && c.ToNode == to.ID && c.ToPort == spec.ToPort {
				return nil, nil, &PortAlreadyConnectedError{NodeID: to.ID, Port: spec.ToPort, Existing: cid}
			}
		}
	}
	return from, to, nil
}

// Disconnect removes the connection from both endpoint nodes and deletes it.
func (r *Registry) Disconnect(id ConnectionID) error {
	c, ok := r.conns.Get(id)
	if !ok {
		return &ConnectionNotFoundError{ID: id}
	}
	if from, ok := r.nodes.Get(c.FromNode); ok {
		delete(from.ConnectionIDs, id)
	}
	if to, ok := r.nodes.Get(c.ToNode); ok {
		delete(to.ConnectionIDs, id)
	}
	r.conns.Delete(id)
	if r.surface != nil {
		r.surface.ConnectionRemoved(id)
	}
	return nil
}

// GetConnection returns a copy of the connection.
func (r *Registry) GetConnection(id ConnectionID) (Connection, error) {
	c, ok := r.conns.Get(id)
	if !ok {
		return Connection{}, &ConnectionNotFoundError{ID: id}
	}
	return *c, nil
}

// SetConnection replaces the stored record of an existing connection. The id is kept.
// If the endpoints change they are validated as in Connect and the endpoint nodes'
// connection sets are updated; otherwise only the remaining fields are replaced.
func (r *Registry) SetConnection(id ConnectionID, updated Connection) error {
	old, ok := r.conns.Get(id)
	if !ok {
		return &ConnectionNotFoundError{ID: id}
	}
	updated.ID = id

	if updated.Spec() != old.Spec() {
		from, to, err := r.validate(updated.Spec(), id)
		if err != nil {
			return err
		}
		if n, ok := r.nodes.Get(old.FromNode); ok {
			delete(n.ConnectionIDs, id)
		}
		if n, ok := r.nodes.Get(old.ToNode); ok {
			delete(n.ConnectionIDs, id)
		}
		from.ConnectionIDs[id] = struct{}{}
		to.ConnectionIDs[id] = struct{}{}
	}

	r.conns.Set(id, &updated)
	if r.surface != nil {
		r.surface.ConnectionChanged(updated)
	}
	return nil
}

// MoveNode repositions a node outside of a drag gesture: the node's ports are
// re-measured and every connection touching it is rerouted and stored.
func (r *Registry) MoveNode(id NodeID, pos Position) error {
	n, ok := r.nodes.Get(id)
	if !ok {
		return &NodeNotFoundError{ID: id}
	}
	n.Position = pos
	if r.surface != nil {
		r.surface.NodeMoved(n.clone())
	}
	for _, cid := range n.ConnectionIDs.Sorted() {
		c, _ := r.conns.Get(cid)
		from, _ := r.nodes.Get(c.FromNode)
		to, _ := r.nodes.Get(c.ToNode)
		c.Geometry = r.route(from, c.FromPort, to, c.ToPort)
		if r.surface != nil {
			r.surface.ConnectionChanged(*c)
		}
	}
	return nil
}

// SetNodePosition moves a node without touching connection geometry. The caller
// owns keeping wires attached, as the drag coordinator does between move events.
func (r *Registry) SetNodePosition(id NodeID, pos Position) error {
	n, ok := r.nodes.Get(id)
	if !ok {
		return &NodeNotFoundError{ID: id}
	}
	n.Position = pos
	if r.surface != nil {
		r.surface.NodeMoved(n.clone())
	}
	return nil
}

// Port returns the named port of a node.
func (r *Registry) Port(id NodeID, dir Direction, name string) (Port, error) {
	n, err := r.lookupPort(id, dir, name)
	if err != nil {
		return Port{}, err
	}
	p, _ := n.Port(dir, name)
	return p, nil
}

// PortCenter returns the current on-screen centre of a port.
func (r *Registry) PortCenter(id NodeID, dir Direction, port string) (geom.Point, error) {
	n, err := r.lookupPort(id, dir, port)
	if err != nil {
		return geom.Point{}, err
	}
	return r.portCenter(n, dir, port), nil
}

func (r *Registry) lookupPort(id NodeID, dir Direction, port string) (*Node, error) {
	n, ok := r.nodes.Get(id)
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}
	if _, ok := n.Port(dir, port); !ok {
		side := Inlet
		if dir == Output {
			side = Outlet
		}
		return nil, &PortNotFoundError{NodeID: id, Port: port, Side: side}
	}
	return n, nil
}

func (r *Registry) portCenter(n *Node, dir Direction, port string) geom.Point {
	if r.surface == nil {
		return n.Position.Point()
	}
	return r.surface.PortCenter(n.clone(), dir, port)
}

func (r *Registry) route(from *Node, fromPort string, to *Node, toPort string) geom.Path {
	return r.router.Route(r.portCenter(from, Output, fromPort), r.portCenter(to, Input, toPort))
}

// Nodes returns copies of all nodes in creation order.
func (r *Registry) Nodes() []Node {
	out := make([]Node, 0, r.nodes.Len())
	r.nodes.Range(func(_ NodeID, n *Node) bool {
		out = append(out, n.clone())
		return true
	})
	return out
}

// Connections returns copies of all connections in creation order.
func (r *Registry) Connections() []Connection {
	out := make([]Connection, 0, r.conns.Len())
	r.conns.Range(func(_ ConnectionID, c *Connection) bool {
		out = append(out, *c)
		return true
	})
	return out
}

// ConnectionsOf returns the connections attached to a node in id order.
func (r *Registry) ConnectionsOf(id NodeID) ([]Connection, error) {
	n, ok := r.nodes.Get(id)
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}
	out := make([]Connection, 0, len(n.ConnectionIDs))
	for _, cid := range n.ConnectionIDs.Sorted() {
		c, _ := r.conns.Get(cid)
		out = append(out, *c)
	}
	return out, nil
}

// NodeCount returns the number of nodes.
func (r *Registry) NodeCount() int { return r.nodes.Len() }

// ConnectionCount returns the number of connections.
func (r *Registry) ConnectionCount() int { return r.conns.Len() }

// Verify checks that node connection sets and the connection map agree in both
// directions and that every connection names existing ports.
func (r *Registry) Verify() error {
	var errs []error
	r.conns.Range(func(cid ConnectionID, c *Connection) bool {
		from, ok := r.nodes.Get(c.FromNode)
		if !ok {
			errs = append(errs, fmt.Errorf("connection %s: missing from node %s", cid, c.FromNode))
		} else {
			if !from.ConnectionIDs.Has(cid) {
				errs = append(errs, fmt.Errorf("connection %s: not listed on from node %s", cid, c.FromNode))
			}
			if _, ok := from.Port(Output, c.FromPort); !ok {
				errs = append(errs, fmt.Errorf("connection %s: missing outlet %q", cid, c.FromPort))
			}
		}
		to, ok := r.nodes.Get(c.ToNode)
		if !ok {
			errs = append(errs, fmt.Errorf("connection %s: missing to node %s", cid, c.ToNode))
		} else {
			if !to.ConnectionIDs.Has(cid) {
				errs = append(errs, fmt.Errorf("connection %s: not listed on to node %s", cid, c.ToNode))
			}
			if _, ok := to.Port(Input, c.ToPort); !ok {
				errs = append(errs, fmt.Errorf("connection %s: missing inlet %q", cid, c.ToPort))
			}
		}
		return true
	})
	r.nodes.Range(func(nid NodeID, n *Node) bool {
		for cid := range n.ConnectionIDs {
			c, ok := r.conns.Get(cid)
			if !ok {
				errs = append(errs, fmt.Errorf("node %s: lists unknown connection %s", nid, cid))
				continue
			}
			if !c.Touches(nid) {
				errs = append(errs, fmt.Errorf("node %s: lists connection %s that does not touch it", nid, cid))
			}
		}
		return true
	})
	return errors.Join(errs...)
}
