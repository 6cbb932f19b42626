// ABOUTME: Topology records owned by the registry: nodes, ports, and connections.
// ABOUTME: Also the construction-input shapes used to author nodes and connections.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/2389-research/patchbay/geom"
)

// Direction distinguishes input ports (inlets) from output ports (outlets).
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction as "input" or "output".
func (d Direction) MarshalText() ([]byte, error) {
	if d != Input && d != Output {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses "input" or "output".
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "input":
		*d = Input
	case "output":
		*d = Output
	default:
		return fmt.Errorf("invalid direction %q", b)
	}
	return nil
}

// Position is a node's top-left corner on the canvas.
type Position struct {
	Top  float64 `json:"top" yaml:"top"`
	Left float64 `json:"left" yaml:"left"`
}

// Point converts the position to a screen point.
func (p Position) Point() geom.Point {
	return geom.Point{X: p.Left, Y: p.Top}
}

// PositionAt converts a screen point to a node position.
func PositionAt(p geom.Point) Position {
	return Position{Top: p.Y, Left: p.X}
}

// Port is a named attachment point on a node.
type Port struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Direction Direction `json:"direction"`
}

// ConnectionSet is the set of connections attached to a node.
type ConnectionSet map[ConnectionID]struct{}

// Has reports whether id is in the set.
func (s ConnectionSet) Has(id ConnectionID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in id order.
func (s ConnectionSet) Sorted() []ConnectionID {
	ids := make([]ConnectionID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalJSON encodes the set as a sorted array.
func (s ConnectionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of ids.
func (s *ConnectionSet) UnmarshalJSON(b []byte) error {
	var ids []ConnectionID
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	set := make(ConnectionSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	*s = set
	return nil
}

// Node is a placed entity with ordered input and output ports.
type Node struct {
	ID            NodeID        `json:"id"`
	Name          string        `json:"name"`
	Kind          string        `json:"kind,omitempty"`
	Position      Position      `json:"position"`
	Inputs        []Port        `json:"inputs"`
	Outputs       []Port        `json:"outputs"`
	ConnectionIDs ConnectionSet `json:"connection_ids"`
}

// Port looks up a port by direction and name.
func (n Node) Port(dir Direction, name string) (Port, bool) {
	ports := n.Inputs
	if dir == Output {
		ports = n.Outputs
	}
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// PortIndex returns the row index of a port within its direction, or -1.
func (n Node) PortIndex(dir Direction, name string) int {
	ports := n.Inputs
	if dir == Output {
		ports = n.Outputs
	}
	for i, p := range ports {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (n *Node) clone() Node {
	c := *n
	c.Inputs = append([]Port(nil), n.Inputs...)
	c.Outputs = append([]Port(nil), n.Outputs...)
	c.ConnectionIDs = make(ConnectionSet, len(n.ConnectionIDs))
	for id := range n.ConnectionIDs {
		c.ConnectionIDs[id] = struct{}{}
	}
	return c
}

// Connection is a directed link from an output port to an input port.
type Connection struct {
	ID       ConnectionID `json:"id"`
	FromNode NodeID       `json:"from_node"`
	FromPort string       `json:"from_port"`
	ToNode   NodeID       `json:"to_node"`
	ToPort   string       `json:"to_port"`
	Geometry geom.Path    `json:"geometry"`
}

// Spec returns the endpoint description of the connection.
func (c Connection) Spec() ConnectionSpec {
	return ConnectionSpec{FromNode: c.FromNode, FromPort: c.FromPort, ToNode: c.ToNode, ToPort: c.ToPort}
}

// Touches reports whether either endpoint belongs to the node.
func (c Connection) Touches(id NodeID) bool {
	return c.FromNode == id || c.ToNode == id
}

// PortSpec describes one port in a NodeSpec.
type PortSpec struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// NodeSpec is the construction input for AddNode.
// A zero Top or Left takes the registry's default position component.
type NodeSpec struct {
	Name     string     `json:"name" yaml:"name"`
	Kind     string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Position Position   `json:"position" yaml:"position"`
	Inputs   []PortSpec `json:"inputs" yaml:"inputs"`
	Outputs  []PortSpec `json:"outputs" yaml:"outputs"`
}

// ConnectionSpec is the construction input for Connect.
type ConnectionSpec struct {
	FromNode NodeID `json:"from_node" yaml:"from_node"`
	FromPort string `json:"from_port" yaml:"from_port"`
	ToNode   NodeID `json:"to_node" yaml:"to_node"`
	ToPort   string `json:"to_port" yaml:"to_port"`
}

// Removal reports what RemoveNode deleted.
type Removal struct {
	Node          Node           `json:"node"`
	ConnectionIDs []ConnectionID `json:"connection_ids"`
}
