// ABOUTME: Connection Router: wire shaping between ports and incremental rerouting during drags.
// ABOUTME: Endpoints on a dragged node are derived arithmetically from offsets captured once.
package route

import (
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
)

// Router shapes connection paths. It holds no graph state.
type Router struct {
	// GrowOffset is the horizontal distance from each endpoint to its control point.
	GrowOffset float64
}

// New returns a Router with the given grow offset.
func New(growOffset float64) Router {
	return Router{GrowOffset: growOffset}
}

// Default returns a Router using geom.DefaultGrowOffset.
func Default() Router {
	return New(geom.DefaultGrowOffset)
}

// Route implements graph.Router.
func (r Router) Route(from, to geom.Point) geom.Path {
	return geom.Curve(from, to, r.GrowOffset)
}

// Anchor ties one connection to a dragged node. Endpoints on the node are stored as
// offsets from the node's origin at drag start; the other endpoint keeps its last known
// position from the connection's stored geometry.
type Anchor struct {
	Connection  graph.Connection
	MovesStart  bool
	StartOffset geom.Point
	MovesEnd    bool
	EndOffset   geom.Point
}

// Capture records the offsets of c's endpoints that belong to the node with the given
// origin. A connection from a node to itself moves at both ends.
func Capture(c graph.Connection, node graph.NodeID, origin graph.Position) Anchor {
	a := Anchor{Connection: c}
	o := origin.Point()
	if c.FromNode == node {
		a.MovesStart = true
		a.StartOffset = c.Geometry.Start().Sub(o)
	}
	if c.ToNode == node {
		a.MovesEnd = true
		a.EndOffset = c.Geometry.End().Sub(o)
	}
	return a
}

// RerouteForDrag returns the path of the anchored connection with the dragged node's
// origin at origin. Moving endpoints are origin+offset, never re-measured.
func (r Router) RerouteForDrag(a Anchor, origin graph.Position) geom.Path {
	start := a.Connection.Geometry.Start()
	end := a.Connection.Geometry.End()
	o := origin.Point()
	if a.MovesStart {
		start = o.Add(a.StartOffset)
	}
	if a.MovesEnd {
		end = o.Add(a.EndOffset)
	}
	return r.Route(start, end)
}
