// ABOUTME: Tests for the connection router's curve shaping and drag rerouting.
// ABOUTME: Verifies offsets are captured per endpoint and the fixed endpoint never moves.
package route_test

import (
	"testing"

	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/route"
	"github.com/google/go-cmp/cmp"
)

var _ graph.Router = route.Router{}

func conn(from, to graph.NodeID, start, end geom.Point) graph.Connection {
	return graph.Connection{
		ID:       "c1",
		FromNode: from,
		FromPort: "out",
		ToNode:   to,
		ToPort:   "in",
		Geometry: route.Default().Route(start, end),
	}
}

func TestRoute_UsesGrowOffset(t *testing.T) {
	r := route.New(35)
	got := r.Route(geom.Pt(0, 0), geom.Pt(100, 0))
	want := geom.Path{geom.Pt(0, 0), geom.Pt(35, 0), geom.Pt(65, 0), geom.Pt(100, 0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Route mismatch (-want +got):\n%s", diff)
	}
}

func TestCapture_OutgoingEndpoint(t *testing.T) {
	c := conn("n1", "n2", geom.Pt(200, 130), geom.Pt(300, 150))
	a := route.Capture(c, "n1", graph.Position{Top: 100, Left: 100})

	if !a.MovesStart || a.MovesEnd {
		t.Fatalf("expected only the start to move, got %+v", a)
	}
	if a.StartOffset != geom.Pt(100, 30) {
		t.Errorf("StartOffset = %v, want (100,30)", a.StartOffset)
	}
}

func TestCapture_IncomingEndpoint(t *testing.T) {
	c := conn("n1", "n2", geom.Pt(200, 130), geom.Pt(300, 150))
	a := route.Capture(c, "n2", graph.Position{Top: 120, Left: 300})
	if a.MovesStart || !a.MovesEnd {
		t.Fatalf("expected only the end to move, got %+v", a)
	}
	if a.EndOffset != geom.Pt(0, 30) {
		t.Errorf("EndOffset = %v, want (0,30)", a.EndOffset)
	}
}

func TestRerouteForDrag_FixedEndpointStays(t *testing.T) {
	r := route.Default()
	c := conn("n1", "n2", geom.Pt(200, 130), geom.Pt(300, 150))
	a := route.Capture(c, "n1", graph.Position{Top: 100, Left: 100})

	got := r.RerouteForDrag(a, graph.Position{Top: 80, Left: 150})
	want := r.Route(geom.Pt(250, 110), geom.Pt(300, 150))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RerouteForDrag mismatch (-want +got):\n%s", diff)
	}
}

func TestRerouteForDrag_SelfLoopMovesBothEnds(t *testing.T) {
	r := route.Default()
	c := conn("n1", "n1", geom.Pt(200, 130), geom.Pt(100, 150))
	a := route.Capture(c, "n1", graph.Position{Top: 100, Left: 100})

	got := r.RerouteForDrag(a, graph.Position{Top: 110, Left: 90})
	if got.Start() != geom.Pt(190, 140) || got.End() != geom.Pt(90, 160) {
		t.Errorf("expected both ends translated by (-10,+10), got %v", got)
	}
}

func TestRerouteForDrag_UnchangedOriginReproducesGeometry(t *testing.T) {
	r := route.Default()
	c := conn("n1", "n2", geom.Pt(200, 130), geom.Pt(300, 150))
	origin := graph.Position{Top: 100, Left: 100}
	a := route.Capture(c, "n1", origin)
	if got := r.RerouteForDrag(a, origin); got != c.Geometry {
		t.Errorf("expected stored geometry back, got %v", got)
	}
}
