// ABOUTME: Tests for connection curve shaping and Catmull-Rom interpolation.
// ABOUTME: Covers endpoint preservation, reversed and coincident endpoints, and sampling.
package geom_test

import (
	"math"
	"testing"

	"github.com/2389-research/patchbay/geom"
	"github.com/google/go-cmp/cmp"
)

func TestCurve_ControlPointsGrowTowardEachOther(t *testing.T) {
	got := geom.Curve(geom.Pt(100, 50), geom.Pt(300, 150), 20)
	want := geom.Path{
		geom.Pt(100, 50),
		geom.Pt(120, 50),
		geom.Pt(280, 150),
		geom.Pt(300, 150),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Curve() mismatch (-want +got):\n%s", diff)
	}
}

func TestCurve_ReversedEndpointsKeepOffsets(t *testing.T) {
	got := geom.Curve(geom.Pt(300, 150), geom.Pt(100, 50), 20)
	if got[1] != geom.Pt(320, 150) {
		t.Errorf("expected first control right of start, got %v", got[1])
	}
	if got[2] != geom.Pt(80, 50) {
		t.Errorf("expected second control left of end, got %v", got[2])
	}
}

func TestCurve_EqualEndpoints(t *testing.T) {
	p := geom.Pt(10, 10)
	got := geom.Curve(p, p, geom.DefaultGrowOffset)
	if got.Start() != p || got.End() != p {
		t.Fatalf("endpoints moved: %v", got)
	}
	if got[1].X-got[2].X != 2*geom.DefaultGrowOffset {
		t.Errorf("expected controls separated by twice the offset, got %v", got)
	}
}

func TestCatmullRom_PassesThroughEveryPoint(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(20, 0), geom.Pt(80, 60), geom.Pt(100, 60)}
	segs := geom.CatmullRom(pts, geom.DefaultAlpha)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.P0 != pts[i] || s.P3 != pts[i+1] {
			t.Errorf("segment %d does not join %v and %v: %+v", i, pts[i], pts[i+1], s)
		}
		if s.At(0) != pts[i] || s.At(1) != pts[i+1] {
			t.Errorf("segment %d endpoints evaluate wrong", i)
		}
	}
}

func TestCatmullRom_CoincidentPointsStayFinite(t *testing.T) {
	p := geom.Pt(5, 5)
	segs := geom.CatmullRom([]geom.Point{p, p, p, p}, geom.DefaultAlpha)
	for _, s := range segs {
		for _, q := range []geom.Point{s.C1, s.C2} {
			if math.IsNaN(q.X) || math.IsNaN(q.Y) {
				t.Fatalf("NaN control point in %+v", s)
			}
		}
	}
}

func TestCatmullRom_TooFewPoints(t *testing.T) {
	if segs := geom.CatmullRom([]geom.Point{geom.Pt(1, 1)}, 0.5); segs != nil {
		t.Errorf("expected nil for a single point, got %v", segs)
	}
}

func TestSample_StartsAndEndsOnPath(t *testing.T) {
	path := geom.Curve(geom.Pt(0, 0), geom.Pt(100, 40), 20)
	pts := geom.Sample(path, geom.DefaultAlpha, 8)
	if len(pts) != 3*8+1 {
		t.Fatalf("expected %d samples, got %d", 3*8+1, len(pts))
	}
	if pts[0] != path.Start() {
		t.Errorf("first sample %v, want %v", pts[0], path.Start())
	}
	last := pts[len(pts)-1]
	if last.Dist(path.End()) > 1e-9 {
		t.Errorf("last sample %v, want %v", last, path.End())
	}
}

func TestPoint_Arithmetic(t *testing.T) {
	a := geom.Pt(3, 4)
	b := geom.Pt(1, 1)
	if got := a.Add(b); got != geom.Pt(4, 5) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != geom.Pt(2, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dist(geom.Pt(0, 0)); got != 5 {
		t.Errorf("Dist = %v", got)
	}
	if !(geom.Path{}).IsZero() {
		t.Error("zero path should report IsZero")
	}
}
