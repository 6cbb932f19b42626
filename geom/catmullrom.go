// ABOUTME: Parameterised Catmull-Rom interpolation through a connection's control polygon.
// ABOUTME: Produces cubic Bezier segments for vector output and sampled polylines for cell output.
package geom

import "math"

// DefaultAlpha matches the wire tension used by the editor canvas.
const DefaultAlpha = 0.8

const epsilon = 1e-12

// Bezier is one cubic segment from P0 to P3 with control points C1 and C2.
type Bezier struct {
	P0, C1, C2, P3 Point
}

// At evaluates the segment at t in [0,1].
func (b Bezier) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	c := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*b.P0.X + c*b.C1.X + d*b.C2.X + e*b.P3.X,
		Y: a*b.P0.Y + c*b.C1.Y + d*b.C2.Y + e*b.P3.Y,
	}
}

// CatmullRom converts the points into cubic Bezier segments passing through every point.
// alpha selects the parameterisation: 0 uniform, 0.5 centripetal, 1 chordal.
// The first and last points are repeated as phantom neighbours, so the curve starts and
// ends tangent to its first and last chords.
func CatmullRom(pts []Point, alpha float64) []Bezier {
	if len(pts) < 2 {
		return nil
	}
	out := make([]Bezier, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]
		out = append(out, segment(p0, p1, p2, p3, alpha))
	}
	return out
}

// segment follows the d3 curveCatmullRom control point construction.
func segment(p0, p1, p2, p3 Point, alpha float64) Bezier {
	l01a := math.Pow(p0.Dist(p1), alpha)
	l12a := math.Pow(p1.Dist(p2), alpha)
	l23a := math.Pow(p2.Dist(p3), alpha)
	l01_2a := l01a * l01a
	l12_2a := l12a * l12a
	l23_2a := l23a * l23a

	c1, c2 := p1, p2
	if l01a > epsilon {
		a := 2*l01_2a + 3*l01a*l12a + l12_2a
		n := 3 * l01a * (l01a + l12a)
		c1 = Point{
			X: (p1.X*a - p0.X*l12_2a + p2.X*l01_2a) / n,
			Y: (p1.Y*a - p0.Y*l12_2a + p2.Y*l01_2a) / n,
		}
	}
	if l23a > epsilon {
		b := 2*l23_2a + 3*l23a*l12a + l12_2a
		m := 3 * l23a * (l23a + l12a)
		c2 = Point{
			X: (p2.X*b + p1.X*l23_2a - p3.X*l12_2a) / m,
			Y: (p2.Y*b + p1.Y*l23_2a - p3.Y*l12_2a) / m,
		}
	}
	return Bezier{P0: p1, C1: c1, C2: c2, P3: p2}
}

// Sample flattens the path's Catmull-Rom curve into a polyline with steps points per segment.
func Sample(p Path, alpha float64, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	segs := CatmullRom(p.Points(), alpha)
	out := make([]Point, 0, len(segs)*steps+1)
	out = append(out, p.Start())
	for _, s := range segs {
		for i := 1; i <= steps; i++ {
			out = append(out, s.At(float64(i)/float64(steps)))
		}
	}
	return out
}
