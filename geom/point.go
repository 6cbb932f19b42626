// ABOUTME: Screen-space points and the four-point connection path used by wires.
// ABOUTME: Pure value types; arithmetic never mutates its receiver.
package geom

import (
	"fmt"
	"math"
)

// Point is a screen-space coordinate. X grows to the right, Y grows downward.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Path is the control polygon of a connection curve:
// start, the control point leaving start, the control point entering end, end.
type Path [4]Point

// Start returns the first endpoint.
func (p Path) Start() Point { return p[0] }

// End returns the last endpoint.
func (p Path) End() Point { return p[3] }

// Points returns the control polygon as a slice.
func (p Path) Points() []Point {
	return []Point{p[0], p[1], p[2], p[3]}
}

// IsZero reports whether the path was never routed.
func (p Path) IsZero() bool {
	return p == Path{}
}

func (p Path) String() string {
	return fmt.Sprintf("[%s %s %s %s]", p[0], p[1], p[2], p[3])
}
