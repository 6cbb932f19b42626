// ABOUTME: Four-point S-curve shaping for connection wires between two ports.
// ABOUTME: Control points grow horizontally out of the output and into the input.
package geom

// DefaultGrowOffset is the horizontal distance between an endpoint and its control point.
const DefaultGrowOffset = 20.0

// Curve builds the control path from an output port at from to an input port at to.
// The first control point sits offset pixels right of from on the same row, the second
// offset pixels left of to. Equal or reversed endpoints are accepted as-is; the shape
// never depends on their relative order beyond the fixed offset.
func Curve(from, to Point, offset float64) Path {
	return Path{
		from,
		{X: from.X + offset, Y: from.Y},
		{X: to.X - offset, Y: to.Y},
		to,
	}
}
