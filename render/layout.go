// ABOUTME: Layout metrics that place a node's header, rows, and port centres.
// ABOUTME: Shared by the pixel (PNG) and cell (terminal) renderers.
package render

import (
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
)

// Layout describes node box geometry in renderer units.
type Layout struct {
	Width        float64 `yaml:"width"`
	HeaderHeight float64 `yaml:"header_height"`
	RowHeight    float64 `yaml:"row_height"`
	// PortInset moves port centres inward from the box's left and right edges.
	PortInset float64 `yaml:"port_inset"`
}

// PixelLayout suits raster output.
var PixelLayout = Layout{Width: 180, HeaderHeight: 28, RowHeight: 22, PortInset: 0}

// CellLayout suits a terminal grid where one unit is one character cell.
var CellLayout = Layout{Width: 26, HeaderHeight: 2, RowHeight: 1, PortInset: 0}

// CellPixels is the size of one terminal cell in pixels, for moving pixel-authored
// positions onto the cell grid.
var CellPixels = geom.Pt(8, 16)

// Rows returns the number of port rows a node needs.
func (l Layout) Rows(inputs, outputs int) int {
	return max(inputs, outputs, 1)
}

// Size returns the width and height of a node box.
func (l Layout) Size(inputs, outputs int) (float64, float64) {
	return l.Width, l.HeaderHeight + l.RowHeight*float64(l.Rows(inputs, outputs)) + l.RowHeight/2
}

// PortCenter returns the centre of the index-th port of a node at pos.
// Inputs sit on the left edge and outputs on the right, one row each below the header.
func (l Layout) PortCenter(pos graph.Position, dir graph.Direction, index int) geom.Point {
	y := pos.Top + l.HeaderHeight + l.RowHeight*float64(index) + l.RowHeight/2
	x := pos.Left + l.PortInset
	if dir == graph.Output {
		x = pos.Left + l.Width - l.PortInset
	}
	return geom.Point{X: x, Y: y}
}

// HitHeader reports whether p falls inside the header of a node at pos.
func (l Layout) HitHeader(pos graph.Position, p geom.Point) bool {
	return p.X >= pos.Left && p.X < pos.Left+l.Width &&
		p.Y >= pos.Top && p.Y < pos.Top+l.HeaderHeight
}
