// ABOUTME: Draws a scene onto a character grid for terminal display.
// ABOUTME: Wires are sampled Catmull-Rom curves; boxes are drawn over them with styled runs.
package render

import (
	"math"
	"strings"

	"github.com/2389-research/patchbay/geom"
	"github.com/charmbracelet/lipgloss"
)

type cellClass int

const (
	classEmpty cellClass = iota
	classWire
	classBorder
	classHeader
	classLabel
	classPort
)

type cell struct {
	r     rune
	class cellClass
	kind  string
}

type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *grid) set(x, y int, c cell) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = c
}

func (g *grid) text(x, y int, s string, class cellClass, kind string) {
	for _, r := range s {
		g.set(x, y, cell{r: r, class: class, kind: kind})
		x++
	}
}

// Terminal draws the scene into a width x height block of styled text. Scene units
// are taken as character cells, so the scene should use CellLayout.
func (s *Scene) Terminal(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	g := newGrid(width, height)
	for _, w := range s.Wires() {
		drawWire(g, w.Path, s.alpha)
	}
	for _, box := range s.Nodes() {
		s.drawBox(g, box)
	}
	return g.String()
}

func drawWire(g *grid, p geom.Path, alpha float64) {
	pts := geom.Sample(p, alpha, 12)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		n := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
		if n == 0 {
			n = 1
		}
		for k := 0; k <= n; k++ {
			q := b
			if k < n {
				t := float64(k) / float64(n)
				q = geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
			}
			g.set(int(math.Floor(q.X)), int(math.Floor(q.Y)), cell{r: '·', class: classWire})
		}
	}
}

func (s *Scene) drawBox(g *grid, box NodeBox) {
	l := s.layout
	left := int(math.Floor(box.View.Position.Left))
	top := int(math.Floor(box.View.Position.Top))
	width := int(l.Width)
	header := int(l.HeaderHeight)
	rows := l.Rows(len(box.View.Inputs), len(box.View.Outputs))
	bottom := top + header + rows

	border := func(x, y int, r rune) { g.set(x, y, cell{r: r, class: classBorder}) }

	border(left, top, '╭')
	border(left+width, top, '╮')
	border(left, bottom, '╰')
	border(left+width, bottom, '╯')
	for x := left + 1; x < left+width; x++ {
		border(x, top, '─')
		border(x, bottom, '─')
	}
	for y := top + 1; y < bottom; y++ {
		border(left, y, '│')
		border(left+width, y, '│')
		for x := left + 1; x < left+width; x++ {
			g.set(x, y, cell{r: ' ', class: classLabel})
		}
	}

	inner := width - 1
	for y := top + 1; y < top+header; y++ {
		for x := left + 1; x < left+width; x++ {
			g.set(x, y, cell{r: ' ', class: classHeader, kind: box.View.Kind})
		}
	}
	g.text(left+1, top+1, fit(" "+box.View.Name, inner), classHeader, box.View.Kind)

	half := (inner - 1) / 2
	for i, p := range box.View.Inputs {
		y := top + header + i
		g.set(left, y, cell{r: '●', class: classPort})
		g.text(left+2, y, fit(p.Label, half), classLabel, "")
	}
	for i, p := range box.View.Outputs {
		y := top + header + i
		g.set(left+width, y, cell{r: '●', class: classPort})
		label := fit(p.Label, half)
		g.text(left+width-1-len([]rune(label)), y, label, classLabel, "")
	}
}

// fit truncates s to n runes, marking the cut with an ellipsis.
func fit(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func styleFor(c cell) lipgloss.Style {
	switch c.class {
	case classWire:
		return WireStyle
	case classBorder:
		return BorderStyle
	case classHeader:
		return HeaderStyle(c.kind)
	case classLabel:
		return LabelStyle
	case classPort:
		return PortStyle
	default:
		return lipgloss.NewStyle()
	}
}

// String renders the grid row by row, styling runs of cells that share a class.
func (g *grid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := g.cells[y*g.w : (y+1)*g.w]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].class == row[start].class && row[x].kind == row[start].kind {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			if row[start].class == classEmpty {
				b.WriteString(run.String())
			} else {
				b.WriteString(styleFor(row[start]).Render(run.String()))
			}
			start = x
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Plain returns the scene's glyphs without styling, for tests and logs.
func (s *Scene) Plain(width, height int) string {
	g := newGrid(width, height)
	for _, w := range s.Wires() {
		drawWire(g, w.Path, s.alpha)
	}
	for _, box := range s.Nodes() {
		s.drawBox(g, box)
	}
	lines := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		var b strings.Builder
		for _, c := range g.cells[y*g.w : (y+1)*g.w] {
			b.WriteRune(c.r)
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
