// ABOUTME: Rasterises a scene to PNG with gg: Catmull-Rom wires with arrowheads under kind-coloured boxes.
// ABOUTME: Text uses the embedded Go Mono face so output does not depend on system fonts.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// ErrEmptyScene is returned when there is nothing to rasterise.
var ErrEmptyScene = errors.New("nothing to render")

// ErrSceneTooLarge is returned when the image would exceed PNGOptions.MaxSize.
var ErrSceneTooLarge = errors.New("scene too large to rasterise")

// FormatPNG is the cache format tag for PNG output.
const FormatPNG = "png"

const (
	backgroundColor = "#1e1f22"
	bodyColor       = "#2b2d31"
	outlineColor    = "#4e5058"
	wireColor       = "#8ab4f8"
	portColor       = "#f5a623"
	textColor       = "#e8e8e8"

	cornerRadius = 6.0
	portRadius   = 4.0
	arrowSize    = 7.0
	arrowSpread  = 0.5
)

// PNGOptions controls rasterisation.
type PNGOptions struct {
	// Padding is added around the scene bounds, in pixels.
	Padding float64
	// Alpha is the Catmull-Rom parameterisation used for wires.
	Alpha float64
	// FontSize is in points at 72 DPI.
	FontSize float64
	// MaxSize caps the image width and height in pixels. Zero means no cap.
	MaxSize int
}

// DefaultPNGOptions returns the options used when none are configured.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Padding: 24, Alpha: geom.DefaultAlpha, FontSize: 12, MaxSize: 8192}
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func fontFace(size float64) (font.Face, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return nil, fmt.Errorf("parse font: %w", monoErr)
	}
	return truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// WritePNG rasterises the scene and writes PNG bytes to w.
func (s *Scene) WritePNG(w io.Writer, opts PNGOptions) error {
	lo, hi, ok := s.Bounds()
	if !ok {
		return ErrEmptyScene
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultPNGOptions().FontSize
	}

	fw := math.Ceil(hi.X-lo.X+2*opts.Padding) + 1
	fh := math.Ceil(hi.Y-lo.Y+2*opts.Padding) + 1
	if opts.MaxSize > 0 && (fw > float64(opts.MaxSize) || fh > float64(opts.MaxSize)) {
		return fmt.Errorf("%w: %gx%g exceeds %d", ErrSceneTooLarge, fw, fh, opts.MaxSize)
	}
	width, height := int(fw), int(fh)

	dc := gg.NewContext(width, height)
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	face, err := fontFace(opts.FontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.Translate(opts.Padding-lo.X, opts.Padding-lo.Y)

	// Wires go first so boxes sit on top of them.
	for _, wire := range s.Wires() {
		drawWirePNG(dc, wire.Path, opts.Alpha)
	}
	for _, box := range s.Nodes() {
		s.drawBoxPNG(dc, box)
	}

	return dc.EncodePNG(w)
}

// PNG is WritePNG into a byte slice.
func (s *Scene) PNG(opts PNGOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WritePNG(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNGRenderFunc adapts Scene.PNG to a cache RenderFunc.
func PNGRenderFunc(opts PNGOptions) RenderFunc {
	return func(_ context.Context, s *Scene, format string) ([]byte, error) {
		if format != FormatPNG {
			return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
		}
		return s.PNG(opts)
	}
}

func drawWirePNG(dc *gg.Context, p geom.Path, alpha float64) {
	segs := geom.CatmullRom(p.Points(), alpha)
	if len(segs) == 0 {
		return
	}
	dc.SetHexColor(wireColor)
	dc.SetLineWidth(2)
	dc.MoveTo(segs[0].P0.X, segs[0].P0.Y)
	for _, b := range segs {
		dc.CubicTo(b.C1.X, b.C1.Y, b.C2.X, b.C2.Y, b.P3.X, b.P3.Y)
	}
	dc.Stroke()

	last := segs[len(segs)-1]
	from := last.C2
	if from.Dist(last.P3) < 0.1 {
		from = last.P0
	}
	drawArrowPNG(dc, from, last.P3)
}

func drawArrowPNG(dc *gg.Context, from, to geom.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-arrowSize*dx+arrowSize*dy*arrowSpread, to.Y-arrowSize*dy-arrowSize*dx*arrowSpread)
	dc.LineTo(to.X-arrowSize*dx-arrowSize*dy*arrowSpread, to.Y-arrowSize*dy+arrowSize*dx*arrowSpread)
	dc.ClosePath()
	dc.Fill()
}

func (s *Scene) drawBoxPNG(dc *gg.Context, box NodeBox) {
	l := s.layout
	pos := box.View.Position
	x, y := pos.Left, pos.Top
	w, h := l.Size(len(box.View.Inputs), len(box.View.Outputs))

	dc.SetHexColor(bodyColor)
	dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
	dc.Fill()

	dc.SetHexColor(KindColor(box.View.Kind))
	dc.DrawRoundedRectangle(x, y, w, l.HeaderHeight, cornerRadius)
	dc.Fill()

	dc.SetHexColor(outlineColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
	dc.Stroke()

	dc.SetHexColor(textColor)
	dc.DrawStringAnchored(box.View.Name, x+8, y+l.HeaderHeight/2, 0, 0.35)

	for i, p := range box.View.Inputs {
		c := l.PortCenter(pos, graph.Input, i)
		drawPortPNG(dc, c)
		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(p.Label, c.X+portRadius+6, c.Y, 0, 0.35)
	}
	for i, p := range box.View.Outputs {
		c := l.PortCenter(pos, graph.Output, i)
		drawPortPNG(dc, c)
		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(p.Label, c.X-portRadius-6, c.Y, 1, 0.35)
	}
}

func drawPortPNG(dc *gg.Context, c geom.Point) {
	dc.SetHexColor(portColor)
	dc.DrawCircle(c.X, c.Y, portRadius)
	dc.Fill()
}
