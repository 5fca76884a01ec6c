// Package render provides the drawing surface and the element renderers used
// by the map sheet compositor: text, scale bars, north arrows, and QR codes.
//
// A Canvas wraps an RGBA raster together with a pair of embedded typefaces
// (Go Regular and Go Bold) so callers can measure and draw text without any
// font files on disk. All geometry is in device pixels.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	xdraw "golang.org/x/image/draw"
)

// Align is a horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign maps the template's align strings to an Align. Unknown values
// fall back to left.
func ParseAlign(s string) Align {
	switch s {
	case "center", "C", "c":
		return AlignCenter
	case "right", "R", "r":
		return AlignRight
	default:
		return AlignLeft
	}
}

type faceKey struct {
	size int // tenths of a point, so 12.5pt and 12.5pt share a face
	bold bool
}

// Canvas is a drawing surface for page composition.
type Canvas struct {
	img     *image.RGBA
	regular *sfnt.Font
	bold    *sfnt.Font
	faces   map[faceKey]font.Face
}

// NewCanvas creates a w x h canvas filled with the background color.
func NewCanvas(w, h int, background color.Color) (*Canvas, error) {
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bld, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return &Canvas{
		img:     img,
		regular: reg,
		bold:    bld,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Image returns the underlying raster.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds returns the canvas bounds.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) face(size float64, bold bool) font.Face {
	if size < 4 {
		size = 4
	}
	key := faceKey{size: int(size * 10), bold: bold}
	if f, ok := c.faces[key]; ok {
		return f
	}
	src := c.regular
	if bold {
		src = c.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		f = basicfont.Face7x13
	}
	c.faces[key] = f
	return f
}

// MeasureString returns the advance width of s in pixels at the given size.
func (c *Canvas) MeasureString(s string, size float64, bold bool) float64 {
	return float64(font.MeasureString(c.face(size, bold), s)) / 64
}

// FontMetrics returns the ascent and line height in pixels for the given size.
func (c *Canvas) FontMetrics(size float64, bold bool) (ascent, height float64) {
	m := c.face(size, bold).Metrics()
	return float64(m.Ascent) / 64, float64(m.Height) / 64
}

// DrawString draws a single line of text with its baseline starting at (x, y).
func (c *Canvas) DrawString(s string, x, y, size float64, bold bool, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face(size, bold),
		Dot:  fixed.Point26_6{X: floatFixed(x), Y: floatFixed(y)},
	}
	d.DrawString(s)
}

// DrawStringAligned draws a single line of text inside the horizontal span
// [x0, x1] with the given alignment, baseline at y.
func (c *Canvas) DrawStringAligned(s string, x0, x1, y float64, align Align, size float64, bold bool, col color.Color) {
	w := c.MeasureString(s, size, bold)
	x := x0
	switch align {
	case AlignCenter:
		x = x0 + (x1-x0-w)/2
	case AlignRight:
		x = x1 - w
	}
	c.DrawString(s, x, y, size, bold, col)
}

// FillRect fills a rectangle.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect outlines a rectangle with the given stroke width, drawn inward.
func (c *Canvas) StrokeRect(r image.Rectangle, width int, col color.Color) {
	if width < 1 {
		width = 1
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// StrokeLine draws an antialiased line segment of the given width.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	dx, dy := x1-x0, y1-y0
	length := dx*dx + dy*dy
	if length == 0 {
		return
	}
	// Perpendicular half-width offset turns the segment into a quad.
	inv := width / 2 / math.Sqrt(length)
	px, py := -dy*inv, dx*inv
	c.FillPolygon([]Vec{
		{x0 + px, y0 + py},
		{x1 + px, y1 + py},
		{x1 - px, y1 - py},
		{x0 - px, y0 - py},
	}, col)
}

// Vec is a floating-point pixel coordinate.
type Vec struct {
	X, Y float64
}

// FillPolygon fills a closed polygon with antialiasing.
func (c *Canvas) FillPolygon(pts []Vec, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := c.img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// DrawImage scales src to exactly fill dst.
func (c *Canvas) DrawImage(dst image.Rectangle, src image.Image) {
	xdraw.CatmullRom.Scale(c.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

// DrawImageAt pastes src unscaled with its top-left corner at p.
func (c *Canvas) DrawImageAt(src image.Image, p image.Point) {
	b := src.Bounds()
	draw.Draw(c.img, image.Rect(p.X, p.Y, p.X+b.Dx(), p.Y+b.Dy()), src, b.Min, draw.Over)
}

func floatFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}
