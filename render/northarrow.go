package render

import (
	"image"
	"image/color"
)

// DrawNorthArrow draws a two-tone compass arrow centered in box, scaled to
// the smaller box dimension, with an "N" label above the tip.
func DrawNorthArrow(c *Canvas, box image.Rectangle) {
	if box.Empty() {
		return
	}
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	size := float64(box.Dx())
	if h := float64(box.Dy()); h < size {
		size = h
	}

	fontSize := size * 0.25
	if fontSize < 7 {
		fontSize = 7
	}
	ascent, labelH := c.FontMetrics(fontSize, true)

	arrowH := size - labelH
	if arrowH < 6 {
		arrowH = 6
	}
	halfW := arrowH * 0.35

	cx := float64(box.Min.X) + float64(box.Dx())/2
	top := float64(box.Min.Y) + (float64(box.Dy())-size)/2
	tipY := top + labelH
	baseY := tipY + arrowH
	notchY := baseY - arrowH*0.25

	// West half filled dark, east half white with an outline.
	c.FillPolygon([]Vec{
		{cx, tipY},
		{cx, notchY},
		{cx - halfW, baseY},
	}, black)
	c.FillPolygon([]Vec{
		{cx, tipY},
		{cx + halfW, baseY},
		{cx, notchY},
	}, white)
	c.StrokeLine(cx, tipY, cx+halfW, baseY, 1, black)
	c.StrokeLine(cx+halfW, baseY, cx, notchY, 1, black)
	c.StrokeLine(cx, notchY, cx, tipY, 1, black)

	c.DrawStringAligned("N", cx-halfW, cx+halfW, top+ascent, AlignCenter, fontSize, true, black)
}
