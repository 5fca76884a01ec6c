package render

import (
	"fmt"
	"image"
	"image/color"
)

// Unit systems for scale bar labeling.
const (
	UnitsFeet   = "feet"
	UnitsMeters = "meters"
)

// ScaleLadder is the fixed "nice number" ladder of bar lengths in ground
// units. The bar always shows one of these values, so it reads as a round
// number regardless of the export scale.
var ScaleLadder = []float64{10, 20, 25, 50, 100, 200, 250, 500, 1000, 2000, 2500, 5000, 10000, 20000}

// maxBarFraction keeps the chosen bar comfortably inside the available span:
// a bar at 100% would just barely overflow once end ticks and labels land.
const maxBarFraction = 0.9

// PickBarLength returns the largest ladder value that is at most 90% of
// maxGround, or 0 when even the smallest rung does not fit.
func PickBarLength(maxGround float64) float64 {
	limit := maxGround * maxBarFraction
	best := 0.0
	for _, v := range ScaleLadder {
		if v <= limit {
			best = v
		}
	}
	return best
}

// BarLabel formats a ground length in the given unit system: feet below one
// mile as feet, otherwise miles to one decimal; meters below one kilometer as
// meters, otherwise kilometers to one decimal.
func BarLabel(value float64, units string) string {
	if units == UnitsMeters {
		if value < 1000 {
			return fmt.Sprintf("%.0f m", value)
		}
		return fmt.Sprintf("%.1f km", value/1000)
	}
	if value < 5280 {
		return fmt.Sprintf("%.0f ft", value)
	}
	return fmt.Sprintf("%.1f mi", value/5280)
}

// DrawScaleBar draws a four-segment alternating scale bar with end ticks and
// a unit label into box. unitsPerPixel is the ground distance covered by one
// output pixel.
func DrawScaleBar(c *Canvas, box image.Rectangle, unitsPerPixel float64, units string) {
	if unitsPerPixel <= 0 || box.Empty() {
		return
	}
	const sidePad = 4
	maxPx := float64(box.Dx() - 2*sidePad)
	if maxPx < 8 {
		return
	}
	value := PickBarLength(maxPx * unitsPerPixel)
	if value == 0 {
		return
	}
	barPx := value / unitsPerPixel

	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	fontSize := float64(box.Dy()) * 0.35
	if fontSize > 12 {
		fontSize = 12
	}
	if fontSize < 6 {
		fontSize = 6
	}
	ascent, lineH := c.FontMetrics(fontSize, false)

	barH := float64(box.Dy()) - lineH - 4
	if barH > 8 {
		barH = 8
	}
	if barH < 3 {
		barH = 3
	}

	x0 := float64(box.Min.X) + (float64(box.Dx())-barPx)/2
	y0 := float64(box.Min.Y) + 2
	segW := barPx / 4

	for i := 0; i < 4; i++ {
		seg := image.Rect(
			int(x0+float64(i)*segW), int(y0),
			int(x0+float64(i+1)*segW), int(y0+barH),
		)
		if i%2 == 0 {
			c.FillRect(seg, black)
		} else {
			c.FillRect(seg, white)
			c.StrokeRect(seg, 1, black)
		}
	}
	// End ticks rise above the bar ends.
	tick := barH * 0.6
	c.StrokeLine(x0, y0-tick, x0, y0+barH, 1, black)
	c.StrokeLine(x0+barPx, y0-tick, x0+barPx, y0+barH, 1, black)

	c.DrawStringAligned(BarLabel(value, units), x0, x0+barPx, y0+barH+2+ascent, AlignCenter, fontSize, false, black)
}
