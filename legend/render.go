package legend

import (
	"image"
	"image/color"

	"github.com/cartoprint/mapsheet/render"
)

// Render draws items into box using a previously computed layout.
//
// Columns flow top to bottom, left to right. Headers are drawn bold without
// a swatch; sub-items are indented under their header.
func Render(c *render.Canvas, box image.Rectangle, items []Item, l Layout, title string, showTitle bool, background color.Color) {
	if background != nil {
		c.FillRect(box, background)
	}
	black := color.RGBA{A: 0xff}

	top := float64(box.Min.Y) + l.Padding
	left := float64(box.Min.X) + l.Padding

	// Advance past the title slot whenever the layout reserved it, even if
	// there is no text to draw, so item rows land where Compute placed them.
	if showTitle {
		if title != "" {
			ascent, _ := c.FontMetrics(TitleFontSize, true)
			c.DrawString(title, left, top+ascent, TitleFontSize, true, black)
		}
		top += TitleFontSize + titleGap
	}

	ascent, _ := c.FontMetrics(l.FontSize, false)
	baselineOff := (l.ItemHeight + ascent) / 2

	for colIdx, col := range Columns(items, l) {
		x := left + float64(colIdx)*(l.ColumnWidth+l.ColumnGap)
		for row, itemIdx := range col {
			it := items[itemIdx]
			y := top + float64(row)*l.ItemHeight

			if it.IsHeader {
				hAscent, _ := c.FontMetrics(l.FontSize, true)
				c.DrawString(it.Label, x, y+(l.ItemHeight+hAscent)/2, l.FontSize, true, black)
				continue
			}

			ix := x
			if it.IsSubItem {
				ix += l.SubItemIndent
			}
			if it.Symbol != nil {
				drawSwatch(c, it.Symbol, ix, y, l.ItemHeight, l.SymbolSize)
				ix += l.SymbolSize + symbolGap
			}
			c.DrawString(it.Label, ix, y+baselineOff, l.FontSize, false, black)
		}
	}
}

// drawSwatch draws one legend symbol: a filled (or outline-only) square for
// fill symbols, a stroked line for line symbols.
func drawSwatch(c *render.Canvas, s *Symbol, x, y, itemH, size float64) {
	cy := y + itemH/2
	switch s.Kind {
	case SymbolLine:
		c.StrokeLine(x, cy, x+size, cy, 2, s.Color)
	default:
		r := image.Rect(int(x), int(cy-size/2), int(x+size), int(cy+size/2))
		if !s.TransparentFill {
			c.FillRect(r, s.Color)
		}
		c.StrokeRect(r, 1, s.Outline)
	}
}
