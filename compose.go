package mapsheet

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/cartoprint/mapsheet/capture"
	"github.com/cartoprint/mapsheet/legend"
	"github.com/cartoprint/mapsheet/render"
)

// Default point sizes for text elements that do not specify one.
const (
	defaultTitleSize = 24.0
	defaultTextSize  = 12.0
)

// compose renders every visible template element onto one surface, in
// document order. The map element is captured from the view; a failure there
// is fatal. Any other element's failure is logged, recorded as a warning,
// and the element is skipped, so the export as a whole still completes.
func (e *Engine) compose(ctx context.Context, tpl *Template, view capture.MapView, items []legend.Item, area capture.ExportArea) (*render.Canvas, []string, error) {
	pageW, pageH, err := tpl.PageInches()
	if err != nil {
		return nil, nil, err
	}
	width := int(math.Round(pageW * e.dpi))
	height := int(math.Round(pageH * e.dpi))

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	canvas, err := render.NewCanvas(width, height, ParseHexColor(tpl.Background, white))
	if err != nil {
		return nil, nil, newExportError("Compose", err)
	}

	var warnings []string
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		e.logf("%s", msg)
	}

	for i, el := range tpl.Elements {
		if !el.Visible {
			continue
		}
		box := elementRect(el, width, height)
		if box.Empty() && el.Type != ElementMap {
			warn("element %d (%s): empty box, skipped", i, el.Type)
			continue
		}

		switch el.Type {
		case ElementMap:
			res, err := capture.Capture(ctx, view, area, box.Dx(), box.Dy(), e.captureOpts)
			if err != nil {
				return nil, warnings, newExportError("CaptureMap", err)
			}
			if res.TimedOut {
				warn("map element: view settle timed out, imagery may be incomplete")
			}
			canvas.DrawImageAt(res.Image, box.Min)
			canvas.StrokeRect(box, 1, color.RGBA{A: 0xff})

		case ElementTitle:
			e.drawText(canvas, el, box, defaultTitleSize, false)

		case ElementText:
			e.drawText(canvas, el, box, defaultTextSize, true)

		case ElementLegend:
			layout := legend.Compute(float64(box.Dx()), float64(box.Dy()), items, el.ShowTitle, canvas.MeasureString)
			legend.Render(canvas, box, items, layout, el.LegendTitle, el.ShowTitle, ParseHexColor(el.Background, nil))

		case ElementScaleBar:
			render.DrawScaleBar(canvas, box, area.Scale/e.dpi, el.Units)

		case ElementNorthArrow:
			render.DrawNorthArrow(canvas, box)

		case ElementQRCode:
			if err := render.DrawQRCode(canvas, box, el.Payload); err != nil {
				warn("element %d (qrcode): %v, skipped", i, err)
			}

		case ElementLogo, ElementImage:
			img, err := e.fetch(ctx, el.URL)
			if err != nil {
				warn("element %d (%s): loading %q: %v, skipped", i, el.Type, el.URL, err)
				continue
			}
			fitted := imaging.Fit(img, box.Dx(), box.Dy(), imaging.Lanczos)
			at := image.Point{
				X: box.Min.X + (box.Dx()-fitted.Bounds().Dx())/2,
				Y: box.Min.Y + (box.Dy()-fitted.Bounds().Dy())/2,
			}
			canvas.DrawImageAt(fitted, at)

		default:
			warn("element %d: unknown type %q, skipped", i, el.Type)
		}
	}

	return canvas, warnings, nil
}

// elementRect converts an element's percentage geometry to absolute pixels.
func elementRect(el Element, pageW, pageH int) image.Rectangle {
	x0 := int(math.Round(el.X / 100 * float64(pageW)))
	y0 := int(math.Round(el.Y / 100 * float64(pageH)))
	x1 := int(math.Round((el.X + el.Width) / 100 * float64(pageW)))
	y1 := int(math.Round((el.Y + el.Height) / 100 * float64(pageH)))
	return image.Rect(x0, y0, x1, y1)
}

// drawText renders a title or text element. Titles draw a single line,
// vertically centered. Text elements word-wrap greedily; overflow below the
// box is intentionally not clipped so long text stays fully visible.
func (e *Engine) drawText(c *render.Canvas, el Element, box image.Rectangle, defaultPt float64, wrap bool) {
	if bg := ParseHexColor(el.Background, nil); bg != nil {
		c.FillRect(box, bg)
	}
	text := el.Text
	if strings.TrimSpace(text) == "" {
		return
	}

	pt := el.FontSize
	if pt <= 0 {
		pt = defaultPt
	}
	size := pt * e.dpi / 72
	bold := el.FontWeight == "bold"
	col := ParseHexColor(el.Color, color.RGBA{A: 0xff})
	align := render.ParseAlign(el.Align)
	ascent, lineH := c.FontMetrics(size, bold)
	x0, x1 := float64(box.Min.X), float64(box.Max.X)

	if !wrap {
		y := float64(box.Min.Y) + (float64(box.Dy())+ascent)/2
		c.DrawStringAligned(text, x0, x1, y, align, size, bold, col)
		return
	}

	lines := wrapText(c, text, size, bold, float64(box.Dx()))
	y := float64(box.Min.Y) + ascent
	for _, line := range lines {
		c.DrawStringAligned(line, x0, x1, y, align, size, bold, col)
		y += lineH
	}
}

// wrapText breaks text into lines that fit maxW: words accumulate until the
// measured line width would exceed the box width. Explicit newlines are
// respected.
func wrapText(c *render.Canvas, text string, size float64, bold bool, maxW float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if c.MeasureString(candidate, size, bold) > maxW {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
