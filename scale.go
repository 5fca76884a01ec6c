package mapsheet

import (
	"fmt"

	"github.com/cartoprint/mapsheet/capture"
)

// ResolveExportArea derives the geographic window that will be captured for
// the template's map element.
//
// With an explicit scale (ground units per inch of printed map), the window
// spans scale x the map element's physical size, centered on the current
// view center. With scale 0 (auto-fit), the window is the current view
// extent and the scale is back-computed from the view width over the map
// element's physical width.
func ResolveExportArea(tpl *Template, scale float64, view capture.Extent) (capture.ExportArea, error) {
	mapEl, err := tpl.MapElement()
	if err != nil {
		return capture.ExportArea{}, err
	}
	pageW, pageH, err := tpl.PageInches()
	if err != nil {
		return capture.ExportArea{}, err
	}
	widthIn := pageW * mapEl.Width / 100
	heightIn := pageH * mapEl.Height / 100
	if widthIn <= 0 || heightIn <= 0 {
		return capture.ExportArea{}, fmt.Errorf("%w: map element collapses to %gx%g in", ErrInvalidTemplate, widthIn, heightIn)
	}

	if scale > 0 {
		gw := scale * widthIn
		gh := scale * heightIn
		c := view.Center()
		return capture.ExportArea{
			Extent: capture.Extent{
				XMin: c.X - gw/2, XMax: c.X + gw/2,
				YMin: c.Y - gh/2, YMax: c.Y + gh/2,
			},
			Scale: scale,
		}, nil
	}

	if view.Empty() {
		return capture.ExportArea{}, fmt.Errorf("mapsheet: auto-fit scale needs a non-empty view extent: %w", capture.ErrCaptureUnavailable)
	}
	return capture.ExportArea{
		Extent: view,
		Scale:  view.Width() / widthIn,
	}, nil
}
