// Package mapsheet composes printable map sheets from a live map view and a
// reusable page template, then rasterizes them into a PDF, PNG, or JPEG file.
//
// A template is a declarative JSON document describing a page and an ordered
// list of elements. All element geometry is expressed as a percentage of the
// page width/height, which decouples template authoring from output DPI.
//
// Example JSON:
//
//	{
//	  "pageSize": "Letter",
//	  "background": "#ffffff",
//	  "elements": [
//	    {"type": "map", "x": 2, "y": 2, "width": 96, "height": 80, "visible": true},
//	    {"type": "title", "x": 2, "y": 84, "width": 60, "height": 6, "visible": true,
//	     "text": "Flood Zones 2026", "fontSize": 24, "fontWeight": "bold"},
//	    {"type": "legend", "x": 64, "y": 84, "width": 20, "height": 14, "visible": true,
//	     "legendTitle": "Legend", "showTitle": true},
//	    {"type": "scalebar", "x": 2, "y": 92, "width": 25, "height": 5, "visible": true,
//	     "units": "feet"},
//	    {"type": "northarrow", "x": 90, "y": 84, "width": 8, "height": 14, "visible": true}
//	  ]
//	}
package mapsheet

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Element type names recognized by the compositor.
const (
	ElementMap        = "map"
	ElementTitle      = "title"
	ElementText       = "text"
	ElementLegend     = "legend"
	ElementScaleBar   = "scalebar"
	ElementNorthArrow = "northarrow"
	ElementLogo       = "logo"
	ElementImage      = "image"
	ElementQRCode     = "qrcode"
)

// Page size names understood by Template.PageInches.
const (
	PageSizeLetter  = "Letter"
	PageSizeTabloid = "Tabloid"
	PageSizeAnsiC   = "AnsiC"
	PageSizeAnsiD   = "AnsiD"
	PageSizeA4      = "A4"
	PageSizeA3      = "A3"
	PageSizeCustom  = "Custom"
)

// pageSizes maps a page size name to its physical dimensions in inches,
// portrait orientation.
var pageSizes = map[string][2]float64{
	PageSizeLetter:  {8.5, 11},
	PageSizeTabloid: {11, 17},
	PageSizeAnsiC:   {17, 22},
	PageSizeAnsiD:   {22, 34},
	PageSizeA4:      {8.27, 11.69},
	PageSizeA3:      {11.69, 16.54},
}

// Template is the top-level description of a printable map sheet.
type Template struct {
	PageSize     string    `json:"pageSize,omitempty"`     // Letter, Tabloid, AnsiC, AnsiD, A4, A3, Custom
	CustomWidth  float64   `json:"customWidth,omitempty"`  // inches, when PageSize is Custom
	CustomHeight float64   `json:"customHeight,omitempty"` // inches, when PageSize is Custom
	Landscape    bool      `json:"landscape,omitempty"`    // swap page width/height
	Background   string    `json:"background,omitempty"`   // page background, "#rrggbb" (default white)
	Elements     []Element `json:"elements"`
}

// Element is a single visual element on the page. The Type field determines
// which content fields are relevant. X, Y, Width and Height are percentages
// of the page width/height. Elements may overlap; render order is document
// order, later elements paint over earlier ones.
type Element struct {
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`

	// Text content (title, text)
	Text       string  `json:"text,omitempty"`
	Color      string  `json:"color,omitempty"` // "#rrggbb", default black
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"` // "normal" or "bold"
	Align      string  `json:"align,omitempty"`      // "left", "center", "right"
	Background string  `json:"background,omitempty"` // element background, empty for none

	// Legend
	LegendTitle string `json:"legendTitle,omitempty"`
	ShowTitle   bool   `json:"showTitle,omitempty"`

	// Image / logo
	URL string `json:"url,omitempty"`

	// Scale bar
	Units string `json:"units,omitempty"` // "feet" or "meters" (default feet)

	// QR code
	Payload string `json:"payload,omitempty"`
}

// ParseTemplate decodes a JSON template and validates it.
func ParseTemplate(data []byte) (*Template, error) {
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("mapsheet: parsing template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// PageInches resolves the physical page size in inches, honoring the
// Landscape flag. It fails on an unknown page size name or a degenerate
// custom size.
func (t *Template) PageInches() (w, h float64, err error) {
	size := t.PageSize
	if size == "" {
		size = PageSizeLetter
	}
	if size == PageSizeCustom {
		w, h = t.CustomWidth, t.CustomHeight
	} else {
		dims, ok := pageSizes[size]
		if !ok {
			return 0, 0, fmt.Errorf("%w: unknown page size %q", ErrInvalidTemplate, size)
		}
		w, h = dims[0], dims[1]
	}
	if w <= 0 || h <= 0 || math.IsNaN(w) || math.IsNaN(h) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, 0, fmt.Errorf("%w: degenerate page size %gx%g in", ErrInvalidTemplate, w, h)
	}
	if t.Landscape {
		w, h = h, w
	}
	return w, h, nil
}

// Validate checks that the template can be exported: page size resolves,
// element geometry is finite and non-negative, and exactly one visible map
// element is present.
func (t *Template) Validate() error {
	if _, _, err := t.PageInches(); err != nil {
		return err
	}
	mapCount := 0
	for i, el := range t.Elements {
		for _, v := range []float64{el.X, el.Y, el.Width, el.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("%w: element %d (%s) has invalid geometry", ErrInvalidTemplate, i, el.Type)
			}
		}
		if el.Type == ElementMap && el.Visible {
			mapCount++
		}
	}
	if mapCount == 0 {
		return ErrMissingMapElement
	}
	if mapCount > 1 {
		return fmt.Errorf("%w: %d visible map elements, want exactly one", ErrInvalidTemplate, mapCount)
	}
	return nil
}

// MapElement returns the single visible map element, or an error when the
// template has none.
func (t *Template) MapElement() (*Element, error) {
	for i := range t.Elements {
		if t.Elements[i].Type == ElementMap && t.Elements[i].Visible {
			return &t.Elements[i], nil
		}
	}
	return nil, ErrMissingMapElement
}

// Title returns the text of the first visible title element, or "" when the
// template has none. Used to derive output filenames.
func (t *Template) Title() string {
	for _, el := range t.Elements {
		if el.Type == ElementTitle && el.Visible && strings.TrimSpace(el.Text) != "" {
			return el.Text
		}
	}
	return ""
}

// ParseHexColor parses a "#rrggbb" or "#rgb" color string. The empty string
// and parse failures fall back to the given default.
func ParseHexColor(s string, fallback color.Color) color.Color {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	s = s[1:]
	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return fallback
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
