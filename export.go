package mapsheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cartoprint/mapsheet/capture"
	"github.com/cartoprint/mapsheet/legend"
	"github.com/cartoprint/mapsheet/render"
)

// Format selects the output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Result reports a completed export.
type Result struct {
	// Warnings lists non-fatal issues: skipped elements, settle timeouts.
	// They never block file production.
	Warnings []string
}

// Export runs the whole pipeline: validate the template, resolve the export
// area, capture the map, compose the page, and encode it to w.
//
// scale is in ground units per inch of printed map; 0 means auto-fit to the
// view's current extent. Only one export may run on an Engine at a time; a
// concurrent call fails with ErrExportInProgress.
func (e *Engine) Export(ctx context.Context, w io.Writer, tpl *Template, view capture.MapView, layers []legend.Layer, format Format, scale float64) (*Result, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return nil, ErrExportInProgress
	}
	e.inFlight = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if tpl == nil {
		return nil, ErrInvalidTemplate
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, capture.ErrCaptureUnavailable
	}

	area, err := ResolveExportArea(tpl, scale, view.CurrentExtent())
	if err != nil {
		return nil, err
	}

	items := legend.FromLayers(layers)
	canvas, warnings, err := e.compose(ctx, tpl, view, items, area)
	if err != nil {
		return nil, err
	}

	if err := e.encode(w, canvas, tpl, format); err != nil {
		return nil, err
	}
	return &Result{Warnings: warnings}, nil
}

func (e *Engine) encode(w io.Writer, canvas *render.Canvas, tpl *Template, format Format) error {
	img := canvas.Image()
	switch format {
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return newExportError("EncodePNG", err)
		}
		return nil
	case FormatJPEG:
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: e.jpegQuality}); err != nil {
			return newExportError("EncodeJPEG", err)
		}
		return nil
	case FormatPDF:
		pageW, pageH, err := tpl.PageInches()
		if err != nil {
			return err
		}
		if err := e.encodePDF(w, img, pageW, pageH); err != nil {
			return newExportError("EncodePDF", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// encodePDF embeds the composed raster as a single full-page JPEG-compressed
// image sized to the page's physical dimensions, with the page orientation
// matching the raster aspect.
func (e *Engine) encodePDF(w io.Writer, img image.Image, pageW, pageH float64) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.jpegQuality}); err != nil {
		return err
	}

	orientation := "P"
	sizeW, sizeH := pageW, pageH
	if pageW > pageH {
		orientation = "L"
		sizeW, sizeH = pageH, pageW
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: sizeW, Ht: sizeH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("sheet", opt, &buf)
	pdf.ImageOptions("sheet", 0, 0, pageW, pageH, false, opt, 0, "")

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

// ExportFilename derives an output filename from the template's title element
// and the given date, e.g. "flood-zones-2026-08-25.pdf".
func ExportFilename(tpl *Template, format Format, now time.Time) string {
	title := "map-export"
	if tpl != nil {
		if t := tpl.Title(); t != "" {
			title = t
		}
	}
	return slugify(title) + "-" + now.Format("2006-01-02") + format.Ext()
}

// slugify lowercases and collapses non-alphanumerics to single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
