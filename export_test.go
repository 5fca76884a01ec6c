package mapsheet

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/cartoprint/mapsheet/capture"
	"github.com/cartoprint/mapsheet/legend"
)

func testWorldImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 + x), G: uint8(80 + y%100), B: 120, A: 0xff})
		}
	}
	return img
}

func testView(t *testing.T) *capture.StaticView {
	t.Helper()
	v, err := capture.NewStaticView(testWorldImage(), capture.Extent{XMin: 0, YMin: 0, XMax: 4000, YMax: 3000}, 800, 600)
	if err != nil {
		t.Fatalf("NewStaticView: %v", err)
	}
	return v
}

func testEngine(opts ...Option) *Engine {
	base := []Option{
		WithDPI(50),
		WithCaptureOptions(capture.Options{
			SettleDelay:   time.Microsecond,
			PollInterval:  time.Microsecond,
			SettleTimeout: 50 * time.Millisecond,
		}),
	}
	return NewEngine(append(base, opts...)...)
}

func fullTemplate() *Template {
	return &Template{
		PageSize: PageSizeLetter,
		Elements: []Element{
			{Type: ElementMap, X: 2, Y: 2, Width: 96, Height: 60, Visible: true},
			{Type: ElementTitle, X: 2, Y: 64, Width: 60, Height: 6, Visible: true,
				Text: "Flood Zones", FontSize: 24, FontWeight: "bold"},
			{Type: ElementText, X: 2, Y: 71, Width: 60, Height: 8, Visible: true,
				Text: "Prepared by the county surveyor's office for planning review."},
			{Type: ElementLegend, X: 64, Y: 64, Width: 34, Height: 20, Visible: true,
				LegendTitle: "Legend", ShowTitle: true},
			{Type: ElementScaleBar, X: 2, Y: 86, Width: 30, Height: 6, Visible: true, Units: "feet"},
			{Type: ElementNorthArrow, X: 86, Y: 86, Width: 12, Height: 12, Visible: true},
			{Type: ElementQRCode, X: 40, Y: 80, Width: 20, Height: 18, Visible: true,
				Payload: "https://maps.example.gov/sheets/flood-zones"},
		},
	}
}

func testLayers() []legend.Layer {
	return []legend.Layer{
		{Title: "Parcels", Renderer: legend.Renderer{
			Simple: &legend.SimpleRenderer{Symbol: legend.SymbolDef{Type: "fill", Color: legend.RGBA{220, 210, 180, 255}, Outline: legend.RGBA{90, 90, 90, 255}}},
		}},
		{Title: "Flood Depth", Renderer: legend.Renderer{
			ClassBreaks: &legend.ClassBreaksRenderer{Breaks: []legend.ValueClass{
				{Label: "0 - 1 ft", Symbol: legend.SymbolDef{Type: "fill", Color: legend.RGBA{198, 219, 239, 255}}},
				{Label: "1 - 3 ft", Symbol: legend.SymbolDef{Type: "fill", Color: legend.RGBA{107, 174, 214, 255}}},
			}},
		}},
	}
}

func TestExportPNGDimensions(t *testing.T) {
	var buf bytes.Buffer
	res, err := testEngine().Export(context.Background(), &buf, fullTemplate(), testView(t), testLayers(), FormatPNG, 500)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	// Letter at 50 DPI.
	if b := img.Bounds(); b.Dx() != 425 || b.Dy() != 550 {
		t.Fatalf("output is %dx%d, want 425x550", b.Dx(), b.Dy())
	}
}

func TestExportPDFHeader(t *testing.T) {
	var buf bytes.Buffer
	if _, err := testEngine().Export(context.Background(), &buf, fullTemplate(), testView(t), testLayers(), FormatPDF, 500); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
}

func TestExportJPEGMagic(t *testing.T) {
	var buf bytes.Buffer
	if _, err := testEngine().Export(context.Background(), &buf, fullTemplate(), testView(t), testLayers(), FormatJPEG, 500); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xff, 0xd8}) {
		t.Fatal("output is not a JPEG stream")
	}
}

func TestExportIdempotent(t *testing.T) {
	e := testEngine()
	var first, second bytes.Buffer
	if _, err := e.Export(context.Background(), &first, fullTemplate(), testView(t), testLayers(), FormatPNG, 500); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if _, err := e.Export(context.Background(), &second, fullTemplate(), testView(t), testLayers(), FormatPNG, 500); err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("two exports of identical inputs differ")
	}
}

type probeView struct {
	capture.MapView
	setExtentCalls int
}

func (v *probeView) SetExtent(e capture.Extent) error {
	v.setExtentCalls++
	return v.MapView.SetExtent(e)
}

func TestExportMissingMapFailsBeforeCapture(t *testing.T) {
	tpl := &Template{Elements: []Element{
		{Type: ElementTitle, Width: 50, Height: 10, Visible: true, Text: "No map"},
	}}
	view := &probeView{MapView: testView(t)}

	var buf bytes.Buffer
	_, err := testEngine().Export(context.Background(), &buf, tpl, view, nil, FormatPNG, 500)
	if !errors.Is(err, ErrMissingMapElement) {
		t.Fatalf("err = %v, want ErrMissingMapElement", err)
	}
	if view.setExtentCalls != 0 {
		t.Fatalf("view was mutated %d time(s) before validation failed", view.setExtentCalls)
	}
	if buf.Len() != 0 {
		t.Fatal("no output must be written on a fatal validation error")
	}
}

func TestExportBadImageElementIsNonFatal(t *testing.T) {
	tpl := fullTemplate()
	tpl.Elements = append(tpl.Elements, Element{
		Type: ElementImage, X: 70, Y: 2, Width: 20, Height: 10, Visible: true,
		URL: "/nonexistent/logo.png",
	})

	var buf bytes.Buffer
	res, err := testEngine().Export(context.Background(), &buf, tpl, testView(t), testLayers(), FormatPNG, 500)
	if err != nil {
		t.Fatalf("Export must survive a bad image element: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a produced file despite the bad image")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "logo.png") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings %v do not mention the skipped image", res.Warnings)
	}
}

func TestExportNilViewUnavailable(t *testing.T) {
	var buf bytes.Buffer
	_, err := testEngine().Export(context.Background(), &buf, fullTemplate(), nil, nil, FormatPNG, 500)
	if !errors.Is(err, capture.ErrCaptureUnavailable) {
		t.Fatalf("err = %v, want ErrCaptureUnavailable", err)
	}
}

func TestExportRejectsConcurrentRun(t *testing.T) {
	e := testEngine()
	e.mu.Lock()
	e.inFlight = true
	e.mu.Unlock()

	var buf bytes.Buffer
	_, err := e.Export(context.Background(), &buf, fullTemplate(), testView(t), nil, FormatPNG, 500)
	if !errors.Is(err, ErrExportInProgress) {
		t.Fatalf("err = %v, want ErrExportInProgress", err)
	}
}

func TestExportAutoFitScale(t *testing.T) {
	var buf bytes.Buffer
	if _, err := testEngine().Export(context.Background(), &buf, fullTemplate(), testView(t), nil, FormatPNG, 0); err != nil {
		t.Fatalf("auto-fit export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := testEngine().Export(context.Background(), &buf, fullTemplate(), testView(t), nil, Format("tiff"), 500)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}
