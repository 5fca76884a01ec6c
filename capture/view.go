// Package capture produces pixel-exact rasters of a map view restricted to an
// arbitrary geographic extent, using a caller-supplied map-view capability.
//
// The package never owns the view: Capture saves the view's extent and
// overlay visibility before mutating them and restores both on every exit
// path, so a failed capture leaves the live view untouched.
package capture

import (
	"errors"
	"image"
)

// Sentinel errors.
var (
	ErrCaptureUnavailable = errors.New("capture: no export area or map view available")
)

// Point is a location in the map's projected coordinate system.
type Point struct {
	X, Y float64
}

// ScreenPoint is a device pixel location, origin top-left.
type ScreenPoint struct {
	X, Y float64
}

// Extent is a geographic rectangle in the map's projected coordinate system.
type Extent struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the extent's width in ground units.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the extent's height in ground units.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Center returns the extent's center point.
func (e Extent) Center() Point {
	return Point{X: (e.XMin + e.XMax) / 2, Y: (e.YMin + e.YMax) / 2}
}

// Empty reports whether the extent has no area.
func (e Extent) Empty() bool { return e.Width() <= 0 || e.Height() <= 0 }

// ExportArea is the geographic window, at a specific ground scale, that will
// be captured as the map element of a printed page.
type ExportArea struct {
	Extent
	Scale float64 // ground units per inch of printed map
}

// MapView is the map-view capability consumed by Capture. Implementations
// wrap a live interactive map (or, for tests and offline use, a static
// georeferenced raster; see StaticView).
type MapView interface {
	// CurrentExtent returns the extent currently framed by the view.
	CurrentExtent() Extent

	// SetExtent frames the given extent without animation. The view may
	// expand the extent on one axis to match its own aspect ratio.
	SetExtent(Extent) error

	// ProjectToScreen maps a projected-coordinate point to device pixels
	// under the view's current extent.
	ProjectToScreen(Point) ScreenPoint

	// CaptureRegion rasterizes the given device-pixel rectangle, resampled
	// to outW x outH pixels.
	CaptureRegion(rect image.Rectangle, outW, outH int) (image.Image, error)

	// Busy reports whether the view is still loading imagery.
	Busy() bool

	// SetOverlayVisible shows or hides a named overlay graphic.
	SetOverlayVisible(id string, visible bool)

	// OverlayVisible reports a named overlay's current visibility.
	OverlayVisible(id string) bool
}

// viewLease saves the parts of a view's state that Capture mutates, and
// restores them. Restore is safe to call exactly once, from a defer.
type viewLease struct {
	view     MapView
	extent   Extent
	overlays map[string]bool
}

// acquireLease snapshots the view state Capture is about to mutate.
func acquireLease(view MapView, overlayIDs []string) *viewLease {
	l := &viewLease{
		view:     view,
		extent:   view.CurrentExtent(),
		overlays: make(map[string]bool, len(overlayIDs)),
	}
	for _, id := range overlayIDs {
		l.overlays[id] = view.OverlayVisible(id)
	}
	return l
}

// restore puts the view back exactly as acquireLease found it.
func (l *viewLease) restore() {
	for id, visible := range l.overlays {
		l.view.SetOverlayVisible(id, visible)
	}
	// Restore extent last so overlay flips never show on a foreign extent.
	_ = l.view.SetExtent(l.extent)
}

// withViewLease runs fn with the view's pre-capture state saved, and restores
// that state on every exit path, including panics.
func withViewLease(view MapView, overlayIDs []string, fn func() error) error {
	lease := acquireLease(view, overlayIDs)
	defer lease.restore()
	return fn()
}
