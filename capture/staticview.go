package capture

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// StaticView is a MapView backed by a single georeferenced raster: an image
// plus the geographic extent it covers. It serves offline exports from
// pre-rendered basemaps and stands in for a live view in tests.
//
// Like a real map view, SetExtent expands the requested extent on one axis so
// the framed window matches the viewport's aspect ratio; callers that need a
// pixel-exact window must project corners and capture a sub-region, which is
// exactly what Capture does.
//
// StaticView is not safe for concurrent use; the export pipeline is
// sequential by design.
type StaticView struct {
	world       image.Image
	worldExtent Extent
	screenW     int
	screenH     int

	extent   Extent
	overlays map[string]bool

	// loadTicks simulates tile loading: after SetExtent, Busy reports true
	// for that many polls. Zero means the view is always settled.
	loadTicks int
	pending   int
}

// NewStaticView creates a view over a world raster covering worldExtent, with
// a viewport of screenW x screenH device pixels, initially framing the whole
// world.
func NewStaticView(world image.Image, worldExtent Extent, screenW, screenH int) (*StaticView, error) {
	if world == nil || worldExtent.Empty() {
		return nil, fmt.Errorf("capture: static view needs a world image and a non-empty extent")
	}
	if screenW <= 0 || screenH <= 0 {
		return nil, fmt.Errorf("capture: invalid viewport %dx%d", screenW, screenH)
	}
	v := &StaticView{
		world:       world,
		worldExtent: worldExtent,
		screenW:     screenW,
		screenH:     screenH,
		overlays:    make(map[string]bool),
	}
	if err := v.SetExtent(worldExtent); err != nil {
		return nil, err
	}
	v.pending = 0
	return v, nil
}

// SetLoadTicks makes Busy report true for n polls after each SetExtent,
// simulating imagery loading.
func (v *StaticView) SetLoadTicks(n int) { v.loadTicks = n }

// CurrentExtent implements MapView.
func (v *StaticView) CurrentExtent() Extent { return v.extent }

// SetExtent implements MapView. The requested extent is centered and expanded
// on the narrower axis to match the viewport aspect ratio.
func (v *StaticView) SetExtent(ext Extent) error {
	if ext.Empty() {
		return fmt.Errorf("capture: cannot frame an empty extent")
	}
	viewAspect := float64(v.screenW) / float64(v.screenH)
	w, h := ext.Width(), ext.Height()
	if w/h < viewAspect {
		w = h * viewAspect
	} else {
		h = w / viewAspect
	}
	c := ext.Center()
	v.extent = Extent{
		XMin: c.X - w/2, XMax: c.X + w/2,
		YMin: c.Y - h/2, YMax: c.Y + h/2,
	}
	v.pending = v.loadTicks
	return nil
}

// ProjectToScreen implements MapView.
func (v *StaticView) ProjectToScreen(p Point) ScreenPoint {
	return ScreenPoint{
		X: (p.X - v.extent.XMin) / v.extent.Width() * float64(v.screenW),
		Y: (v.extent.YMax - p.Y) / v.extent.Height() * float64(v.screenH),
	}
}

// Busy implements MapView.
func (v *StaticView) Busy() bool {
	if v.pending > 0 {
		v.pending--
		return true
	}
	return false
}

// SetOverlayVisible implements MapView.
func (v *StaticView) SetOverlayVisible(id string, visible bool) {
	v.overlays[id] = visible
}

// OverlayVisible implements MapView.
func (v *StaticView) OverlayVisible(id string) bool {
	return v.overlays[id]
}

// CaptureRegion implements MapView: the screen rectangle is mapped back to
// world-image pixels and resampled to outW x outH.
func (v *StaticView) CaptureRegion(rect image.Rectangle, outW, outH int) (image.Image, error) {
	if rect.Empty() || outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("capture: empty capture request")
	}

	wb := v.world.Bounds()
	src := image.Rect(
		v.worldPxX(v.screenToGeoX(rect.Min.X)),
		v.worldPxY(v.screenToGeoY(rect.Min.Y)),
		v.worldPxX(v.screenToGeoX(rect.Max.X)),
		v.worldPxY(v.screenToGeoY(rect.Max.Y)),
	).Intersect(wb)
	if src.Empty() {
		return nil, fmt.Errorf("capture: region outside world image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), v.world, src, xdraw.Src, nil)
	return dst, nil
}

func (v *StaticView) screenToGeoX(sx int) float64 {
	return v.extent.XMin + float64(sx)/float64(v.screenW)*v.extent.Width()
}

func (v *StaticView) screenToGeoY(sy int) float64 {
	return v.extent.YMax - float64(sy)/float64(v.screenH)*v.extent.Height()
}

func (v *StaticView) worldPxX(gx float64) int {
	wb := v.world.Bounds()
	return wb.Min.X + int((gx-v.worldExtent.XMin)/v.worldExtent.Width()*float64(wb.Dx())+0.5)
}

func (v *StaticView) worldPxY(gy float64) int {
	wb := v.world.Bounds()
	return wb.Min.Y + int((v.worldExtent.YMax-gy)/v.worldExtent.Height()*float64(wb.Dy())+0.5)
}
