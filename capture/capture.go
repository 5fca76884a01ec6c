package capture

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"time"
)

// ExportIndicatorOverlay is the conventional id of the overlay graphic that
// outlines the export area on screen. It is hidden during capture so the
// indicator never appears in its own output.
const ExportIndicatorOverlay = "export-area-indicator"

// Options tunes the capture protocol. The zero value is usable; unset fields
// take the defaults below.
type Options struct {
	// SettleDelay is the fixed wait after framing the export area, before
	// polling the view's busy signal. Default 300ms.
	SettleDelay time.Duration

	// SettleTimeout caps the total busy-wait. A timeout is not fatal:
	// capture proceeds with whatever imagery has loaded. Default 5s.
	SettleTimeout time.Duration

	// PollInterval is the busy-signal polling period. Default 100ms.
	PollInterval time.Duration

	// Overlays lists overlay ids to hide during capture, in addition to
	// ExportIndicatorOverlay.
	Overlays []string

	// Logger receives settle-timeout warnings. Nil disables logging.
	Logger *log.Logger
}

func (o Options) settleDelay() time.Duration {
	if o.SettleDelay > 0 {
		return o.SettleDelay
	}
	return 300 * time.Millisecond
}

func (o Options) settleTimeout() time.Duration {
	if o.SettleTimeout > 0 {
		return o.SettleTimeout
	}
	return 5 * time.Second
}

func (o Options) pollInterval() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}
	return 100 * time.Millisecond
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Result is a completed capture.
type Result struct {
	Image    image.Image
	TimedOut bool // settle wait hit its cap; imagery may be incomplete
}

// Capture produces a raster of exactly the given export area at outW x outH
// pixels.
//
// The view's extent and overlay visibility are saved before any mutation and
// restored on every exit path. The capture region is computed by projecting
// the area's four geographic corners through the view's world-to-screen
// transform, because the view's aspect ratio need not match the requested
// aspect: capturing the full viewport would introduce margin or cropping.
func Capture(ctx context.Context, view MapView, area ExportArea, outW, outH int, opts Options) (*Result, error) {
	if view == nil || area.Empty() {
		return nil, ErrCaptureUnavailable
	}
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("capture: invalid output size %dx%d", outW, outH)
	}

	overlays := append([]string{ExportIndicatorOverlay}, opts.Overlays...)

	var res *Result
	err := withViewLease(view, overlays, func() error {
		for _, id := range overlays {
			view.SetOverlayVisible(id, false)
		}
		if err := view.SetExtent(area.Extent); err != nil {
			return fmt.Errorf("capture: framing export area: %w", err)
		}

		timedOut, err := settle(ctx, view, opts)
		if err != nil {
			return err
		}
		if timedOut {
			opts.logf("capture: view still busy after %s, proceeding with loaded imagery", opts.settleTimeout())
		}

		rect := screenRect(view, area.Extent)
		if rect.Empty() {
			return fmt.Errorf("capture: export area projects to an empty screen region")
		}

		img, err := view.CaptureRegion(rect, outW, outH)
		if err != nil {
			return fmt.Errorf("capture: rasterizing region: %w", err)
		}
		res = &Result{Image: img, TimedOut: timedOut}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// settle waits for the view to finish loading imagery: a fixed delay, then a
// bounded poll on the busy signal. Returns timedOut=true when the cap was hit
// while the view was still busy.
func settle(ctx context.Context, view MapView, opts Options) (timedOut bool, err error) {
	if err := sleepCtx(ctx, opts.settleDelay()); err != nil {
		return false, err
	}
	deadline := time.Now().Add(opts.settleTimeout())
	for view.Busy() {
		if time.Now().After(deadline) {
			return true, nil
		}
		if err := sleepCtx(ctx, opts.pollInterval()); err != nil {
			return false, err
		}
	}
	return false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// screenRect projects the four corners of ext through the view's
// world-to-screen transform and returns their pixel bounding box.
func screenRect(view MapView, ext Extent) image.Rectangle {
	corners := []Point{
		{ext.XMin, ext.YMin},
		{ext.XMin, ext.YMax},
		{ext.XMax, ext.YMin},
		{ext.XMax, ext.YMax},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		sp := view.ProjectToScreen(c)
		minX = math.Min(minX, sp.X)
		minY = math.Min(minY, sp.Y)
		maxX = math.Max(maxX, sp.X)
		maxY = math.Max(maxY, sp.Y)
	}
	return image.Rect(
		int(math.Round(minX)), int(math.Round(minY)),
		int(math.Round(maxX)), int(math.Round(maxY)),
	)
}
