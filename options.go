package mapsheet

import (
	"io"
	"log"
	"sync"

	"github.com/cartoprint/mapsheet/capture"
)

// DefaultDPI is the export resolution used when no option overrides it.
const DefaultDPI = 150

// DefaultJPEGQuality balances print legibility against file size for JPEG
// output and for the raster embedded in PDF pages.
const DefaultJPEGQuality = 85

// Engine runs map sheet exports. One Engine serves one map view at a time:
// a second Export while one is running is rejected with ErrExportInProgress
// rather than allowing overlapping mutation of shared view state.
//
// The Engine owns its resources explicitly (image fetcher, logger, capture
// tuning); there is no process-wide state.
type Engine struct {
	dpi         float64
	jpegQuality int
	captureOpts capture.Options
	fetch       ImageFetcher
	logger      *log.Logger

	mu       sync.Mutex
	inFlight bool
}

// Option is a functional option for configuring an Engine via NewEngine.
type Option func(*Engine)

// WithDPI sets the export resolution in pixels per physical page inch.
func WithDPI(dpi float64) Option {
	return func(e *Engine) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithJPEGQuality sets the quality (1-100) for JPEG output and for the
// raster embedded in PDF pages.
func WithJPEGQuality(q int) Option {
	return func(e *Engine) {
		if q >= 1 && q <= 100 {
			e.jpegQuality = q
		}
	}
}

// WithCaptureOptions tunes the capture protocol (settle delay, busy-poll
// interval, settle timeout, extra overlays to hide).
func WithCaptureOptions(opts capture.Options) Option {
	return func(e *Engine) {
		e.captureOpts = opts
	}
}

// WithImageFetcher replaces the loader used for image and logo elements.
// The default loads local files and data: URLs only; callers wanting network
// fetches supply their own.
func WithImageFetcher(f ImageFetcher) Option {
	return func(e *Engine) {
		if f != nil {
			e.fetch = f
		}
	}
}

// WithLogger sets the logger for warnings (settle timeouts, skipped
// elements). The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an export engine.
//
// Example:
//
//	engine := mapsheet.NewEngine(
//	    mapsheet.WithDPI(150),
//	    mapsheet.WithLogger(log.New(os.Stderr, "mapsheet: ", 0)),
//	)
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		dpi:         DefaultDPI,
		jpegQuality: DefaultJPEGQuality,
		fetch:       FetchLocalImage,
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.captureOpts.Logger == nil {
		e.captureOpts.Logger = e.logger
	}
	return e
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.logger.Printf(format, args...)
}
