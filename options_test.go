package mapsheet

import (
	"io"
	"log"
	"testing"

	"github.com/cartoprint/mapsheet/capture"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine()
	if e.dpi != DefaultDPI {
		t.Fatalf("dpi = %g, want %d", e.dpi, DefaultDPI)
	}
	if e.jpegQuality != DefaultJPEGQuality {
		t.Fatalf("jpegQuality = %d, want %d", e.jpegQuality, DefaultJPEGQuality)
	}
	if e.captureOpts.Logger != e.logger {
		t.Fatal("capture logger should default to the engine logger")
	}
}

func TestNewEngineKeepsCaptureLogger(t *testing.T) {
	custom := log.New(io.Discard, "capture: ", 0)
	e := NewEngine(WithCaptureOptions(capture.Options{Logger: custom}))
	if e.captureOpts.Logger != custom {
		t.Fatal("capture logger supplied via WithCaptureOptions was replaced")
	}
}

func TestNewEngineIgnoresInvalidOptionValues(t *testing.T) {
	e := NewEngine(WithDPI(-10), WithJPEGQuality(0), WithJPEGQuality(101))
	if e.dpi != DefaultDPI {
		t.Fatalf("dpi = %g, want default %d", e.dpi, DefaultDPI)
	}
	if e.jpegQuality != DefaultJPEGQuality {
		t.Fatalf("jpegQuality = %d, want default %d", e.jpegQuality, DefaultJPEGQuality)
	}
}
