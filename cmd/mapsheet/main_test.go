package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartoprint/mapsheet/capture"
)

func TestParseExtent(t *testing.T) {
	tests := []struct {
		in      string
		want    capture.Extent
		wantErr bool
	}{
		{in: "0,0,4000,3000", want: capture.Extent{XMax: 4000, YMax: 3000}},
		{in: " 10, 20, 30, 40 ", want: capture.Extent{XMin: 10, YMin: 20, XMax: 30, YMax: 40}},
		{in: "-100,-50,100,50", want: capture.Extent{XMin: -100, YMin: -50, XMax: 100, YMax: 50}},
		{in: "", wantErr: true},
		{in: "1,2,3", wantErr: true},
		{in: "1,2,3,4,5", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
		{in: "0,0,abc,100", wantErr: true},
		// Zero-area and inverted extents parse but have no area.
		{in: "0,0,0,100", wantErr: true},
		{in: "0,100,50,100", wantErr: true},
		{in: "50,50,10,10", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseExtent(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseExtent(%q) = %+v, expected an error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseExtent(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("parseExtent(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	img, err := loadImage(path)
	if err != nil {
		t.Fatalf("loadImage: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}

	if _, err := loadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected an error for a missing world image")
	}
	bad := filepath.Join(t.TempDir(), "notimage.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := loadImage(bad); err == nil {
		t.Fatal("expected a decode error for a non-image file")
	}
}
