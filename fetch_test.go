package mapsheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestFetchLocalImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	for _, url := range []string{path, "file://" + path} {
		img, err := FetchLocalImage(context.Background(), url)
		if err != nil {
			t.Fatalf("FetchLocalImage(%q): %v", url, err)
		}
		if img.Bounds().Dx() != 4 {
			t.Fatalf("decoded bounds %v", img.Bounds())
		}
	}
}

func TestFetchLocalImageDataURL(t *testing.T) {
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	img, err := FetchLocalImage(context.Background(), url)
	if err != nil {
		t.Fatalf("FetchLocalImage: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}
}

func TestFetchLocalImageRefusesNetwork(t *testing.T) {
	if _, err := FetchLocalImage(context.Background(), "https://example.com/logo.png"); err == nil {
		t.Fatal("default fetcher must refuse network URLs")
	}
}

func TestFetchLocalImageMissingFile(t *testing.T) {
	if _, err := FetchLocalImage(context.Background(), "/no/such/image.png"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
