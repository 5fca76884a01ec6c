package mapsheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageFetcher loads the image referenced by an image or logo element.
type ImageFetcher func(ctx context.Context, url string) (image.Image, error)

// FetchLocalImage is the default ImageFetcher: it loads plain file paths,
// file:// URLs, and base64 data: URLs. Network URLs are refused; callers
// that want them inject a fetcher built on their own HTTP client.
func FetchLocalImage(ctx context.Context, url string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(url, "data:"):
		return decodeDataURL(url)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return nil, fmt.Errorf("mapsheet: network image %q refused by the default fetcher", url)
	}
	path := strings.TrimPrefix(url, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapsheet: opening image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mapsheet: decoding image %q: %w", path, err)
	}
	return img, nil
}

func decodeDataURL(url string) (image.Image, error) {
	idx := strings.Index(url, ",")
	if idx < 0 || !strings.Contains(url[:idx], "base64") {
		return nil, fmt.Errorf("mapsheet: unsupported data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(url[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("mapsheet: decoding data URL: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mapsheet: decoding data URL image: %w", err)
	}
	return img, nil
}
