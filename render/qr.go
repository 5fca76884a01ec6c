package render

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DrawQRCode encodes payload as a QR code and draws it centered in box,
// scaled to the smaller box dimension.
func DrawQRCode(c *Canvas, box image.Rectangle, payload string) error {
	if payload == "" {
		return fmt.Errorf("render: qrcode element requires a payload")
	}
	side := box.Dx()
	if box.Dy() < side {
		side = box.Dy()
	}
	if side < 21 {
		return fmt.Errorf("render: qrcode box %dpx is too small", side)
	}
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return fmt.Errorf("render: encoding qr payload: %w", err)
	}
	scaled, err := barcode.Scale(code, side, side)
	if err != nil {
		return fmt.Errorf("render: scaling qr code: %w", err)
	}
	at := image.Point{
		X: box.Min.X + (box.Dx()-side)/2,
		Y: box.Min.Y + (box.Dy()-side)/2,
	}
	c.DrawImageAt(scaled, at)
	return nil
}
