package transfer

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR draws payload as a QR symbol using half-block characters,
// suitable for printing to a terminal
func RenderQR(payload string) (string, error) {
	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return q.ToSmallString(false), nil
}

// WriteQRPNG writes payload as a size×size PNG QR image to path
func WriteQRPNG(payload, path string, size int) error {
	if err := qrcode.WriteFile(payload, qrcode.Medium, size, path); err != nil {
		return fmt.Errorf("write qr png: %w", err)
	}
	return nil
}
