package qrcode

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRCodePngBytes renders the given data as a PNG QR code.
func GenerateQRCodePngBytes(data string, size int) ([]byte, error) {
	if data == "" {
		return nil, fmt.Errorf("qr data must not be empty")
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// GenerateQRCodeBase64 renders the given data as a QR code and returns it as
// a data URI suitable for embedding directly in an <img> tag. Used for share
// links so clients can display the code without a second request.
func GenerateQRCodeBase64(data string, size int) (string, error) {
	png, err := GenerateQRCodePngBytes(data, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
