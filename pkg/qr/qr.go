// Package qr renders the personal connect code as a scannable wa.me link.
package qr

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 512

// WhatsAppLink builds the wa.me deep link that pre-fills the CONNECT
// directive. wa.me wants digits only, no channel prefix and no plus sign.
func WhatsAppLink(botNumber, userID string) string {
	digits := strings.NewReplacer("whatsapp:", "", "+", "", " ", "").Replace(botNumber)
	return fmt.Sprintf("https://wa.me/%s?text=CONNECT_%s", strings.TrimSpace(digits), userID)
}

func PNG(botNumber, userID string) ([]byte, error) {
	return qrcode.Encode(WhatsAppLink(botNumber, userID), qrcode.Medium, imageSize)
}

// JPEG re-encodes the code as JPEG, the safest format for WhatsApp media
// delivery.
func JPEG(botNumber, userID string) ([]byte, error) {
	code, err := qrcode.New(WhatsAppLink(botNumber, userID), qrcode.Medium)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, code.Image(imageSize), &jpeg.Options{Quality: 92})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
