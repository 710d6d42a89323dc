package codec

import (
	"bytes"
	"image"
	"image/jpeg"
)

// Quality bounds of the user-facing 1-12 scale.
const (
	MinQuality = 1
	MaxQuality = 12
)

// JPEGQuality maps the 1-12 scale onto the encoder's 1-100 scale. The x8
// mapping tops out at 96 rather than 100, which keeps the highest setting
// short of pathological file sizes.
func JPEGQuality(quality int) int {
	if quality < MinQuality {
		quality = MinQuality
	}
	if quality > MaxQuality {
		quality = MaxQuality
	}
	return quality * 8
}

// EncodeJPEG encodes img at the given 1-12 quality. Output is deterministic
// for identical input and settings.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
