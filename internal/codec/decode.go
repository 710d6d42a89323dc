// Package codec decodes source images, resizes them to a megapixel target,
// and encodes JPEG output. One call chain per job; nothing here is shared
// across goroutines.
package codec

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mpix/pkg/imgutil"
)

// Decode reads the file at path and returns its pixel data. The kind was
// resolved from the extension at enumeration time and selects the decoder
// variant; unknown kinds never reach this point.
func Decode(path string, kind imgutil.Kind) (image.Image, error) {
	if kind == imgutil.KindRaw {
		return DecodeRaw(path)
	}
	return decodeStandard(path)
}

func decodeStandard(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
