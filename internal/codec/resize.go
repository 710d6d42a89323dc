package codec

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// TargetDims computes output dimensions for a megapixel target. The scale
// factor is sqrt(target / original) so the output pixel count approximates
// megapixels*1e6 while the aspect ratio is preserved up to integer rounding.
// Both dimensions are clamped to at least 1.
func TargetDims(width, height int, megapixels float64) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}

	scale := math.Sqrt(megapixels * 1_000_000 / float64(width*height))

	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize scales img to the megapixel target. Sources below the target are
// upsampled to match the requested output size; this is deliberate, not a
// side effect of the math. Box resampling is used when shrinking (area
// averaging), CatmullRom when enlarging.
func Resize(img image.Image, megapixels float64) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	nw, nh := TargetDims(w, h, megapixels)
	if nw == w && nh == h {
		return img
	}

	filter := imaging.Box
	if nw > w || nh > h {
		filter = imaging.CatmullRom
	}
	return imaging.Resize(img, nw, nh, filter)
}
