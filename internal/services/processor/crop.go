package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// Crop extracts rect from img into a new buffer; img is never mutated.
// The origin is clamped into the image and the extent shrinks rather than
// reading past the edges. A rectangle with non-positive area is rejected
// with ErrInvalidCropRegion.
func (e *CropEngine) Crop(img image.Image, rect models.Rect) (image.Image, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidCropRegion, rect.Width(), rect.Height())
	}

	bounds := img.Bounds()
	imgW := bounds.Dx()
	imgH := bounds.Dy()

	x := clampInt(int(rect.Left), 0, imgW-1)
	y := clampInt(int(rect.Top), 0, imgH-1)
	w := int(rect.Width())
	h := int(rect.Height())
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: %gx%g truncates below one pixel", ErrInvalidCropRegion, rect.Width(), rect.Height())
	}

	// Shrink instead of failing when the extent overflows the buffer.
	if x+w > imgW {
		w = imgW - x
	}
	if y+h > imgH {
		h = imgH - y
	}

	pixelRect := image.Rect(x, y, x+w, y+h).Add(bounds.Min)
	return imaging.Crop(img, pixelRect), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
