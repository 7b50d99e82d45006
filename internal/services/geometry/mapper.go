package geometry

import (
	"fmt"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// MapToImageSpace inverts a display-space rectangle into original-image pixel
// coordinates. The image is assumed center-aligned within the display area
// under every policy. All four coordinates are clamped into the image bounds;
// clamping may collapse the rectangle to zero area (a gesture drawn entirely
// outside the image), which is a valid result the caller must reject before
// cropping.
func MapToImageSpace(screenRect models.Rect, imageSize, displaySize models.Size, policy models.FitPolicy) (models.Rect, error) {
	fitted, err := Fit(policy, imageSize, displaySize)
	if err != nil {
		return models.Rect{}, err
	}

	dst := fitted.Destination
	if dst.Width <= 0 || dst.Height <= 0 {
		return models.Rect{}, fmt.Errorf("%w: fitted destination %gx%g", ErrInvalidGeometry, dst.Width, dst.Height)
	}

	offsetX := (displaySize.Width - dst.Width) / 2
	offsetY := (displaySize.Height - dst.Height) / 2
	scaleX := imageSize.Width / dst.Width
	scaleY := imageSize.Height / dst.Height

	mapped := models.Rect{
		Left:   clamp((screenRect.Left-offsetX)*scaleX, 0, imageSize.Width),
		Top:    clamp((screenRect.Top-offsetY)*scaleY, 0, imageSize.Height),
		Right:  clamp((screenRect.Right-offsetX)*scaleX, 0, imageSize.Width),
		Bottom: clamp((screenRect.Bottom-offsetY)*scaleY, 0, imageSize.Height),
	}
	return mapped, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
