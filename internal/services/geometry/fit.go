package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// ErrInvalidGeometry marks a degenerate fit computation: a zero-area source
// image, an unknown policy, or a fitted footprint with no area.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Fit resolves how a source image of the given size occupies a display area
// under a fit policy. The returned Destination is the on-screen footprint the
// image actually covers; for aspect-preserving policies it can be smaller
// than the display area. Pure function: same inputs, same output.
func Fit(policy models.FitPolicy, source, dest models.Size) (models.FittedSizes, error) {
	if source.Width <= 0 || source.Height <= 0 {
		return models.FittedSizes{}, fmt.Errorf("%w: source size %gx%g", ErrInvalidGeometry, source.Width, source.Height)
	}

	switch policy {
	case models.FitFill, models.FitNone:
		return models.FittedSizes{Source: source, Destination: dest}, nil

	case models.FitContain:
		return models.FittedSizes{Source: source, Destination: containSize(source, dest, false)}, nil

	case models.FitScaleDown:
		return models.FittedSizes{Source: source, Destination: containSize(source, dest, true)}, nil

	case models.FitCover:
		return models.FittedSizes{Source: coverSource(source, dest), Destination: dest}, nil

	case models.FitWidth:
		scale := dest.Width / source.Width
		return models.FittedSizes{
			Source:      source,
			Destination: models.Size{Width: dest.Width, Height: source.Height * scale},
		}, nil

	case models.FitHeight:
		scale := dest.Height / source.Height
		return models.FittedSizes{
			Source:      source,
			Destination: models.Size{Width: source.Width * scale, Height: dest.Height},
		}, nil

	default:
		return models.FittedSizes{}, fmt.Errorf("%w: unknown fit policy %q", ErrInvalidGeometry, policy)
	}
}

// containSize scales source to fit entirely within dest, preserving aspect
// ratio. With noUpscale the scale factor is capped at 1.
func containSize(source, dest models.Size, noUpscale bool) models.Size {
	if dest.Width <= 0 || dest.Height <= 0 {
		return models.Size{}
	}
	scale := math.Min(dest.Width/source.Width, dest.Height/source.Height)
	if noUpscale && scale > 1 {
		scale = 1
	}
	return models.Size{Width: source.Width * scale, Height: source.Height * scale}
}

// coverSource returns the sub-rect of source that matches dest's aspect
// ratio; the visible part of the image when it covers the whole display.
func coverSource(source, dest models.Size) models.Size {
	if dest.Width <= 0 || dest.Height <= 0 {
		return source
	}
	if source.Width/source.Height > dest.Width/dest.Height {
		return models.Size{Width: source.Height * dest.Width / dest.Height, Height: source.Height}
	}
	return models.Size{Width: source.Width, Height: source.Width * dest.Height / dest.Width}
}
