package models

// FitPolicy is the strategy used to fit a source image into a display area.
type FitPolicy string

const (
	FitFill      FitPolicy = "fill"
	FitContain   FitPolicy = "contain"
	FitCover     FitPolicy = "cover"
	FitWidth     FitPolicy = "fitWidth"
	FitHeight    FitPolicy = "fitHeight"
	FitNone      FitPolicy = "none"
	FitScaleDown FitPolicy = "scaleDown"
)

// Valid reports whether p is one of the known fit policies.
func (p FitPolicy) Valid() bool {
	switch p {
	case FitFill, FitContain, FitCover, FitWidth, FitHeight, FitNone, FitScaleDown:
		return true
	}
	return false
}

// Point is a position in display-space pixel units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is the ordered sequence of points of a finished gesture.
// Order is drawing order; a path may be empty.
type Path []Point

// Size is a width/height pair, both non-negative.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the size has no area.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle with Right >= Left and Bottom >= Top.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r Rect) Width() float64 {
	return r.Right - r.Left
}

func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// FittedSizes is the result of resolving a fit policy: the portion of the
// source that is shown and the footprint it occupies inside the display area.
type FittedSizes struct {
	Source      Size `json:"source"`
	Destination Size `json:"destination"`
}
