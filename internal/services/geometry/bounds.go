package geometry

import (
	"math"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// Bounds reduces a drawn path to the smallest axis-aligned rectangle covering
// its visual footprint. The right and bottom edges carry the stroke width so
// the brush thickness around the path stays inside the rect; the seed from
// the first point guarantees a single-point path still yields a
// strokeWidth-sized footprint. An empty path yields the zero rectangle.
func Bounds(path models.Path, strokeWidth float64) models.Rect {
	if len(path) == 0 {
		return models.Rect{}
	}

	first := path[0]
	r := models.Rect{
		Left:   first.X,
		Top:    first.Y,
		Right:  first.X + strokeWidth,
		Bottom: first.Y + strokeWidth,
	}
	for _, p := range path[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X+strokeWidth)
		r.Bottom = math.Max(r.Bottom, p.Y+strokeWidth)
	}
	return r
}
