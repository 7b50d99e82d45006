package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// Encode serializes img as PNG or JPEG. PNG is lossless; JPEG uses the
// engine's configured quality unless quality is a valid override.
func (e *CropEngine) Encode(img image.Image, format string, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = e.jpegQuality
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case models.FormatJPEG, models.FormatJPG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case models.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		return nil, fmt.Errorf("%w: unsupported output format %q", ErrEncode, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
