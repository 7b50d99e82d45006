package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Registers webp with image.Decode so webp uploads pass through
	// imaging.Decode like jpeg/png/gif do.
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode marks input bytes that are not a valid or supported image.
	ErrDecode = errors.New("image decode failed")
	// ErrInvalidCropRegion marks a crop rectangle with non-positive area.
	ErrInvalidCropRegion = errors.New("invalid crop region")
	// ErrEncode marks an unsupported output format or encoder failure.
	ErrEncode = errors.New("image encode failed")
)

// DefaultJPEGQuality is used when a request does not override it.
const DefaultJPEGQuality = 85

// CropEngine decodes raw image bytes, extracts pixel rectangles and
// re-encodes the result. It holds no per-image state; one engine serves any
// number of concurrent crop runs.
type CropEngine struct {
	jpegQuality int
}

func NewCropEngine() *CropEngine {
	return &CropEngine{jpegQuality: DefaultJPEGQuality}
}

// NewCropEngineWithQuality overrides the default JPEG quality (1-100).
func NewCropEngineWithQuality(quality int) *CropEngine {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &CropEngine{jpegQuality: quality}
}

// Decode parses an encoded byte stream into an owned pixel buffer,
// respecting EXIF orientation.
func (e *CropEngine) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
