package pipeline

import (
	"errors"
	"fmt"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/geometry"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
)

// ErrTooSmall marks a selection whose width and height are both under the
// minimum crop size. Unlike ErrInvalidCropRegion this is a user-correctable
// condition, not a system fault.
var ErrTooSmall = errors.New("selection too small")

// MinCropSize is the pixel threshold below which a selection is rejected.
// Only selections small in both dimensions are rejected; a thin-but-long
// strip passes.
const MinCropSize = 32.0

// Pipeline turns a finished gesture over a displayed image into an encoded
// crop of the original pixels. It is stateless: concurrent runs are
// independent as long as each gets its own input buffer.
type Pipeline struct {
	engine *processor.CropEngine
}

func New(engine *processor.CropEngine) *Pipeline {
	return &Pipeline{engine: engine}
}

// Request carries everything a single crop run consumes.
type Request struct {
	Image       []byte
	Path        models.Path
	StrokeWidth float64
	DisplaySize models.Size
	Policy      models.FitPolicy
	Format      string
	Quality     int
}

// Run executes decode -> bounding rect -> screen-to-image mapping -> minimum
// size check -> crop -> encode. It stops at the first failure and returns it
// unmodified; no partial artifacts are ever produced.
func (p *Pipeline) Run(req Request) (*models.CroppedArtifact, error) {
	img, err := p.engine.Decode(req.Image)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	imageSize := models.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}

	screenRect := geometry.Bounds(req.Path, req.StrokeWidth)
	imageRect, err := geometry.MapToImageSpace(screenRect, imageSize, req.DisplaySize, req.Policy)
	if err != nil {
		return nil, err
	}

	if imageRect.Empty() {
		return nil, fmt.Errorf("%w: selection resolves to an empty region", processor.ErrInvalidCropRegion)
	}
	if imageRect.Width() < MinCropSize && imageRect.Height() < MinCropSize {
		return nil, fmt.Errorf("%w: %.0fx%.0f is under %.0fpx in both dimensions",
			ErrTooSmall, imageRect.Width(), imageRect.Height(), MinCropSize)
	}

	cropped, err := p.engine.Crop(img, imageRect)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = models.FormatPNG
	}
	data, err := p.engine.Encode(cropped, format, req.Quality)
	if err != nil {
		return nil, err
	}

	cb := cropped.Bounds()
	return &models.CroppedArtifact{
		Data:   data,
		Format: format,
		Width:  cb.Dx(),
		Height: cb.Dy(),
	}, nil
}
