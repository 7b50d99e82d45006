package pipeline

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/geometry"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 80, B: 10, A: 255})
	data, err := processor.NewCropEngine().Encode(img, models.FormatPNG, 0)
	if err != nil {
		t.Fatalf("fixture encode: %v", err)
	}
	return data
}

func newPipeline() *Pipeline {
	return New(processor.NewCropEngine())
}

func TestRun_ProducesArtifact(t *testing.T) {
	p := newPipeline()

	// Image shown 1:1, gesture covering a 64x40 region.
	artifact, err := p.Run(Request{
		Image:       encodedPNG(t, 200, 100),
		Path:        models.Path{{X: 10, Y: 10}, {X: 70, Y: 46}},
		StrokeWidth: 4,
		DisplaySize: models.Size{Width: 200, Height: 100},
		Policy:      models.FitFill,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Width != 64 || artifact.Height != 40 {
		t.Fatalf("expected 64x40 artifact, got %dx%d", artifact.Width, artifact.Height)
	}
	if artifact.Format != models.FormatPNG {
		t.Fatalf("expected png default, got %s", artifact.Format)
	}
	if len(artifact.Data) == 0 {
		t.Fatal("artifact has no encoded bytes")
	}
}

func TestRun_JPEGOutput(t *testing.T) {
	p := newPipeline()

	artifact, err := p.Run(Request{
		Image:       encodedPNG(t, 100, 100),
		Path:        models.Path{{X: 0, Y: 0}, {X: 60, Y: 60}},
		StrokeWidth: 8,
		DisplaySize: models.Size{Width: 100, Height: 100},
		Policy:      models.FitFill,
		Format:      models.FormatJPEG,
		Quality:     70,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Format != models.FormatJPEG {
		t.Fatalf("expected jpeg, got %s", artifact.Format)
	}
	if artifact.ContentType() != "image/jpeg" {
		t.Fatalf("wrong content type %s", artifact.ContentType())
	}
}

func TestRun_DecodeError(t *testing.T) {
	p := newPipeline()

	_, err := p.Run(Request{
		Image:       []byte("not an image"),
		Path:        models.Path{{X: 0, Y: 0}, {X: 50, Y: 50}},
		DisplaySize: models.Size{Width: 100, Height: 100},
		Policy:      models.FitFill,
	})
	if !errors.Is(err, processor.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestRun_GestureOutsideImage(t *testing.T) {
	p := newPipeline()

	// The whole stroke lies beyond the displayed image; clamping collapses
	// the mapped rect to zero area.
	_, err := p.Run(Request{
		Image:       encodedPNG(t, 100, 100),
		Path:        models.Path{{X: 150, Y: 150}, {X: 180, Y: 180}},
		StrokeWidth: 4,
		DisplaySize: models.Size{Width: 100, Height: 100},
		Policy:      models.FitFill,
	})
	if !errors.Is(err, processor.ErrInvalidCropRegion) {
		t.Fatalf("expected ErrInvalidCropRegion, got %v", err)
	}
}

func TestRun_TooSmallSelection(t *testing.T) {
	p := newPipeline()

	// 20x20 region: under the minimum in both dimensions.
	_, err := p.Run(Request{
		Image:       encodedPNG(t, 100, 100),
		Path:        models.Path{{X: 0, Y: 0}, {X: 16, Y: 16}},
		StrokeWidth: 4,
		DisplaySize: models.Size{Width: 100, Height: 100},
		Policy:      models.FitFill,
	})
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall, got %v", err)
	}
}

func TestRun_ThinStripPasses(t *testing.T) {
	p := newPipeline()

	// 40x10: only one dimension is under the minimum, so the strip is valid.
	artifact, err := p.Run(Request{
		Image:       encodedPNG(t, 100, 100),
		Path:        models.Path{{X: 0, Y: 0}, {X: 36, Y: 6}},
		StrokeWidth: 4,
		DisplaySize: models.Size{Width: 100, Height: 100},
		Policy:      models.FitFill,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Width != 40 || artifact.Height != 10 {
		t.Fatalf("expected 40x10 strip, got %dx%d", artifact.Width, artifact.Height)
	}
}

func TestRun_InvalidGeometry(t *testing.T) {
	p := newPipeline()

	_, err := p.Run(Request{
		Image:       encodedPNG(t, 100, 100),
		Path:        models.Path{{X: 0, Y: 0}, {X: 50, Y: 50}},
		DisplaySize: models.Size{},
		Policy:      models.FitContain,
	})
	if !errors.Is(err, geometry.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestRun_ContainMapping(t *testing.T) {
	p := newPipeline()

	// 1000x500 image in a 400x400 viewport under contain: footprint 400x200
	// centered with 100px bands. Selecting the footprint crops the whole image.
	artifact, err := p.Run(Request{
		Image:       encodedPNG(t, 1000, 500),
		Path:        models.Path{{X: 0, Y: 100}, {X: 400, Y: 300}},
		StrokeWidth: 0,
		DisplaySize: models.Size{Width: 400, Height: 400},
		Policy:      models.FitContain,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Width != 1000 || artifact.Height != 500 {
		t.Fatalf("expected full 1000x500 crop, got %dx%d", artifact.Width, artifact.Height)
	}
}

func TestRunBatch_PositionalResults(t *testing.T) {
	p := newPipeline()
	img := encodedPNG(t, 200, 200)

	base := Request{
		Image:       img,
		StrokeWidth: 4,
		DisplaySize: models.Size{Width: 200, Height: 200},
		Policy:      models.FitFill,
	}
	ok := base
	ok.Path = models.Path{{X: 10, Y: 10}, {X: 80, Y: 80}}
	tooSmall := base
	tooSmall.Path = models.Path{{X: 0, Y: 0}, {X: 4, Y: 4}}

	results, errs := p.RunBatch(context.Background(), []Request{ok, tooSmall, ok})

	if errs[0] != nil || errs[2] != nil {
		t.Fatalf("valid gestures failed: %v, %v", errs[0], errs[2])
	}
	if results[0] == nil || results[2] == nil {
		t.Fatal("missing artifacts for valid gestures")
	}
	if !errors.Is(errs[1], ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall at index 1, got %v", errs[1])
	}
	if results[1] != nil {
		t.Fatal("failed gesture must not produce an artifact")
	}
}
