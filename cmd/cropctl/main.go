// cropctl crops a local image from a recorded gesture without running the
// server: handy for replaying gesture dumps and debugging fit policies.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
)

type cropCmd struct {
	Image   string `arg:"" help:"Path to the source image file" type:"existingfile"`
	Gesture string `arg:"" help:"Path to a JSON file with the recorded gesture" type:"existingfile"`
	Output  string `short:"o" help:"Output file for the cropped artifact" default:"cropped.png"`
	Format  string `help:"Output format (png, jpg, jpeg); overrides the gesture file" enum:",png,jpg,jpeg" default:""`
	Quality int    `help:"JPEG quality override (1-100)" default:"0"`
}

func (cmd *cropCmd) Run() error {
	imageData, err := os.ReadFile(cmd.Image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	gestureData, err := os.ReadFile(cmd.Gesture)
	if err != nil {
		return fmt.Errorf("failed to read gesture: %w", err)
	}

	var req models.GestureCropRequest
	if err := json.Unmarshal(gestureData, &req); err != nil {
		return fmt.Errorf("invalid gesture file: %w", err)
	}
	if req.Policy == "" {
		req.Policy = models.FitContain
	}
	if cmd.Format != "" {
		req.Format = cmd.Format
	}
	if cmd.Quality > 0 {
		req.Quality = cmd.Quality
	}

	pipe := pipeline.New(processor.NewCropEngine())
	artifact, err := pipe.Run(pipeline.Request{
		Image:       imageData,
		Path:        req.Path,
		StrokeWidth: req.StrokeWidth,
		DisplaySize: req.Display,
		Policy:      req.Policy,
		Format:      req.Format,
		Quality:     req.Quality,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(cmd.Output, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	fmt.Printf("wrote %s (%dx%d, %d bytes)\n", cmd.Output, artifact.Width, artifact.Height, len(artifact.Data))
	return nil
}

type cliArgs struct {
	Crop cropCmd `cmd:"" default:"withargs" help:"Crop an image from a gesture dump"`
}

func main() {
	var args cliArgs
	ctx := kong.Parse(
		&args,
		kong.Name("cropctl"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
