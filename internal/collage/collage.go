// Package collage stacks two face images into the fixed-size canvas consumed by the saliency oracle.
package collage

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/kozaktomas/saliency-bias/internal/constants"
)

// Canvas bounds of every collage.
var Bounds = image.Rect(0, 0, constants.CollageWidth, constants.CollageHeight)

// Compose pastes top at the origin and bottom at (0, BottomOffset) on a white canvas.
// Anything falling outside the canvas is clipped.
func Compose(top, bottom image.Image) *image.NRGBA {
	canvas := imaging.New(constants.CollageWidth, constants.CollageHeight, color.White)
	canvas = imaging.Paste(canvas, top, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, bottom, image.Pt(0, constants.BottomOffset))
	return canvas
}

// WriteFile composes the images stored at topPath and bottomPath and saves the
// result to outPath. The output format follows the file extension.
func WriteFile(topPath, bottomPath, outPath string) error {
	top, err := imaging.Open(topPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", topPath, err)
	}
	bottom, err := imaging.Open(bottomPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", bottomPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create collage directory: %w", err)
	}
	if err := imaging.Save(Compose(top, bottom), outPath); err != nil {
		return fmt.Errorf("failed to save collage: %w", err)
	}
	return nil
}
