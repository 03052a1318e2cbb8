package saliency

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// resizeForUpload shrinks an image so neither side exceeds maxSize and encodes it
// as JPEG. It also returns the factor that maps resized coordinates back to the
// original image (original = resized * scale).
func resizeForUpload(data []byte, maxSize int) ([]byte, image.Point, float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	dst := img
	scale := 1.0
	if width > maxSize || height > maxSize {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxSize
			newHeight = int(float64(height) * float64(maxSize) / float64(width))
		} else {
			newHeight = maxSize
			newWidth = int(float64(width) * float64(maxSize) / float64(height))
		}
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		dst = resized
		scale = float64(height) / float64(newHeight)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, image.Point{}, 0, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), dst.Bounds().Size(), scale, nil
}
