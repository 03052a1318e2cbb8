// Package imagestats measures low-level image properties of dataset images.
package imagestats

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/stat"
)

// Class labels used in property tables.
const (
	ClassNotChosen = 0
	ClassChosen    = 1
)

// Properties holds the measured values of one image.
type Properties struct {
	File      string  `json:"file"`
	Contrast  float64 `json:"contrast"`
	Sharpness float64 `json:"sharpness"`
	Class     int     `json:"class"`
}

// plane is one 8-bit channel stored row-major as float64.
type plane struct {
	w, h int
	pix  []float64
}

func (p *plane) at(x, y int) float64 {
	return p.pix[y*p.w+x]
}

// channels splits img into its red, green and blue 8-bit planes.
func channels(img image.Image) [3]*plane {
	b := img.Bounds()
	var out [3]*plane
	for c := range out {
		out[c] = &plane{w: b.Dx(), h: b.Dy(), pix: make([]float64, b.Dx()*b.Dy())}
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out[0].pix[i] = float64(r >> 8)
			out[1].pix[i] = float64(g >> 8)
			out[2].pix[i] = float64(bl >> 8)
			i++
		}
	}
	return out
}

// Contrast returns the population standard deviation of the BT.601 luma of
// the image scaled to [0,1]. Luma is not rounded.
func Contrast(img image.Image) float64 {
	return contrast(channels(img))
}

func contrast(rgb [3]*plane) float64 {
	n := len(rgb[0].pix)
	if n == 0 {
		return 0
	}
	luma := make([]float64, n)
	for i := range luma {
		luma[i] = 0.299*rgb[0].pix[i]/255 + 0.587*rgb[1].pix[i]/255 + 0.114*rgb[2].pix[i]/255
	}
	return stat.PopStdDev(luma, nil)
}

// Sharpness returns the population variance of the 4-neighbour Laplacian
// responses of the red, green and blue channels pooled together. Borders are
// reflected without repeating the edge pixel (dcb|abcd|cba).
func Sharpness(img image.Image) float64 {
	return sharpness(channels(img))
}

func sharpness(rgb [3]*plane) float64 {
	n := len(rgb[0].pix)
	if n == 0 {
		return 0
	}
	lap := make([]float64, 0, 3*n)
	for _, p := range rgb {
		lap = appendLaplacian(lap, p)
	}
	return stat.PopVariance(lap, nil)
}

// appendLaplacian appends the Laplacian response of every pixel of p to dst.
func appendLaplacian(dst []float64, p *plane) []float64 {
	for y := range p.h {
		for x := range p.w {
			v := p.at(reflect101(x-1, p.w), y) +
				p.at(reflect101(x+1, p.w), y) +
				p.at(x, reflect101(y-1, p.h)) +
				p.at(x, reflect101(y+1, p.h)) -
				4*p.at(x, y)
			dst = append(dst, v)
		}
	}
	return dst
}

// reflect101 maps an out-of-range coordinate back into [0,n).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// MeasureImage computes the properties of an already decoded image.
func MeasureImage(img image.Image) (contrastValue, sharpnessValue float64) {
	rgb := channels(img)
	return contrast(rgb), sharpness(rgb)
}

// Measure opens the image at path and measures it.
func Measure(path string) (Properties, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Properties{}, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	c, s := MeasureImage(img)
	return Properties{File: path, Contrast: c, Sharpness: s}, nil
}

// Measurer measures batches of images.
type Measurer struct {
	ShowProgress bool
	Logger       *slog.Logger
}

// NewMeasurer creates a measurer that logs to the default logger.
func NewMeasurer(showProgress bool) *Measurer {
	return &Measurer{ShowProgress: showProgress, Logger: slog.Default()}
}

// MeasureAll measures every path in order and tags each row with class.
// The first unreadable image aborts the batch.
func (m *Measurer) MeasureAll(ctx context.Context, paths []string, class int) ([]Properties, error) {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var bar *progressbar.ProgressBar
	if m.ShowProgress && len(paths) > 0 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription(fmt.Sprintf("Measuring class %d", class)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	rows := make([]Properties, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := Measure(path)
		if err != nil {
			return nil, err
		}
		p.Class = class
		rows = append(rows, p)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	logger.Debug("measured images", "count", len(rows), "class", class)
	return rows, nil
}
