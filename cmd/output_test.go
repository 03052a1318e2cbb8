package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	img.Set(0, 0, color.Gray{Y: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{12 * time.Second, "12s"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + 30*time.Minute, "2h30m"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q; want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatCorrelation(t *testing.T) {
	if got := formatCorrelation(0.25); got != "+0.250" {
		t.Errorf("formatCorrelation(0.25) = %q", got)
	}
}
