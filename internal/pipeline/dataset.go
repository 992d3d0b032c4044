package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ImageExtensions are globbed in this order when listing a dataset.
var ImageExtensions = []string{"*.png", "*.jpg", "*.jpeg", "*.bmp", "*.tif"}

// SampleImageName is written to the output directory when no dataset exists.
const SampleImageName = "sample_camera.png"

// ListImages returns the images directly inside dir, grouped by extension.
func ListImages(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range ImageExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WriteSampleImage draws a 256x256 grayscale scene with flat regions, a soft
// gradient and sharp boundaries, and writes it to path.
func WriteSampleImage(path string) error {
	const size = 256

	data := make([]byte, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			data[y*size+x] = byte(40 + (x+y)*120/(2*size))
		}
	}

	sample, err := safe.NewGrayFromBytes(size, size, data)
	if err != nil {
		return err
	}
	defer sample.Close()

	canvas := sample.GetMat()
	gray := func(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v} }

	shapes := []func() error{
		func() error { return gocv.Rectangle(&canvas, image.Rect(24, 150, 110, 232), gray(20), -1) },
		func() error { return gocv.Circle(&canvas, image.Pt(170, 90), 48, gray(230), -1) },
		func() error { return gocv.Circle(&canvas, image.Pt(170, 90), 20, gray(90), -1) },
		func() error { return gocv.Line(&canvas, image.Pt(130, 240), image.Pt(240, 150), gray(250), 3) },
		func() error { return gocv.Rectangle(&canvas, image.Rect(140, 170, 200, 200), gray(180), 2) },
	}
	for _, draw := range shapes {
		if err := draw(); err != nil {
			return fmt.Errorf("failed to draw sample image: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create sample directory: %w", err)
	}
	if ok := gocv.IMWrite(path, canvas); !ok {
		return fmt.Errorf("failed to write sample image %s", path)
	}
	return nil
}
