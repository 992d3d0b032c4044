package edges

import (
	"fmt"
	"image"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// PrewittDetector computes the gradient magnitude with the unweighted 3x3
// Prewitt kernel pair; the vertical kernel is the transpose of the horizontal.
type PrewittDetector struct {
	kx [3][3]float64
}

func NewPrewittDetector() *PrewittDetector {
	return &PrewittDetector{
		kx: [3][3]float64{
			{1, 0, -1},
			{1, 0, -1},
			{1, 0, -1},
		},
	}
}

func (d *PrewittDetector) Name() Operator { return Prewitt }

func (d *PrewittDetector) Binary() bool { return false }

func (d *PrewittDetector) Detect(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateGray8(src, "Prewitt"); err != nil {
		return nil, err
	}

	kx := kernelMat(d.kx, false)
	defer kx.Close()
	ky := kernelMat(d.kx, true)
	defer ky.Close()

	srcMat := src.GetMat()

	dx := gocv.NewMat()
	defer dx.Close()
	dy := gocv.NewMat()
	defer dy.Close()

	anchor := image.Point{X: -1, Y: -1}
	if err := gocv.Filter2D(srcMat, &dx, gocv.MatTypeCV64F, kx, anchor, 0, gocv.BorderReflect); err != nil {
		return nil, fmt.Errorf("horizontal Prewitt filter failed: %w", err)
	}
	if err := gocv.Filter2D(srcMat, &dy, gocv.MatTypeCV64F, ky, anchor, 0, gocv.BorderReflect); err != nil {
		return nil, fmt.Errorf("vertical Prewitt filter failed: %w", err)
	}

	mag, err := magnitude(dx, dy)
	if err != nil {
		return nil, err
	}
	defer mag.Close()

	return rescaleMagnitude(mag)
}

func kernelMat(k [3][3]float64, transpose bool) gocv.Mat {
	mat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := k[r][c]
			if transpose {
				v = k[c][r]
			}
			mat.SetDoubleAt(r, c, v)
		}
	}
	return mat
}
