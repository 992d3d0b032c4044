package edges

import (
	"fmt"

	"edgebench/internal/opencv/safe"
	"edgebench/internal/processing/filters"

	"gocv.io/x/gocv"
)

// LoGDetector smooths with a Gaussian and takes the absolute Laplacian.
type LoGDetector struct {
	kernelSize int
}

func NewLoGDetector(kernelSize int) *LoGDetector {
	return &LoGDetector{kernelSize: kernelSize}
}

func (d *LoGDetector) Name() Operator { return LoG }

func (d *LoGDetector) Binary() bool { return false }

func (d *LoGDetector) Detect(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateGray8(src, "LoG"); err != nil {
		return nil, err
	}

	blurred, err := filters.GaussianBlur(src, d.kernelSize)
	if err != nil {
		return nil, err
	}
	defer blurred.Close()

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	if err := gocv.Laplacian(blurred.GetMat(), &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault); err != nil {
		return nil, fmt.Errorf("laplacian failed: %w", err)
	}

	return rescaleMagnitude(laplacian)
}
