package edges

import (
	"fmt"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// SobelDetector computes the 3x3 Sobel gradient magnitude.
type SobelDetector struct{}

func NewSobelDetector() *SobelDetector {
	return &SobelDetector{}
}

func (d *SobelDetector) Name() Operator { return Sobel }

func (d *SobelDetector) Binary() bool { return false }

func (d *SobelDetector) Detect(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateGray8(src, "Sobel"); err != nil {
		return nil, err
	}

	srcMat := src.GetMat()

	dx := gocv.NewMat()
	defer dx.Close()
	dy := gocv.NewMat()
	defer dy.Close()

	if err := gocv.Sobel(srcMat, &dx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault); err != nil {
		return nil, fmt.Errorf("horizontal Sobel derivative failed: %w", err)
	}
	if err := gocv.Sobel(srcMat, &dy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault); err != nil {
		return nil, fmt.Errorf("vertical Sobel derivative failed: %w", err)
	}

	mag, err := magnitude(dx, dy)
	if err != nil {
		return nil, err
	}
	defer mag.Close()

	return rescaleMagnitude(mag)
}
