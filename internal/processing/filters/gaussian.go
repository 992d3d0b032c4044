package filters

import (
	"fmt"
	"image"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GaussianBlur smooths src with a square kernel. Sigma is derived from the
// kernel size.
func GaussianBlur(src *safe.Mat, kernelSize int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "GaussianBlur"); err != nil {
		return nil, err
	}
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("gaussian kernel size must be a positive odd number, got %d", kernelSize)
	}

	dst := gocv.NewMat()
	ksize := image.Point{X: kernelSize, Y: kernelSize}
	if err := gocv.GaussianBlur(src.GetMat(), &dst, ksize, 0, 0, gocv.BorderDefault); err != nil {
		dst.Close()
		return nil, fmt.Errorf("gaussian blur failed: %w", err)
	}

	return safe.Adopt(dst, src.Tag()+"_blurred")
}
