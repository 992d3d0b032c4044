package threshold

import (
	"fmt"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Otsu binarizes an 8-bit gradient-magnitude raster with Otsu's automatic
// threshold. Pixels strictly above the threshold become 255, the rest 0.
// The chosen threshold is returned alongside the edge map.
func Otsu(src *safe.Mat) (*safe.Mat, float32, error) {
	if err := safe.ValidateGray8(src, "Otsu threshold"); err != nil {
		return nil, 0, err
	}

	dst := gocv.NewMat()
	srcMat := src.GetMat()
	level := gocv.Threshold(srcMat, &dst, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	edges, err := safe.Adopt(dst, src.Tag()+"_otsu")
	if err != nil {
		return nil, 0, fmt.Errorf("Otsu threshold produced no output: %w", err)
	}

	return edges, level, nil
}

// IsBinary reports whether every pixel of src is either 0 or 255.
func IsBinary(src *safe.Mat) (bool, error) {
	data, err := src.Bytes()
	if err != nil {
		return false, err
	}

	for _, v := range data {
		if v != 0 && v != 255 {
			return false, nil
		}
	}

	return true, nil
}
