package edges

import (
	"fmt"
	"math"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// rescaleMagnitude maps a CV_64F response to 8 bits as |v| / max|v| * 255,
// truncating like an integer cast. A maximum that is not positive is treated
// as 1, so a flat image yields an all-zero raster instead of dividing by zero.
func rescaleMagnitude(response gocv.Mat) (*safe.Mat, error) {
	if response.Empty() {
		return nil, fmt.Errorf("magnitude image is empty")
	}
	if response.Type() != gocv.MatTypeCV64F {
		return nil, fmt.Errorf("magnitude image must be CV_64F, got type %d", int(response.Type()))
	}

	raw, err := response.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("magnitude data access failed: %w", err)
	}

	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = math.Abs(v)
	}

	peak := floats.Max(values)
	if !(peak > 0) {
		peak = 1
	}

	out := make([]byte, len(values))
	for i, v := range values {
		scaled := v / peak * 255
		switch {
		case scaled >= 255:
			out[i] = 255
		case scaled > 0:
			out[i] = uint8(scaled)
		}
	}

	return safe.NewGrayFromBytes(response.Rows(), response.Cols(), out)
}

// magnitude returns the per-pixel Euclidean norm of two derivative images.
func magnitude(dx, dy gocv.Mat) (gocv.Mat, error) {
	mag := gocv.NewMat()
	if err := gocv.Magnitude(dx, dy, &mag); err != nil {
		mag.Close()
		return gocv.Mat{}, fmt.Errorf("gradient magnitude failed: %w", err)
	}
	return mag, nil
}
