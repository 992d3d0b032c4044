// Package metrics scores a degraded edge map against its clean reference.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"edgebench/internal/opencv/safe"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// DefaultDataRange is the peak value of an 8-bit sample.
const DefaultDataRange = 255.0

var (
	ErrShapeMismatch = errors.New("raster shapes differ")
	ErrTypeMismatch  = errors.New("raster sample types differ")
)

// Score holds the error metrics of one comparison.
type Score struct {
	MSE  float64
	PSNR float64
}

// MSE returns the mean of squared per-sample differences between a and b.
// Samples are compared at their native depth, so 16-bit rasters are not
// truncated to their low byte.
func MSE(a, b *safe.Mat) (float64, error) {
	if err := validatePair(a, b); err != nil {
		return 0, err
	}

	sa, err := samples(a)
	if err != nil {
		return 0, err
	}
	sb, err := samples(b)
	if err != nil {
		return 0, err
	}
	if len(sa) != len(sb) {
		return 0, fmt.Errorf("%w: %d vs %d samples", ErrShapeMismatch, len(sa), len(sb))
	}

	floats.Sub(sa, sb)
	return floats.Dot(sa, sa) / float64(len(sa)), nil
}

// PSNR returns the peak signal-to-noise ratio in decibels. Identical inputs
// yield +Inf.
func PSNR(a, b *safe.Mat, dataRange float64) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	return PSNRFromMSE(mse, dataRange), nil
}

func PSNRFromMSE(mse, dataRange float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(dataRange*dataRange/mse)
}

// Compare computes MSE and PSNR with the 8-bit data range.
func Compare(reference, candidate *safe.Mat) (Score, error) {
	mse, err := MSE(reference, candidate)
	if err != nil {
		return Score{}, err
	}
	return Score{MSE: mse, PSNR: PSNRFromMSE(mse, DefaultDataRange)}, nil
}

func validatePair(a, b *safe.Mat) error {
	for _, m := range []*safe.Mat{a, b} {
		if err := safe.ValidateMatForOperation(m, "metrics"); err != nil {
			return err
		}
	}
	if err := safe.ValidateSameShape(a, b, "metrics"); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	if a.Type() != b.Type() {
		return fmt.Errorf("%w: type %d vs %d", ErrTypeMismatch, int(a.Type()), int(b.Type()))
	}
	return nil
}

// samples returns every sample of m widened to float64.
func samples(m *safe.Mat) ([]float64, error) {
	wide := gocv.NewMat()
	defer wide.Close()

	src := m.GetMat()
	if err := src.ConvertTo(&wide, gocv.MatTypeCV64F); err != nil {
		return nil, fmt.Errorf("sample conversion failed: %w", err)
	}

	data, err := wide.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("sample access failed: %w", err)
	}

	out := make([]float64, len(data))
	copy(out, data)
	return out, nil
}
