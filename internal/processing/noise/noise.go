// Package noise synthesizes corrupted variants of clean grayscale rasters.
//
// Both generators work on a [0,1] view of the 8-bit samples and convert back
// with truncation, so a pixel value v in the float domain becomes uint8(v*255).
package noise

import (
	"fmt"
	"math"

	"edgebench/internal/opencv/safe"

	"golang.org/x/exp/rand"
)

type Type string

const (
	Clean      Type = "clean"
	Gaussian   Type = "gaussian"
	SaltPepper Type = "s&p"
)

// NewSource returns the seeded random source the generators draw from.
func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// Apply dispatches to the generator for typ. Clean returns a copy of src.
func Apply(typ Type, src *safe.Mat, level float64, rng rand.Source) (*safe.Mat, error) {
	switch typ {
	case Clean:
		return src.Clone()
	case Gaussian:
		return AddGaussian(src, level, rng)
	case SaltPepper:
		return AddSaltPepper(src, level, rng)
	default:
		return nil, fmt.Errorf("unknown noise type: %q", typ)
	}
}

// AddGaussian adds zero-mean normal noise with the given variance, measured on
// the [0,1] intensity scale, and clips the result to the valid range.
func AddGaussian(src *safe.Mat, variance float64, rng rand.Source) (*safe.Mat, error) {
	if variance < 0 || math.IsNaN(variance) {
		return nil, fmt.Errorf("gaussian noise variance must be non-negative, got %v", variance)
	}

	data, err := grayPixels(src, "gaussian noise")
	if err != nil {
		return nil, err
	}

	if variance == 0 {
		return src.Clone()
	}

	r := rand.New(rng)
	sigma := math.Sqrt(variance)

	out := make([]byte, len(data))
	for i, v := range data {
		f := float64(v)/255 + r.NormFloat64()*sigma
		out[i] = toUint8(f)
	}

	return safe.NewGrayFromBytes(src.Rows(), src.Cols(), out)
}

// AddSaltPepper replaces each pixel with probability amount by either full
// white or full black, chosen with equal odds.
func AddSaltPepper(src *safe.Mat, amount float64, rng rand.Source) (*safe.Mat, error) {
	if amount < 0 || amount > 1 || math.IsNaN(amount) {
		return nil, fmt.Errorf("salt-and-pepper amount must be within [0,1], got %v", amount)
	}

	data, err := grayPixels(src, "salt-and-pepper noise")
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		return src.Clone()
	}

	r := rand.New(rng)

	out := make([]byte, len(data))
	copy(out, data)
	for i := range out {
		if r.Float64() >= amount {
			continue
		}
		if r.Float64() < 0.5 {
			out[i] = 255
		} else {
			out[i] = 0
		}
	}

	return safe.NewGrayFromBytes(src.Rows(), src.Cols(), out)
}

func grayPixels(src *safe.Mat, operation string) ([]byte, error) {
	if err := safe.ValidateGray8(src, operation); err != nil {
		return nil, err
	}
	return src.Bytes()
}

func toUint8(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	default:
		return uint8(f * 255)
	}
}
