package pipeline

import (
	"fmt"
	"math"
	"strconv"

	"edgebench/internal/processing/noise"
)

// NoiseSpec is one pass of the sweep. The clean pass carries no level.
type NoiseSpec struct {
	Type     noise.Type
	Level    float64
	HasLevel bool
}

func CleanPass() NoiseSpec {
	return NoiseSpec{Type: noise.Clean}
}

func Pass(typ noise.Type, level float64) NoiseSpec {
	return NoiseSpec{Type: typ, Level: level, HasLevel: true}
}

// Tag names the pass in saved image file names: "clean" or "{type}_{level}".
func (s NoiseSpec) Tag() string {
	if !s.HasLevel {
		return string(s.Type)
	}
	return fmt.Sprintf("%s_%s", s.Type, FormatLevel(s.Level))
}

func (s NoiseSpec) String() string {
	return s.Tag()
}

// LevelPtr returns the level for a report row, nil for the clean pass.
func (s NoiseSpec) LevelPtr() *float64 {
	if !s.HasLevel {
		return nil
	}
	level := s.Level
	return &level
}

var (
	DefaultGaussianLevels   = []float64{0.01, 0.05, 0.1}
	DefaultSaltPepperLevels = []float64{0.01, 0.05, 0.1}
)

// DefaultSweep is the clean pass followed by three gaussian and three
// salt-and-pepper intensities.
func DefaultSweep() []NoiseSpec {
	return BuildSweep(DefaultGaussianLevels, DefaultSaltPepperLevels)
}

func BuildSweep(gaussian, saltPepper []float64) []NoiseSpec {
	sweep := make([]NoiseSpec, 0, 1+len(gaussian)+len(saltPepper))
	sweep = append(sweep, CleanPass())
	for _, level := range gaussian {
		sweep = append(sweep, Pass(noise.Gaussian, level))
	}
	for _, level := range saltPepper {
		sweep = append(sweep, Pass(noise.SaltPepper, level))
	}
	return sweep
}

// FormatLevel renders a level with the shortest round-trip digits, always
// keeping a decimal point or an exponent: 0.1, 1.0, 1e-05.
func FormatLevel(v float64) string {
	abs := math.Abs(v)
	switch {
	case v == math.Trunc(v) && abs < 1e16:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case abs < 1e-4 || abs >= 1e16:
		return strconv.FormatFloat(v, 'e', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
