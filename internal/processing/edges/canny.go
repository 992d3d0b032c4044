package edges

import (
	"fmt"
	"math"

	"edgebench/internal/opencv/safe"

	"github.com/montanaflynn/stats"
	"gocv.io/x/gocv"
)

// CannyDetector runs Canny with hysteresis thresholds derived from the image
// median: (1-sigma)*median and (1+sigma)*median, clamped to [0,255].
type CannyDetector struct {
	sigma float64
}

func NewCannyDetector(sigma float64) *CannyDetector {
	return &CannyDetector{sigma: sigma}
}

func (d *CannyDetector) Name() Operator { return Canny }

func (d *CannyDetector) Binary() bool { return true }

// Thresholds returns the lower and upper hysteresis thresholds for src.
func (d *CannyDetector) Thresholds(src *safe.Mat) (float64, float64, error) {
	data, err := src.Bytes()
	if err != nil {
		return 0, 0, err
	}

	samples := make(stats.Float64Data, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	median, err := stats.Median(samples)
	if err != nil {
		return 0, 0, fmt.Errorf("median computation failed: %w", err)
	}

	lower := math.Trunc(math.Max(0, (1-d.sigma)*median))
	upper := math.Trunc(math.Min(255, (1+d.sigma)*median))
	return lower, upper, nil
}

func (d *CannyDetector) Detect(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateGray8(src, "Canny"); err != nil {
		return nil, err
	}

	lower, upper, err := d.Thresholds(src)
	if err != nil {
		return nil, err
	}

	edges := gocv.NewMat()
	srcMat := src.GetMat()
	if err := gocv.Canny(srcMat, &edges, float32(lower), float32(upper)); err != nil {
		edges.Close()
		return nil, fmt.Errorf("canny failed: %w", err)
	}

	return safe.Adopt(edges, "canny")
}
