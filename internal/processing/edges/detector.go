// Package edges implements the four edge operators compared by the experiment.
package edges

import (
	"fmt"

	"edgebench/internal/opencv/safe"
	"edgebench/internal/processing/threshold"
)

type Operator string

const (
	Sobel   Operator = "sobel"
	Prewitt Operator = "prewitt"
	LoG     Operator = "log"
	Canny   Operator = "canny"
)

// Operators lists every operator in report order.
var Operators = []Operator{Sobel, Prewitt, LoG, Canny}

// Detector maps an 8-bit grayscale raster to an edge response of the same shape.
// Binary detectors already emit a 0/255 map; the rest return a magnitude raster
// rescaled to [0,255] that still needs thresholding.
type Detector interface {
	Name() Operator
	Detect(src *safe.Mat) (*safe.Mat, error)
	Binary() bool
}

type Options struct {
	LoGKernelSize int
	CannySigma    float64
}

func DefaultOptions() Options {
	return Options{
		LoGKernelSize: 5,
		CannySigma:    0.33,
	}
}

func (o Options) Validate() error {
	if o.LoGKernelSize < 1 || o.LoGKernelSize%2 == 0 {
		return fmt.Errorf("LoG kernel size must be a positive odd number, got %d", o.LoGKernelSize)
	}
	if o.CannySigma < 0 || o.CannySigma > 1 {
		return fmt.Errorf("Canny sigma must be within [0,1], got %v", o.CannySigma)
	}
	return nil
}

// Set runs all operators and normalizes their output to binary edge maps.
type Set struct {
	detectors []Detector
}

func NewSet(opts Options) (*Set, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Set{
		detectors: []Detector{
			NewSobelDetector(),
			NewPrewittDetector(),
			NewLoGDetector(opts.LoGKernelSize),
			NewCannyDetector(opts.CannySigma),
		},
	}, nil
}

func (s *Set) Detectors() []Detector {
	return s.detectors
}

// Maps holds one binary edge map per operator.
type Maps map[Operator]*safe.Mat

func (m Maps) Close() {
	for _, mat := range m {
		mat.Close()
	}
}

// Run applies every detector to src. Magnitude outputs are binarized with
// Otsu's threshold; binary outputs are kept as they are.
func (s *Set) Run(src *safe.Mat) (Maps, error) {
	maps := make(Maps, len(s.detectors))

	for _, d := range s.detectors {
		edgeMap, err := runDetector(d, src)
		if err != nil {
			maps.Close()
			return nil, fmt.Errorf("%s edge detection failed: %w", d.Name(), err)
		}
		maps[d.Name()] = edgeMap
	}

	return maps, nil
}

func runDetector(d Detector, src *safe.Mat) (*safe.Mat, error) {
	response, err := d.Detect(src)
	if err != nil {
		return nil, err
	}

	if d.Binary() {
		return response, nil
	}
	defer response.Close()

	edgeMap, _, err := threshold.Otsu(response)
	return edgeMap, err
}
