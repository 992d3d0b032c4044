package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"edgebench/internal/processing/edges"
)

// Aggregator groups a metrics CSV by (noise_type, noise_level) and averages
// the PSNR of every operator.
type Aggregator interface {
	Name() string
	Aggregate(r io.Reader) ([]GroupMean, error)
}

// newDataFrameAggregator is set when the dataframe backend is compiled in.
var newDataFrameAggregator func() Aggregator

// DefaultAggregator prefers the dataframe backend and falls back to the
// manual one when the binary was built with the nodataframe tag.
func DefaultAggregator() Aggregator {
	if newDataFrameAggregator != nil {
		return newDataFrameAggregator()
	}
	return ManualAggregator{}
}

func sortGroups(groups []GroupMean) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].NoiseType != groups[j].NoiseType {
			return groups[i].NoiseType < groups[j].NoiseType
		}
		return groups[i].NoiseLevel < groups[j].NoiseLevel
	})
}

// parseLevel maps the clean pass's empty level to 0.
func parseLevel(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return 0, nil
	}
	level, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(level) {
		return 0, fmt.Errorf("%w: noise_level %q", ErrMalformedCSV, cell)
	}
	return level, nil
}

// mean averages values, ignoring NaN. An empty input yields NaN.
func mean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// NoiseTypes returns the distinct noise types of groups in order of appearance.
func NoiseTypes(groups []GroupMean) []string {
	seen := make(map[string]bool)
	var types []string
	for _, g := range groups {
		if !seen[g.NoiseType] {
			seen[g.NoiseType] = true
			types = append(types, g.NoiseType)
		}
	}
	return types
}

func psnrColumns() []string {
	columns := make([]string, len(edges.Operators))
	for i, op := range edges.Operators {
		columns[i] = psnrColumn(op)
	}
	return columns
}
