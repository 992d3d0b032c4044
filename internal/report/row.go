// Package report persists experiment rows as CSV, aggregates them per noise
// setting and plots the mean PSNR of every operator.
package report

import (
	"edgebench/internal/metrics"
	"edgebench/internal/processing/edges"
)

// Row is one (image, noise setting) result across all operators.
type Row struct {
	Image      string
	NoiseType  string
	NoiseLevel *float64 // nil for the clean pass
	Scores     map[edges.Operator]metrics.Score
}

// Level returns the noise level, 0 for the clean pass.
func (r Row) Level() float64 {
	if r.NoiseLevel == nil {
		return 0
	}
	return *r.NoiseLevel
}

// Report collects rows in the order they were produced.
type Report struct {
	rows []Row
}

func (r *Report) Append(rows ...Row) {
	r.rows = append(r.rows, rows...)
}

func (r *Report) Rows() []Row {
	return r.rows
}

func (r *Report) Len() int {
	return len(r.rows)
}

// GroupMean is the mean PSNR of each operator for one noise setting.
type GroupMean struct {
	NoiseType  string
	NoiseLevel float64
	MeanPSNR   map[edges.Operator]float64
}
