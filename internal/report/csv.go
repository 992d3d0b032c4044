package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"edgebench/internal/metrics"
	"edgebench/internal/processing/edges"
)

var ErrMalformedCSV = errors.New("malformed metrics CSV")

const (
	columnImage      = "image"
	columnNoiseType  = "noise_type"
	columnNoiseLevel = "noise_level"
)

// Header returns the CSV column names in file order.
func Header() []string {
	header := []string{columnImage, columnNoiseType, columnNoiseLevel}
	for _, op := range edges.Operators {
		header = append(header, mseColumn(op), psnrColumn(op))
	}
	return header
}

func mseColumn(op edges.Operator) string  { return string(op) + "_mse" }
func psnrColumn(op edges.Operator) string { return string(op) + "_psnr" }

// WriteCSV writes rows to path, creating parent directories as needed.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (r Row) record() []string {
	level := ""
	if r.NoiseLevel != nil {
		level = formatFloat(*r.NoiseLevel)
	}

	record := []string{r.Image, r.NoiseType, level}
	for _, op := range edges.Operators {
		score, ok := r.Scores[op]
		if !ok {
			record = append(record, "", "")
			continue
		}
		record = append(record, formatFloat(score.MSE), formatFloat(score.PSNR))
	}
	return record
}

// formatFloat writes infinities as inf and -inf and NaN as nan.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat accepts everything formatFloat writes. Empty cells are NaN.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadCSV parses a metrics CSV. Columns are located by header name.
func ReadCSV(r io.Reader) ([]Row, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}

	index, err := columnIndex(records[0], Header())
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for line, record := range records[1:] {
		row := Row{
			Image:     record[index[columnImage]],
			NoiseType: record[index[columnNoiseType]],
			Scores:    make(map[edges.Operator]metrics.Score, len(edges.Operators)),
		}

		if cell := strings.TrimSpace(record[index[columnNoiseLevel]]); cell != "" {
			level, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: noise_level %q", ErrMalformedCSV, line+2, cell)
			}
			row.NoiseLevel = &level
		}

		for _, op := range edges.Operators {
			mse, err := parseFloat(record[index[mseColumn(op)]])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s", ErrMalformedCSV, line+2, mseColumn(op))
			}
			psnr, err := parseFloat(record[index[psnrColumn(op)]])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s", ErrMalformedCSV, line+2, psnrColumn(op))
			}
			row.Scores[op] = metrics.Score{MSE: mse, PSNR: psnr}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func columnIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, name)
		}
	}
	return index, nil
}
