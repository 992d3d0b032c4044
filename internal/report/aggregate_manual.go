package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"edgebench/internal/processing/edges"
)

// ManualAggregator parses the CSV with encoding/csv and groups rows itself.
type ManualAggregator struct{}

func (ManualAggregator) Name() string { return "manual" }

func (ManualAggregator) Aggregate(r io.Reader) ([]GroupMean, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	required := append([]string{columnNoiseType, columnNoiseLevel}, psnrColumns()...)
	index, err := columnIndex(header, required)
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		noiseType string
		level     float64
	}

	samples := make(map[groupKey]map[edges.Operator][]float64)
	var order []groupKey

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		level, err := parseLevel(record[index[columnNoiseLevel]])
		if err != nil {
			return nil, err
		}
		key := groupKey{noiseType: record[index[columnNoiseType]], level: level}

		bucket, ok := samples[key]
		if !ok {
			bucket = make(map[edges.Operator][]float64, len(edges.Operators))
			samples[key] = bucket
			order = append(order, key)
		}

		for _, op := range edges.Operators {
			v, err := parseFloat(record[index[psnrColumn(op)]])
			if err != nil {
				continue
			}
			bucket[op] = append(bucket[op], v)
		}
	}

	groups := make([]GroupMean, 0, len(order))
	for _, key := range order {
		g := GroupMean{
			NoiseType:  key.noiseType,
			NoiseLevel: key.level,
			MeanPSNR:   make(map[edges.Operator]float64, len(edges.Operators)),
		}
		for _, op := range edges.Operators {
			g.MeanPSNR[op] = mean(samples[key][op])
		}
		groups = append(groups, g)
	}

	sortGroups(groups)
	return groups, nil
}
