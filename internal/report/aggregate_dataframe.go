//go:build !nodataframe

package report

import (
	"fmt"
	"io"

	"edgebench/internal/processing/edges"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func init() {
	newDataFrameAggregator = func() Aggregator { return DataFrameAggregator{} }
}

// DataFrameAggregator loads the CSV into a gota DataFrame and uses GroupBy.
type DataFrameAggregator struct{}

func (DataFrameAggregator) Name() string { return "dataframe" }

func (DataFrameAggregator) Aggregate(r io.Reader) ([]GroupMean, error) {
	types := map[string]series.Type{
		columnNoiseType:  series.String,
		columnNoiseLevel: series.String,
	}
	for _, column := range psnrColumns() {
		types[column] = series.Float
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, df.Err)
	}

	for _, column := range append([]string{columnNoiseType, columnNoiseLevel}, psnrColumns()...) {
		if !hasColumn(df, column) {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, column)
		}
	}

	levels, err := numericLevels(df.Col(columnNoiseLevel).Records())
	if err != nil {
		return nil, err
	}
	df = df.Mutate(series.New(levels, series.Float, columnNoiseLevel))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to convert noise levels: %w", df.Err)
	}

	grouped := df.GroupBy(columnNoiseType, columnNoiseLevel)
	if grouped.Err != nil {
		return nil, fmt.Errorf("failed to group rows: %w", grouped.Err)
	}

	var groups []GroupMean
	for _, part := range grouped.GetGroups() {
		if part.Nrow() == 0 {
			continue
		}

		g := GroupMean{
			NoiseType:  part.Col(columnNoiseType).Records()[0],
			NoiseLevel: part.Col(columnNoiseLevel).Float()[0],
			MeanPSNR:   make(map[edges.Operator]float64, len(edges.Operators)),
		}
		for _, op := range edges.Operators {
			g.MeanPSNR[op] = mean(part.Col(psnrColumn(op)).Float())
		}
		groups = append(groups, g)
	}

	sortGroups(groups)
	return groups, nil
}

func numericLevels(records []string) ([]float64, error) {
	levels := make([]float64, len(records))
	for i, cell := range records {
		level, err := parseLevel(cell)
		if err != nil {
			return nil, err
		}
		levels[i] = level
	}
	return levels, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, column := range df.Names() {
		if column == name {
			return true
		}
	}
	return false
}
