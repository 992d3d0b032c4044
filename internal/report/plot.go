package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"edgebench/internal/processing/edges"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// PlotPSNR draws one chart per noise type with a line per operator and
// returns the written file paths. Infinite means are left out of the lines.
func PlotPSNR(groups []GroupMean, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	var paths []string
	for _, noiseType := range NoiseTypes(groups) {
		p, err := psnrChart(noiseType, groups)
		if err != nil {
			return paths, fmt.Errorf("failed to build %s chart: %w", noiseType, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("psnr_%s.png", noiseType))
		if err := p.Save(plotWidth, plotHeight, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func psnrChart(noiseType string, groups []GroupMean) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("PSNR per operator (%s)", noiseType)
	p.X.Label.Text = "Noise level"
	p.Y.Label.Text = "Mean PSNR"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, op := range edges.Operators {
		pts := finitePoints(noiseType, op, groups)
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)

		p.Add(line, points)
		p.Legend.Add(string(op), line, points)
	}

	return p, nil
}

func finitePoints(noiseType string, op edges.Operator, groups []GroupMean) plotter.XYs {
	var pts plotter.XYs
	for _, g := range groups {
		if g.NoiseType != noiseType {
			continue
		}
		v, ok := g.MeanPSNR[op]
		if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: g.NoiseLevel, Y: v})
	}
	return pts
}

// PlotMetrics aggregates the CSV at csvPath and writes the PSNR charts.
// An empty outDir defaults to a plots directory next to the CSV.
func PlotMetrics(csvPath, outDir string, agg Aggregator) ([]string, error) {
	if agg == nil {
		agg = DefaultAggregator()
	}
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(csvPath), "plots")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics: %w", err)
	}
	defer f.Close()

	groups, err := agg.Aggregate(f)
	if err != nil {
		return nil, fmt.Errorf("%s aggregation failed: %w", agg.Name(), err)
	}

	return PlotPSNR(groups, outDir)
}
