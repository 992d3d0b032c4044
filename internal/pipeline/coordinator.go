// Package pipeline drives the noise sweep over a dataset: every image is
// corrupted, optionally enhanced, run through the edge operators and scored
// against the edge maps of its clean version.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"edgebench/internal/logger"
	"edgebench/internal/metrics"
	"edgebench/internal/opencv/safe"
	"edgebench/internal/processing/chain"
	"edgebench/internal/processing/edges"
	"edgebench/internal/processing/filters"
	"edgebench/internal/processing/noise"
	"edgebench/internal/report"
	"edgebench/internal/timing"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// MetricsFileName is the combined CSV written by Run.
const MetricsFileName = "metrics.csv"

type Options struct {
	OutputDir   string
	Enhancement filters.EnhancementOptions
	Sweep       []NoiseSpec
	Edges       edges.Options
	SaveImages  bool
	Seed        uint64
	Workers     int
	Logger      logger.Logger
}

func DefaultOptions() Options {
	return Options{
		OutputDir:   "results",
		Enhancement: filters.DefaultEnhancementOptions(),
		Sweep:       DefaultSweep(),
		Edges:       edges.DefaultOptions(),
		Seed:        1,
		Workers:     1,
	}
}

// RunSummary describes what a Run produced.
type RunSummary struct {
	Images      []string
	Rows        int
	ImageCSVs   []string
	MetricsPath string
	Duration    time.Duration
	Timings     []timing.Stat
}

type Driver struct {
	opts      Options
	params    map[string]interface{}
	enhance   *chain.ProcessingChain
	detectors *edges.Set
	saver     *imageSaver
	timer     *timing.Tracker
	log       logger.Logger
}

func NewDriver(opts Options) (*Driver, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if len(opts.Sweep) == 0 {
		opts.Sweep = DefaultSweep()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	detectors, err := edges.NewSet(opts.Edges)
	if err != nil {
		return nil, fmt.Errorf("invalid edge options: %w", err)
	}

	return &Driver{
		opts:      opts,
		params:    opts.Enhancement.Params(),
		enhance:   filters.NewEnhancementChain(),
		detectors: detectors,
		saver:     &imageSaver{outDir: opts.OutputDir, logger: opts.Logger},
		timer:     timing.NewTracker(),
		log:       opts.Logger,
	}, nil
}

// ProcessImage runs the whole sweep on one image and writes its CSV.
func (d *Driver) ProcessImage(ctx context.Context, path string) ([]report.Row, error) {
	return d.processImage(ctx, 0, path)
}

func (d *Driver) processImage(ctx context.Context, index int, path string) ([]report.Row, error) {
	stem := imageStem(path)
	start := time.Now()

	d.log.Info("Driver", "processing image", map[string]interface{}{
		"image":  stem,
		"path":   path,
		"passes": len(d.opts.Sweep),
	})

	stop := d.timer.Start("load")
	gray, err := LoadGray(path)
	stop()
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	stop = d.timer.Start("detect")
	refs, err := d.detectors.Run(gray)
	stop()
	if err != nil {
		return nil, fmt.Errorf("reference edges for %s: %w", stem, err)
	}
	defer refs.Close()

	rng := noise.NewSource(d.seedFor(index))
	rows := make([]report.Row, 0, len(d.opts.Sweep))

	for _, spec := range d.opts.Sweep {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := d.runPass(ctx, stem, gray, refs, spec, rng)
		if err != nil {
			return nil, fmt.Errorf("%s pass %s: %w", stem, spec, err)
		}
		rows = append(rows, row)
	}

	csvPath := d.imageCSVPath(stem)
	if err := report.WriteCSV(csvPath, rows); err != nil {
		return nil, err
	}

	d.log.Info("Driver", "image completed", map[string]interface{}{
		"image":       stem,
		"rows":        len(rows),
		"csv":         csvPath,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return rows, nil
}

func (d *Driver) runPass(ctx context.Context, stem string, gray *safe.Mat, refs edges.Maps, spec NoiseSpec, rng rand.Source) (report.Row, error) {
	stop := d.timer.Start("noise")
	noisy, err := noise.Apply(spec.Type, gray, spec.Level, rng)
	stop()
	if err != nil {
		return report.Row{}, err
	}
	defer noisy.Close()

	stop = d.timer.Start("enhance")
	enhanced, err := d.enhance.Execute(ctx, noisy, d.params)
	stop()
	if err != nil {
		return report.Row{}, err
	}
	defer enhanced.Close()

	stop = d.timer.Start("detect")
	maps, err := d.detectors.Run(enhanced)
	stop()
	if err != nil {
		return report.Row{}, err
	}
	defer maps.Close()

	row := report.Row{
		Image:      stem,
		NoiseType:  string(spec.Type),
		NoiseLevel: spec.LevelPtr(),
		Scores:     make(map[edges.Operator]metrics.Score, len(edges.Operators)),
	}

	stop = d.timer.Start("score")
	for _, op := range edges.Operators {
		score, err := metrics.Compare(refs[op], maps[op])
		if err != nil {
			return report.Row{}, fmt.Errorf("%s metrics: %w", op, err)
		}
		row.Scores[op] = score
	}
	stop()

	d.log.Debug("Driver", "pass scored", map[string]interface{}{
		"image":      stem,
		"pass":       spec.Tag(),
		"sobel_psnr": row.Scores[edges.Sobel].PSNR,
		"canny_psnr": row.Scores[edges.Canny].PSNR,
	})

	if d.opts.SaveImages {
		if err := d.savePass(stem, spec.Tag(), noisy, enhanced, maps); err != nil {
			return report.Row{}, err
		}
	}

	return row, nil
}

func (d *Driver) savePass(stem, tag string, noisy, enhanced *safe.Mat, maps edges.Maps) error {
	if err := d.saver.Save(stem, tag, StageInput, noisy); err != nil {
		return err
	}
	if err := d.saver.Save(stem, tag, StageEnhanced, enhanced); err != nil {
		return err
	}
	for _, op := range edges.Operators {
		if err := d.saver.Save(stem, tag, string(op), maps[op]); err != nil {
			return err
		}
	}
	return nil
}

// Run processes every image of dataset, or a generated sample when dataset is
// not a directory, and writes the combined CSV.
func (d *Driver) Run(ctx context.Context, dataset string) (*RunSummary, error) {
	start := time.Now()
	d.timer.Reset()

	images, err := d.resolveDataset(dataset)
	if err != nil {
		return nil, err
	}

	d.log.Info("Driver", "run started", map[string]interface{}{
		"dataset": dataset,
		"images":  len(images),
		"workers": d.opts.Workers,
		"steps":   d.enhance.ActiveStepNames(d.params),
	})

	results := make([][]report.Row, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, path := range images {
		i, path := i, path // per-iteration copies (go.mod targets go 1.21)
		g.Go(func() error {
			rows, err := d.processImage(gctx, i, path)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined report.Report
	summary := &RunSummary{Images: images}
	for i, rows := range results {
		combined.Append(rows...)
		summary.ImageCSVs = append(summary.ImageCSVs, d.imageCSVPath(imageStem(images[i])))
	}

	if combined.Len() > 0 {
		summary.MetricsPath = filepath.Join(d.opts.OutputDir, MetricsFileName)
		if err := report.WriteCSV(summary.MetricsPath, combined.Rows()); err != nil {
			return nil, err
		}
	}

	summary.Rows = combined.Len()
	summary.Duration = time.Since(start)
	summary.Timings = d.Timings()

	d.log.Info("Driver", "run completed", map[string]interface{}{
		"images":      len(images),
		"rows":        summary.Rows,
		"metrics":     summary.MetricsPath,
		"duration_ms": summary.Duration.Milliseconds(),
	})

	return summary, nil
}

// Timings summarizes the stage durations recorded since the last Run started.
func (d *Driver) Timings() []timing.Stat {
	return d.timer.Summary()
}

func (d *Driver) resolveDataset(dataset string) ([]string, error) {
	if isDir(dataset) {
		return ListImages(dataset)
	}

	samplePath := filepath.Join(d.opts.OutputDir, SampleImageName)
	d.log.Warning("Driver", "dataset not found, using generated sample", map[string]interface{}{
		"dataset": dataset,
		"sample":  samplePath,
	})

	if err := WriteSampleImage(samplePath); err != nil {
		return nil, err
	}
	return []string{samplePath}, nil
}

// seedFor gives every image its own stream so results do not depend on the
// worker count.
func (d *Driver) seedFor(index int) uint64 {
	return d.opts.Seed + uint64(index)
}

func (d *Driver) imageCSVPath(stem string) string {
	return filepath.Join(d.opts.OutputDir, stem+"_metrics.csv")
}

func imageStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
