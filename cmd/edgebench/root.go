package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"edgebench/internal/config"
	"edgebench/internal/logger"
	"edgebench/internal/pipeline"
	"edgebench/internal/processing/edges"
	"edgebench/internal/processing/filters"
	"edgebench/internal/report"
	"edgebench/internal/shutdown"

	"github.com/spf13/cobra"
)

var (
	runFlags struct {
		Config     string
		Dataset    string
		Out        string
		HE         bool
		CLAHE      bool
		Denoise    string
		SaveImages bool
		Seed       uint64
		Workers    int
		LogLevel   string
		LogFormat  string
	}
)

var rootCmd = &cobra.Command{
	Use:   "edgebench",
	Short: "Measure how noise degrades edge detectors",
	Long: `Runs Sobel, Prewitt, LoG and Canny on clean and noisy variants of every
image in a dataset and scores each edge map against the clean one with MSE and PSNR.
Results are written as CSV files under the output directory.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal(logger.New(logger.InfoLevel, ""), "configuration failed", err)
		}

		log, err := newLogger(cfg)
		if err != nil {
			fatal(logger.New(logger.InfoLevel, ""), "logger setup failed", err)
		}

		summary, err := runExperiment(cmd.Context(), cfg, log)
		if err != nil {
			fatal(log, "experiment failed", err)
		}

		printSummary(summary, log)
		fmt.Printf("Done. Results in %s\n", cfg.Output.Dir)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&runFlags.Config, "config", "", "YAML experiment file")
	f.StringVar(&runFlags.Dataset, "dataset", "dataset", "folder with images")
	f.StringVar(&runFlags.Out, "out", "results", "output folder")
	f.BoolVar(&runFlags.HE, "he", false, "apply histogram equalization")
	f.BoolVar(&runFlags.CLAHE, "clahe", false, "apply CLAHE")
	f.StringVar(&runFlags.Denoise, "denoise", "none", "smooth before enhancement: none, gaussian, median or bilateral")
	f.BoolVar(&runFlags.SaveImages, "save-images", false, "write noisy, enhanced and edge images per pass")
	f.Uint64Var(&runFlags.Seed, "seed", 1, "noise seed; image i uses seed+i")
	f.IntVar(&runFlags.Workers, "workers", 1, "images processed concurrently")
	f.StringVar(&runFlags.LogLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&runFlags.LogFormat, "log-format", "console", "console or json")
}

// loadConfig reads the YAML file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(runFlags.Config)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset = runFlags.Dataset
	}
	if flags.Changed("out") {
		cfg.Output.Dir = runFlags.Out
	}
	if flags.Changed("he") {
		cfg.Enhancement.Histogram = runFlags.HE
	}
	if flags.Changed("clahe") {
		cfg.Enhancement.CLAHE = runFlags.CLAHE
	}
	if flags.Changed("denoise") {
		cfg.Enhancement.Denoise = runFlags.Denoise
	}
	if flags.Changed("save-images") {
		cfg.Output.SaveImages = runFlags.SaveImages
	}
	if flags.Changed("seed") {
		cfg.Noise.Seed = runFlags.Seed
	}
	if flags.Changed("workers") {
		cfg.Workers = runFlags.Workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = runFlags.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = runFlags.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.ZerologAdapter, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.New(level, cfg.Log.Format), nil
}

func driverOptions(cfg *config.Config, log logger.Logger) pipeline.Options {
	// Validate has already accepted the method name.
	denoise, _ := filters.ParseDenoiseMethod(cfg.Enhancement.Denoise)

	return pipeline.Options{
		OutputDir: cfg.Output.Dir,
		Enhancement: filters.EnhancementOptions{
			Denoise:               denoise,
			DenoiseKernelSize:     cfg.Enhancement.DenoiseKernel,
			HistogramEqualization: cfg.Enhancement.Histogram,
			CLAHE:                 cfg.Enhancement.CLAHE,
			CLAHEClipLimit:        cfg.Enhancement.ClipLimit,
			CLAHETileSize:         cfg.Enhancement.TileSize,
		},
		Sweep: pipeline.BuildSweep(cfg.Noise.Gaussian, cfg.Noise.SaltPepper),
		Edges: edges.Options{
			LoGKernelSize: cfg.Edges.LoGKernel,
			CannySigma:    cfg.Edges.CannySigma,
		},
		SaveImages: cfg.Output.SaveImages,
		Seed:       cfg.Noise.Seed,
		Workers:    cfg.Workers,
		Logger:     log,
	}
}

func runExperiment(ctx context.Context, cfg *config.Config, log logger.Logger) (*pipeline.RunSummary, error) {
	manager := shutdown.NewManager(ctx, log)
	manager.Listen()
	defer manager.Close()

	driver, err := pipeline.NewDriver(driverOptions(cfg, log))
	if err != nil {
		return nil, err
	}
	manager.Register(timingReport(driver, manager, log))

	return driver.Run(manager.Context(), cfg.Dataset)
}

// timingReport logs the stage timings gathered so far once the run shuts
// down. An interrupted run reports them as a warning.
func timingReport(driver *pipeline.Driver, manager *shutdown.Manager, log logger.Logger) shutdown.Func {
	return func() {
		fields := make(map[string]interface{})
		for _, stat := range driver.Timings() {
			fields[stat.Operation+"_ms"] = stat.Total.Milliseconds()
		}

		if manager.Interrupted() {
			log.Warning("Experiment", "run interrupted, partial stage timings", fields)
			return
		}
		log.Debug("Experiment", "stage timings", fields)
	}
}

func printSummary(summary *pipeline.RunSummary, log logger.Logger) {
	fmt.Printf("Images processed: %d\n", len(summary.Images))
	fmt.Printf("Result rows:      %d\n", summary.Rows)
	fmt.Printf("Elapsed:          %s\n", summary.Duration.Round(time.Millisecond))
	for _, stat := range summary.Timings {
		fmt.Printf("  %-8s %5d calls %10s %10s/call\n", stat.Operation, stat.Count,
			stat.Total.Round(time.Millisecond), stat.Mean().Round(time.Microsecond))
	}

	if summary.MetricsPath == "" {
		return
	}

	f, err := os.Open(summary.MetricsPath)
	if err != nil {
		log.Error("Experiment", err, map[string]interface{}{"metrics": summary.MetricsPath})
		return
	}
	defer f.Close()

	aggregator := report.DefaultAggregator()
	groups, err := aggregator.Aggregate(f)
	if err != nil {
		log.Error("Experiment", fmt.Errorf("%s aggregation failed: %w", aggregator.Name(), err), map[string]interface{}{
			"metrics": summary.MetricsPath,
		})
		return
	}

	fmt.Printf("\n%-10s %-7s", "noise", "level")
	for _, op := range edges.Operators {
		fmt.Printf(" %9s", op)
	}
	fmt.Println()
	for _, g := range groups {
		fmt.Printf("%-10s %-7s", g.NoiseType, pipeline.FormatLevel(g.NoiseLevel))
		for _, op := range edges.Operators {
			fmt.Printf(" %9s", formatPSNR(g.MeanPSNR[op]))
		}
		fmt.Println()
	}
	fmt.Println()
}

func formatPSNR(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}

func fatal(log *logger.ZerologAdapter, msg string, err error) {
	log.Zerolog().Fatal().Err(err).Msg(msg)
}
