package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"edgebench/internal/config"
	"edgebench/internal/logger"
	"edgebench/internal/pipeline"
	"edgebench/internal/processing/filters"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "edgebench.yaml")

	cfg := config.Default()
	cfg.Dataset = "from-file"
	cfg.Workers = 2
	cfg.Enhancement.CLAHE = true
	require.NoError(t, cfg.Save(cfgPath))

	flags := rootCmd.Flags()
	require.NoError(t, flags.Set("config", cfgPath))
	require.NoError(t, flags.Set("out", filepath.Join(dir, "out")))
	require.NoError(t, flags.Set("he", "true"))
	require.NoError(t, flags.Set("denoise", "bilateral"))

	loaded, err := loadConfig(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "from-file", loaded.Dataset)
	assert.Equal(t, 2, loaded.Workers)
	assert.True(t, loaded.Enhancement.CLAHE)
	assert.True(t, loaded.Enhancement.Histogram)
	assert.Equal(t, filepath.Join(dir, "out"), loaded.Output.Dir)

	opts := driverOptions(loaded, logger.Nop())
	assert.Len(t, opts.Sweep, 7)
	assert.True(t, opts.Enhancement.HistogramEqualization)
	assert.Equal(t, filters.DenoiseBilateral, opts.Enhancement.Denoise)
	assert.Equal(t, 3, opts.Enhancement.DenoiseKernelSize)
	assert.Equal(t, 2.0, opts.Enhancement.CLAHEClipLimit)
	assert.Equal(t, 5, opts.Edges.LoGKernelSize)
	assert.Equal(t, uint64(1), opts.Seed)
}

func TestRunExperimentWritesMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset = filepath.Join(t.TempDir(), "missing")
	cfg.Output.Dir = t.TempDir()

	summary, err := runExperiment(testContext(t), cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Rows)

	_, err = os.Stat(summary.MetricsPath)
	assert.NoError(t, err)
}

func TestRunExperimentLogsStageTimingsOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewZerolog(&buf, zerolog.DebugLevel)

	cfg := config.Default()
	cfg.Dataset = filepath.Join(t.TempDir(), "missing")
	cfg.Output.Dir = t.TempDir()

	_, err := runExperiment(testContext(t), cfg, log)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"stage timings"`)
	assert.Contains(t, out, `"detect_ms"`)
	assert.NotContains(t, out, "run interrupted")
}

func TestPrintSummaryLogsAggregationFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewZerolog(&buf, zerolog.DebugLevel)

	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, os.WriteFile(path, []byte("image,noise_type\nsample,clean\n"), 0o644))

	printSummary(&pipeline.RunSummary{MetricsPath: path}, log)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "aggregation failed")

	buf.Reset()
	printSummary(&pipeline.RunSummary{MetricsPath: filepath.Join(t.TempDir(), "absent.csv")}, log)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

// testContext stands in for testing.T.Context (Go 1.24+): it is canceled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
