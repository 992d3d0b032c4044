package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edgebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset: images
enhancement:
  denoise: median
  clahe: true
  clipLimit: 3.5
noise:
  seed: 99
  gaussian: [0.02]
workers: 4
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "images", cfg.Dataset)
	assert.Equal(t, "median", cfg.Enhancement.Denoise)
	assert.Equal(t, 3, cfg.Enhancement.DenoiseKernel)
	assert.True(t, cfg.Enhancement.CLAHE)
	assert.False(t, cfg.Enhancement.Histogram)
	assert.Equal(t, 3.5, cfg.Enhancement.ClipLimit)
	assert.Equal(t, 8, cfg.Enhancement.TileSize)
	assert.Equal(t, uint64(99), cfg.Noise.Seed)
	assert.Equal(t, []float64{0.02}, cfg.Noise.Gaussian)
	assert.Equal(t, []float64{0.01, 0.05, 0.1}, cfg.Noise.SaltPepper)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "results", cfg.Output.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edges:\n  logKernel: 4\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, os.WriteFile(path, []byte("noise: [unclosed\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output", func(c *Config) { c.Output.Dir = "" }},
		{"denoise method", func(c *Config) { c.Enhancement.Denoise = "wiener" }},
		{"even denoise kernel", func(c *Config) { c.Enhancement.DenoiseKernel = 4 }},
		{"clip limit", func(c *Config) { c.Enhancement.ClipLimit = 0 }},
		{"tile size", func(c *Config) { c.Enhancement.TileSize = -1 }},
		{"negative variance", func(c *Config) { c.Noise.Gaussian = []float64{-0.1} }},
		{"amount above one", func(c *Config) { c.Noise.SaltPepper = []float64{1.5} }},
		{"canny sigma", func(c *Config) { c.Edges.CannySigma = 2 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edgebench.yaml")

	cfg := Default()
	cfg.Output.SaveImages = true
	cfg.Noise.Seed = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
