// Package config loads experiment settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"edgebench/internal/processing/filters"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config mirrors the YAML layout of an experiment file.
type Config struct {
	// Dataset is the directory scanned for input images
	Dataset string `yaml:"dataset"`

	Output struct {
		Dir        string `yaml:"dir"`
		SaveImages bool   `yaml:"saveImages"`
	} `yaml:"output"`

	Enhancement struct {
		// Denoise is none, gaussian, median or bilateral
		Denoise       string  `yaml:"denoise"`
		DenoiseKernel int     `yaml:"denoiseKernel"`
		Histogram     bool    `yaml:"histogram"`
		CLAHE         bool    `yaml:"clahe"`
		ClipLimit     float64 `yaml:"clipLimit"`
		TileSize      int     `yaml:"tileSize"`
	} `yaml:"enhancement"`

	Noise struct {
		// Seed drives every noise generator; image i uses Seed+i
		Seed       uint64    `yaml:"seed"`
		Gaussian   []float64 `yaml:"gaussian"`
		SaltPepper []float64 `yaml:"saltPepper"`
	} `yaml:"noise"`

	Edges struct {
		CannySigma float64 `yaml:"cannySigma"`
		LoGKernel  int     `yaml:"logKernel"`
	} `yaml:"edges"`

	// Workers bounds how many images are processed at once
	Workers int `yaml:"workers"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{}

	cfg.Dataset = "dataset"

	cfg.Output.Dir = "results"
	cfg.Output.SaveImages = false

	cfg.Enhancement.Denoise = string(filters.DenoiseNone)
	cfg.Enhancement.DenoiseKernel = filters.DefaultDenoiseKernelSize
	cfg.Enhancement.ClipLimit = 2.0
	cfg.Enhancement.TileSize = 8

	cfg.Noise.Seed = 1
	cfg.Noise.Gaussian = []float64{0.01, 0.05, 0.1}
	cfg.Noise.SaltPepper = []float64{0.01, 0.05, 0.1}

	cfg.Edges.CannySigma = 0.33
	cfg.Edges.LoGKernel = 5

	cfg.Workers = 1

	cfg.Log.Level = "info"
	cfg.Log.Format = "console"

	return cfg
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("%w: output.dir is empty", ErrInvalidConfig)
	}
	if _, err := filters.ParseDenoiseMethod(c.Enhancement.Denoise); err != nil {
		return fmt.Errorf("%w: enhancement.denoise: %v", ErrInvalidConfig, err)
	}
	if c.Enhancement.DenoiseKernel < 3 || c.Enhancement.DenoiseKernel%2 == 0 {
		return fmt.Errorf("%w: enhancement.denoiseKernel must be an odd number >= 3", ErrInvalidConfig)
	}
	if c.Enhancement.ClipLimit <= 0 {
		return fmt.Errorf("%w: enhancement.clipLimit must be positive", ErrInvalidConfig)
	}
	if c.Enhancement.TileSize <= 0 {
		return fmt.Errorf("%w: enhancement.tileSize must be positive", ErrInvalidConfig)
	}
	for _, v := range c.Noise.Gaussian {
		if v < 0 {
			return fmt.Errorf("%w: gaussian variance %v is negative", ErrInvalidConfig, v)
		}
	}
	for _, v := range c.Noise.SaltPepper {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: salt-and-pepper amount %v is outside [0,1]", ErrInvalidConfig, v)
		}
	}
	if c.Edges.CannySigma < 0 || c.Edges.CannySigma > 1 {
		return fmt.Errorf("%w: edges.cannySigma must be within [0,1]", ErrInvalidConfig)
	}
	if c.Edges.LoGKernel < 1 || c.Edges.LoGKernel%2 == 0 {
		return fmt.Errorf("%w: edges.logKernel must be a positive odd number", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
