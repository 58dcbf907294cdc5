// Package config loads the YAML configuration that drives database
// selection and DSP tunables, in the configs.LoadConfig idiom.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level document read from configs/config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	DSP      DSPConfig      `yaml:"dsp"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects and dials the Index Store driver.
type DatabaseConfig struct {
	// Driver is one of "sqlite", "mysql", "postgres".
	Driver string `yaml:"driver"`
	// DSN is the driver-specific connection string. For sqlite this is
	// a file path.
	DSN string `yaml:"dsn"`
}

// DSPConfig mirrors the reference design's compile-time tunables so
// deployments can override them, defaulting to the reference values
// when unset.
type DSPConfig struct {
	FFTSize          int `yaml:"fft_size"`
	HopSize          int `yaml:"hop_size"`
	NeighborhoodSize int `yaml:"neighborhood_size"`
	FanOut           int `yaml:"fan_out"`
	ZoneMin          int `yaml:"zone_min"`
	ZoneMax          int `yaml:"zone_max"`
	MinMatches       int `yaml:"min_matches"`
}

// LogConfig controls the verbosity of internal/logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the reference design's tunables with the sqlite
// driver pointed at the CLI's default database file.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "fingerprints.db"},
		DSP: DSPConfig{
			FFTSize:          4096,
			HopSize:          2048,
			NeighborhoodSize: 20,
			FanOut:           15,
			ZoneMin:          1,
			ZoneMax:          200,
			MinMatches:       5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and parses the YAML file at path, filling any field left
// zero with the matching Default() value. A missing file is not an
// error: it resolves to Default() so the CLI works with zero setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	mergeDefaults(&loaded, cfg)
	return &loaded, nil
}

// mergeDefaults fills zero-valued fields of loaded with the
// corresponding field from defaults, so a config file only needs to
// override what it cares about.
func mergeDefaults(loaded *Config, defaults Config) {
	if loaded.Database.Driver == "" {
		loaded.Database.Driver = defaults.Database.Driver
	}
	if loaded.Database.DSN == "" {
		loaded.Database.DSN = defaults.Database.DSN
	}
	if loaded.DSP.FFTSize == 0 {
		loaded.DSP.FFTSize = defaults.DSP.FFTSize
	}
	if loaded.DSP.HopSize == 0 {
		loaded.DSP.HopSize = defaults.DSP.HopSize
	}
	if loaded.DSP.NeighborhoodSize == 0 {
		loaded.DSP.NeighborhoodSize = defaults.DSP.NeighborhoodSize
	}
	if loaded.DSP.FanOut == 0 {
		loaded.DSP.FanOut = defaults.DSP.FanOut
	}
	if loaded.DSP.ZoneMin == 0 {
		loaded.DSP.ZoneMin = defaults.DSP.ZoneMin
	}
	if loaded.DSP.ZoneMax == 0 {
		loaded.DSP.ZoneMax = defaults.DSP.ZoneMax
	}
	if loaded.DSP.MinMatches == 0 {
		loaded.DSP.MinMatches = defaults.DSP.MinMatches
	}
	if loaded.Log.Level == "" {
		loaded.Log.Level = defaults.Log.Level
	}
}
