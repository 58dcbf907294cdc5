package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
}

func TestLoadPartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: postgres\n  dsn: \"postgres://x\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "postgres://x", cfg.Database.DSN)

	defaults := Default()
	require.Equal(t, defaults.DSP, cfg.DSP)
	require.Equal(t, defaults.Log, cfg.Log)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [this is not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultMatchesReferenceTunables(t *testing.T) {
	d := Default()
	require.Equal(t, 4096, d.DSP.FFTSize)
	require.Equal(t, 2048, d.DSP.HopSize)
	require.Equal(t, 20, d.DSP.NeighborhoodSize)
	require.Equal(t, 15, d.DSP.FanOut)
	require.Equal(t, 1, d.DSP.ZoneMin)
	require.Equal(t, 200, d.DSP.ZoneMax)
	require.Equal(t, 5, d.DSP.MinMatches)
}
