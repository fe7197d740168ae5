package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// The file now exists with owner-only permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:9090"
	cfg.Timezone = "Asia/Kolkata"
	cfg.Store.Backend = "sqlite"
	cfg.RotateSeconds = 8
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	def := DefaultConfig()
	assert.Equal(t, def, cfg)
}

func TestNormalizeRejectsUnknownModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = "postgres"
	cfg.Source.Mode = "carrier-pigeon"
	cfg.Normalize()

	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "store", cfg.Source.Mode)
}

func TestNormalizeHTTPSourceNeedsURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Mode = "http"
	cfg.Normalize()
	assert.Equal(t, "store", cfg.Source.Mode, "http mode without a URL falls back to the store")

	cfg = DefaultConfig()
	cfg.Source.Mode = "http"
	cfg.Source.URL = "http://example.org/api/pujas"
	cfg.Normalize()
	assert.Equal(t, "http", cfg.Source.Mode)
}
