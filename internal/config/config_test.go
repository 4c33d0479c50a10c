package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	ttl, err := cfg.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	interval, err := cfg.GetRateInterval()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, interval)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Calculator.Format = "commander"
	cfg.Calculator.Algorithm = "hypergeo"
	cfg.Calculator.Turn = 4
	cfg.Server.Port = 9191
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[calculator]\nformat = \"limited\"\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "limited", cfg.Calculator.Format)
	assert.Equal(t, 3, cfg.Calculator.Turn)
	assert.Equal(t, "24h", cfg.Cache.TTL)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("MTG_FORMAT", "modern")
	t.Setenv("MTG_CONFIDENCE", "0.95")
	t.Setenv("MTG_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("MTG_CACHE_ENABLED", "false")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[calculator]\nformat = \"limited\"\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "modern", cfg.Calculator.Format)
	assert.InDelta(t, 0.95, cfg.Calculator.Confidence, 1e-12)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[calculator\n"), 0o644))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Calculator.Format = "pauper" }},
		{"unknown algorithm", func(c *Config) { c.Calculator.Algorithm = "magic" }},
		{"bad confidence", func(c *Config) { c.Calculator.Confidence = 1.5 }},
		{"bad turn", func(c *Config) { c.Calculator.Turn = 0 }},
		{"bad url", func(c *Config) { c.Scryfall.BaseURL = "not a url" }},
		{"bad fallback url", func(c *Config) { c.Fallback.BaseURL = "mtgio" }},
		{"bad interval", func(c *Config) { c.Scryfall.RateInterval = "fast" }},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCachePath_Explicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Path = "/tmp/cards.db"
	path, err := cfg.CachePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cards.db", path)
}
