package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
)

// Config represents the application configuration.
type Config struct {
	// Calculation defaults
	Calculator CalculatorConfig `toml:"calculator"`

	// Scryfall API client
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Secondary card source
	Fallback FallbackConfig `toml:"fallback"`

	// Card cache
	Cache CacheConfig `toml:"cache"`

	// REST API server
	Server ServerConfig `toml:"server"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// CalculatorConfig contains mana base calculation defaults.
type CalculatorConfig struct {
	Format     string  `toml:"format"      env:"MTG_FORMAT"`      // Default format (e.g., "standard")
	Algorithm  string  `toml:"algorithm"   env:"MTG_ALGORITHM"`   // simple, cmc or hypergeo
	Turn       int     `toml:"turn"        env:"MTG_TURN"`        // Hypergeometric reference turn
	Confidence float64 `toml:"confidence"  env:"MTG_CONFIDENCE"`  // Hypergeometric confidence
	HandSize   int     `toml:"hand_size"   env:"MTG_HAND_SIZE"`   // Opening hand size
	OnThePlay  bool    `toml:"on_the_play" env:"MTG_ON_THE_PLAY"` // Skip the first draw
}

// ScryfallConfig contains card API settings.
type ScryfallConfig struct {
	BaseURL      string `toml:"base_url"      env:"MTG_SCRYFALL_URL"`           // API root
	RateInterval string `toml:"rate_interval" env:"MTG_SCRYFALL_RATE_INTERVAL"` // Minimum gap between requests (e.g., "100ms")
	Timeout      string `toml:"timeout"       env:"MTG_SCRYFALL_TIMEOUT"`       // Per-request timeout
	UserAgent    string `toml:"user_agent"    env:"MTG_SCRYFALL_USER_AGENT"`
}

// FallbackConfig names the magicthegathering.io source asked when Scryfall fails.
type FallbackConfig struct {
	Enabled bool   `toml:"enabled"  env:"MTG_FALLBACK_ENABLED"`
	BaseURL string `toml:"base_url" env:"MTG_FALLBACK_URL"`
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled" env:"MTG_CACHE_ENABLED"` // Enable caching
	Path    string `toml:"path"    env:"MTG_CACHE_PATH"`    // SQLite file; empty uses the config directory
	TTL     string `toml:"ttl"     env:"MTG_CACHE_TTL"`     // Cache TTL (e.g., "24h")
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port           int      `toml:"port"            env:"MTG_PORT"`
	AllowedOrigins []string `toml:"allowed_origins" env:"MTG_ALLOWED_ORIGINS" envSeparator:","`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode" env:"MTG_DEBUG"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Calculator: CalculatorConfig{
			Format:     "standard",
			Algorithm:  "simple",
			Turn:       manabase.DefaultTurn,
			Confidence: manabase.DefaultConfidence,
			HandSize:   manabase.DefaultHandSize,
			OnThePlay:  false,
		},
		Scryfall: ScryfallConfig{
			BaseURL:      "https://api.scryfall.com",
			RateInterval: "100ms",
			Timeout:      "30s",
			UserAgent:    "mtg-manabase/1.0",
		},
		Fallback: FallbackConfig{
			Enabled: true,
			BaseURL: "https://api.magicthegathering.io/v1",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "",
			TTL:     "24h",
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".mtg-manabase")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default location and applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path, then applies MTG_* environment
// overrides. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := manabase.ResolveFormat(c.Calculator.Format); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}

	if _, err := manabase.ParseAlgorithm(c.Calculator.Algorithm); err != nil {
		return fmt.Errorf("invalid default algorithm: %w", err)
	}

	if err := c.Hypergeometric().Validate(); err != nil {
		return err
	}

	if u, err := url.Parse(c.Scryfall.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid scryfall base URL %q", c.Scryfall.BaseURL)
	}

	if c.Fallback.Enabled {
		if u, err := url.Parse(c.Fallback.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid fallback base URL %q", c.Fallback.BaseURL)
		}
	}

	if _, err := time.ParseDuration(c.Scryfall.RateInterval); err != nil {
		return fmt.Errorf("invalid rate interval %q: %w", c.Scryfall.RateInterval, err)
	}

	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}

	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}

	return nil
}

// Hypergeometric returns the calculator's probability settings.
func (c *Config) Hypergeometric() manabase.HypergeometricConfig {
	return manabase.HypergeometricConfig{
		Turn:       c.Calculator.Turn,
		Confidence: c.Calculator.Confidence,
		HandSize:   c.Calculator.HandSize,
		OnThePlay:  c.Calculator.OnThePlay,
	}
}

// GetRateInterval returns the Scryfall request interval as a duration.
func (c *Config) GetRateInterval() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RateInterval)
}

// GetScryfallTimeout returns the Scryfall request timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// CachePath returns the SQLite cache file, defaulting to the config directory.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cards.db"), nil
}
