// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds all faceoff configuration.
type Config struct {
	API     API     `yaml:"api"`
	Cache   Cache   `yaml:"cache"`
	Refresh Refresh `yaml:"refresh"`
	Log     Log     `yaml:"log"`
}

// API holds feed connection settings.
type API struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Cache holds response cache settings.
type Cache struct {
	TTL time.Duration `yaml:"ttl"` // Lifetime for endpoints without a live TTL
}

// Refresh holds auto-refresh settings.
type Refresh struct {
	Interval int `yaml:"interval"` // Seconds between automatic refreshes
}

// Log holds diagnostic log settings.
type Log struct {
	Level string `yaml:"level"` // zerolog level name, or "disabled"
	File  string `yaml:"file"`  // Empty means <user cache dir>/faceoff/faceoff.log
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:   "https://api-web.nhle.com/v1",
			Timeout:   30 * time.Second,
			UserAgent: "Faceoff/1.0",
		},
		Cache: Cache{
			TTL: 30 * time.Second,
		},
		Refresh: Refresh{
			Interval: 30,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// RefreshInterval returns the refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.Interval) * time.Second
}

// Paths returns the config files consulted by LoadLayered, lowest priority
// first: the user config, the working-directory config, then explicit (if
// set).
func Paths(explicit string) []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "faceoff", "config.yaml"))
	}
	paths = append(paths, ".faceoff.yaml")
	if explicit != "" {
		paths = append(paths, explicit)
	}
	return paths
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Refresh.Interval < 1 {
		return fmt.Errorf("config: refresh.interval must be at least 1 second, got %d", c.Refresh.Interval)
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log.level %q: %w", c.Log.Level, err)
		}
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: FACEOFF_BASE_URL, FACEOFF_TIMEOUT, FACEOFF_LOG_LEVEL,
// FACEOFF_LOG_FILE, FACEOFF_REFRESH_INTERVAL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FACEOFF_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FACEOFF_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid FACEOFF_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("FACEOFF_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FACEOFF_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("FACEOFF_REFRESH_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid FACEOFF_REFRESH_INTERVAL %q: %w", v, err)
		}
		c.Refresh.Interval = n
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API     *rawAPI     `yaml:"api"`
	Cache   *rawCache   `yaml:"cache"`
	Refresh *rawRefresh `yaml:"refresh"`
	Log     *rawLog     `yaml:"log"`
}

type rawAPI struct {
	BaseURL   *string        `yaml:"base_url"`
	Timeout   *time.Duration `yaml:"timeout"`
	UserAgent *string        `yaml:"user_agent"`
}

type rawCache struct {
	TTL *time.Duration `yaml:"ttl"`
}

type rawRefresh struct {
	Interval *int `yaml:"interval"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
		if layer.API.UserAgent != nil {
			c.API.UserAgent = *layer.API.UserAgent
		}
	}
	if layer.Cache != nil && layer.Cache.TTL != nil {
		c.Cache.TTL = *layer.Cache.TTL
	}
	if layer.Refresh != nil && layer.Refresh.Interval != nil {
		c.Refresh.Interval = *layer.Refresh.Interval
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
