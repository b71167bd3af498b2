// Package config loads nasa-wallpaper settings from an optional YAML file,
// the environment, and command line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/nasa"
	"gopkg.in/yaml.v3"
)

const (
	// DemoAPIKey is NASA's shared, rate limited key.
	DemoAPIKey = "DEMO_KEY"

	EnvAPIKey      = "NASA_API_KEY"
	EnvTimeout     = "NASA_WALLPAPER_TIMEOUT"
	EnvOutputDir   = "NASA_WALLPAPER_OUTPUT_DIR"
	EnvMaxDownload = "NASA_WALLPAPER_MAX_DOWNLOAD"

	appDir   = "nasa-wallpaper"
	fileName = "config.yaml"
)

// Config represents the application configuration.
type Config struct {
	APIKey      string `yaml:"api_key"`
	Timeout     string `yaml:"timeout"`
	APODURL     string `yaml:"apod_url"`
	SearchURL   string `yaml:"search_url"`
	OutputDir   string `yaml:"output_dir"`
	MaxDownload string `yaml:"max_download"`
	JPEGQuality int    `yaml:"jpeg_quality"`

	timeoutVal     time.Duration
	maxDownloadVal int64
}

// DefaultPath returns the config file location under the user config directory,
// or "" when that directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, fileName)
}

// Load reads the YAML file at path. A missing file yields an empty Config
// unless required is set.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// TimeoutDuration returns the parsed request timeout. Valid after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// MaxDownloadBytes returns the parsed download cap. Valid after Finalize.
func (c *Config) MaxDownloadBytes() int64 {
	return c.maxDownloadVal
}

// Finalize loads environment overrides, applies flags (which win over the
// environment and may be nil), fills defaults, and validates the configuration.
func (c *Config) Finalize(flags *Config) error {
	c.loadEnv()
	if flags != nil {
		c.Merge(flags)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge applies values from overlay that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.APODURL != "" {
		c.APODURL = overlay.APODURL
	}
	if overlay.SearchURL != "" {
		c.SearchURL = overlay.SearchURL
	}
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.MaxDownload != "" {
		c.MaxDownload = overlay.MaxDownload
	}
	if overlay.JPEGQuality != 0 {
		c.JPEGQuality = overlay.JPEGQuality
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvMaxDownload); v != "" {
		c.MaxDownload = v
	}
}

func (c *Config) loadDefaults() {
	if c.APIKey == "" {
		c.APIKey = DemoAPIKey
	}
	if c.Timeout == "" {
		c.Timeout = nasa.DefaultTimeout.String()
	}
	if c.APODURL == "" {
		c.APODURL = nasa.DefaultAPODURL
	}
	if c.SearchURL == "" {
		c.SearchURL = nasa.DefaultSearchURL
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(os.TempDir(), appDir)
	}
	if c.MaxDownload == "" {
		c.MaxDownload = "64MiB"
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 90
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	c.timeoutVal = d

	size, err := units.RAMInBytes(c.MaxDownload)
	if err != nil {
		return fmt.Errorf("invalid max_download: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_download must be positive")
	}
	c.maxDownloadVal = size

	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}
	return nil
}
