package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the image fetcher
type Config struct {
	// Artifact store settings
	Store StoreConfig `yaml:"store" json:"store"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Thumbnail generation settings
	Thumbs ThumbsConfig `yaml:"thumbs" json:"thumbs"`

	// Post-fetch pacing settings
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// StoreConfig holds artifact store configuration
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// DownloadConfig holds network and batch configuration
type DownloadConfig struct {
	Timeout time.Duration     `yaml:"timeout" json:"timeout"`
	Workers int               `yaml:"workers" json:"workers"`
	Force   bool              `yaml:"force" json:"force"`
	Proxies []string          `yaml:"proxies" json:"proxies"`
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Size is a thumbnail bounding box in pixels
type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// ThumbsConfig holds thumbnail configuration. Sizes is ignored entirely
// when Enabled is false.
type ThumbsConfig struct {
	Enabled bool            `yaml:"enabled" json:"enabled"`
	Sizes   map[string]Size `yaml:"sizes" json:"sizes"`
}

// PacingConfig bounds the randomized wait applied after a real download
type PacingConfig struct {
	MinWait time.Duration `yaml:"min_wait" json:"min_wait"`
	MaxWait time.Duration `yaml:"max_wait" json:"max_wait"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "./images",
		},
		Download: DownloadConfig{
			Timeout: 10 * time.Second,
			Workers: 4,
			Force:   false,
			Headers: map[string]string{
				"User-Agent": "imgfetch/1.0",
			},
		},
		Thumbs: ThumbsConfig{
			Enabled: false,
			Sizes:   map[string]Size{},
		},
		Pacing: PacingConfig{
			MinWait: 0,
			MaxWait: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// ActiveThumbs returns the thumbnail specs that are actually in effect:
// the configured sizes when thumbnails are enabled, nothing otherwise.
func (c *Config) ActiveThumbs() map[string]Size {
	if !c.Thumbs.Enabled {
		return nil
	}
	return c.Thumbs.Sizes
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("IMGFETCH_STORE_PATH"); path != "" {
		c.Store.Path = path
	}
	if timeout := os.Getenv("IMGFETCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid IMGFETCH_TIMEOUT: %w", err)
		}
		c.Download.Timeout = d
	}
	if workers := os.Getenv("IMGFETCH_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid IMGFETCH_WORKERS: %w", err)
		}
		c.Download.Workers = n
	}
	if force := os.Getenv("IMGFETCH_FORCE"); force != "" {
		c.Download.Force = strings.ToLower(force) == "true"
	}
	if proxies := os.Getenv("IMGFETCH_PROXIES"); proxies != "" {
		c.Download.Proxies = strings.Split(proxies, ",")
	}
	if minWait := os.Getenv("IMGFETCH_MIN_WAIT"); minWait != "" {
		d, err := time.ParseDuration(minWait)
		if err != nil {
			return fmt.Errorf("invalid IMGFETCH_MIN_WAIT: %w", err)
		}
		c.Pacing.MinWait = d
	}
	if maxWait := os.Getenv("IMGFETCH_MAX_WAIT"); maxWait != "" {
		d, err := time.ParseDuration(maxWait)
		if err != nil {
			return fmt.Errorf("invalid IMGFETCH_MAX_WAIT: %w", err)
		}
		c.Pacing.MaxWait = d
	}
	if logLevel := os.Getenv("IMGFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".imgfetch.yaml",
		".imgfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "imgfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "imgfetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".imgfetch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Store.Path == "" {
		errs = append(errs, errors.New("store path is required"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.Workers <= 0 {
		errs = append(errs, errors.New("worker count must be positive"))
	}
	for _, proxy := range c.Download.Proxies {
		u, err := url.Parse(strings.TrimSpace(proxy))
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid proxy URL: %q", proxy))
		}
	}

	if c.Pacing.MinWait < 0 {
		errs = append(errs, errors.New("min wait cannot be negative"))
	}
	if c.Pacing.MaxWait < c.Pacing.MinWait {
		errs = append(errs, errors.New("max wait cannot be less than min wait"))
	}

	if c.Thumbs.Enabled {
		if len(c.Thumbs.Sizes) == 0 {
			errs = append(errs, errors.New("thumbnails enabled but no sizes configured"))
		}
		for id, size := range c.Thumbs.Sizes {
			if id == "" {
				errs = append(errs, errors.New("thumbnail id cannot be empty"))
			}
			if size.Width <= 0 || size.Height <= 0 {
				errs = append(errs, fmt.Errorf("thumbnail %q dimensions must be positive", id))
			}
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".imgfetch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
