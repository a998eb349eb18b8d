package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of a watch run.
type Config struct {
	// URL is the page to open
	URL string `yaml:"url" json:"url"`

	// Browser settings
	Headless bool           `yaml:"headless" json:"headless"`
	Timeout  time.Duration  `yaml:"timeout" json:"timeout"`
	Viewport ViewportConfig `yaml:"viewport" json:"viewport"`

	// Polling
	Interval time.Duration `yaml:"interval" json:"interval"`
	Duration time.Duration `yaml:"duration" json:"duration"`

	// ExtensionDir loads JSErrorCollector.xpi from a directory instead of
	// the embedded copy
	ExtensionDir string `yaml:"extension_dir" json:"extension_dir"`

	// TempDir overrides where the embedded archive is extracted
	TempDir string `yaml:"temp_dir" json:"temp_dir"`

	// FailOnErrors makes the run exit non-zero when any error was collected
	FailOnErrors bool `yaml:"fail_on_errors" json:"fail_on_errors"`

	// Format of the console output: text or json
	Format OutputFormat `yaml:"format" json:"format"`

	Ignore    IgnoreConfig   `yaml:"ignore" json:"ignore"`
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`
}

// OutputFormat selects how collected errors are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ViewportConfig sets the browser window size.
type ViewportConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// IgnoreConfig lists glob patterns for errors that are not reported.
type IgnoreConfig struct {
	Sources  []string `yaml:"sources" json:"sources"`
	Messages []string `yaml:"messages" json:"messages"`
}

// ArtifactConfig defines the report files written after a run.
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Headless: true,
		Timeout:  30 * time.Second,
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
		},
		Interval:     time.Second,
		Duration:     10 * time.Second,
		FailOnErrors: true,
		Format:       FormatText,
		Artifacts: ArtifactConfig{
			Enabled:   false,
			OutputDir: ".jserrors/artifacts",
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}

	if c.Format == "" {
		c.Format = FormatText
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", c.Format)
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts.output_dir is required when artifacts are enabled")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}
