// Package config provides configuration loading and management for
// object-measure. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = "object-measure.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// ModeLetters are the descriptor families a profile mode may select:
// c complete crop, f foreground, b background, m mask, p polygon form,
// x box size.
const ModeLetters = "cfbmpx"

// OutputFormats are the accepted descriptor table formats.
var OutputFormats = []string{"csv", "tsv", "txt"}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Workers is how many images are measured in parallel
		Workers int `yaml:"workers"`

		// Pad is the number of pixels added around every object crop
		Pad int `yaml:"pad"`

		// MinSize drops objects whose padded width or height is smaller
		MinSize int `yaml:"minSize"`

		// DropBorders drops objects whose box touches the image border
		DropBorders bool `yaml:"dropBorders"`

		// Mode selects descriptor families, see ModeLetters
		Mode string `yaml:"mode"`

		// ResampleForm resamples outlines to this many points before form
		// descriptors; 0 keeps the traced points
		ResampleForm int `yaml:"resampleForm"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Format of the descriptor table: csv, tsv or txt
		Format string `yaml:"format"`

		// Directory receives the descriptor table and ledgers
		Directory string `yaml:"directory"`
	} `yaml:"output"`

	// Logging parameters
	Logging struct {
		// Level is a logrus level name
		Level string `yaml:"level"`

		// Format forces "text" or "json"; empty picks by level
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.Workers = runtime.NumCPU()
	cfg.Processing.Pad = 1
	cfg.Processing.MinSize = 1
	cfg.Processing.DropBorders = false
	cfg.Processing.Mode = "cm"
	cfg.Processing.ResampleForm = 0

	cfg.Output.Format = "csv"
	cfg.Output.Directory = ""

	cfg.Logging.Level = "info"
	cfg.Logging.Format = ""

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// ValidateMode checks that mode is non-empty and uses only ModeLetters.
func ValidateMode(mode string) error {
	if mode == "" {
		return fmt.Errorf("%w: empty mode", ErrInvalidConfig)
	}
	for _, r := range mode {
		if !strings.ContainsRune(ModeLetters, r) {
			return fmt.Errorf("%w: mode %q contains %q, allowed letters are %q",
				ErrInvalidConfig, mode, r, ModeLetters)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Processing.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Processing.Workers)
	}
	if c.Processing.Pad < 0 {
		return fmt.Errorf("%w: pad must be >= 0, got %d", ErrInvalidConfig, c.Processing.Pad)
	}
	if c.Processing.MinSize < 1 {
		return fmt.Errorf("%w: minSize must be >= 1, got %d", ErrInvalidConfig, c.Processing.MinSize)
	}
	if c.Processing.ResampleForm < 0 || c.Processing.ResampleForm == 1 || c.Processing.ResampleForm == 2 {
		return fmt.Errorf("%w: resampleForm must be 0 or >= 3, got %d", ErrInvalidConfig, c.Processing.ResampleForm)
	}
	if err := ValidateMode(c.Processing.Mode); err != nil {
		return err
	}

	known := false
	for _, f := range OutputFormats {
		known = known || f == c.Output.Format
	}
	if !known {
		return fmt.Errorf("%w: output format %q, want one of %v", ErrInvalidConfig, c.Output.Format, OutputFormats)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
