package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Processing.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Processing.Workers, runtime.NumCPU())
	}
	if cfg.Processing.Pad != 1 || cfg.Processing.MinSize != 1 || cfg.Processing.Mode != "cm" {
		t.Errorf("processing defaults = %+v", cfg.Processing)
	}
	if cfg.Output.Format != "csv" || cfg.Logging.Level != "info" {
		t.Errorf("output/logging defaults = %+v %+v", cfg.Output, cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Processing.Mode != "cm" {
		t.Errorf("missing file should yield defaults, got %+v", cfg.Processing)
	}
}

func TestLoadConfig_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	data := "processing:\n  pad: 4\n  mode: pfb\noutput:\n  format: tsv\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Processing.Pad != 4 || cfg.Processing.Mode != "pfb" || cfg.Output.Format != "tsv" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Processing, cfg.Output)
	}
	if cfg.Processing.MinSize != 1 {
		t.Errorf("unset field lost its default: MinSize = %d", cfg.Processing.MinSize)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("processing: [unclosed"), 0644)
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Processing.DropBorders = true
	cfg.Logging.Format = "json"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"workers", func(c *Config) { c.Processing.Workers = 0 }},
		{"pad", func(c *Config) { c.Processing.Pad = -1 }},
		{"minSize", func(c *Config) { c.Processing.MinSize = 0 }},
		{"resample", func(c *Config) { c.Processing.ResampleForm = 2 }},
		{"mode letter", func(c *Config) { c.Processing.Mode = "cz" }},
		{"empty mode", func(c *Config) { c.Processing.Mode = "" }},
		{"format", func(c *Config) { c.Output.Format = "parquet" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{"c", "cfbmpx", "pm"} {
		if err := ValidateMode(mode); err != nil {
			t.Errorf("ValidateMode(%q) = %v", mode, err)
		}
	}
}
