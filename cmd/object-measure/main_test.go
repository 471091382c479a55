package main

import (
	"testing"

	"github.com/ironsheep/object-measure/internal/config"
	"github.com/ironsheep/object-measure/internal/profile"
)

func applyArgs(t *testing.T, kind profile.Segments, cfg *config.Config, args ...string) *config.Config {
	t.Helper()
	fs, pf := newProfileFlags(kind)
	if err := pf.parse(fs, append(args, "images")); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	if fs.Arg(0) != "images" {
		t.Fatalf("image directory = %q", fs.Arg(0))
	}
	pf.apply(cfg, kind)
	return cfg
}

func TestProfileFlags_BoxesMode(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		args       []string
		want       string
	}{
		{"default config mode", "cm", nil, "c"},
		{"box size only", "x", nil, "x"},
		{"complete and box size", "cx", nil, "cx"},
		{"mixed letters", "cxm", nil, "cx"},
		{"flag wins", "cx", []string{"--mode", "x"}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Processing.Mode = tt.configured
			applyArgs(t, profile.Boxes, cfg, tt.args...)
			if cfg.Processing.Mode != tt.want {
				t.Errorf("mode = %q, want %q", cfg.Processing.Mode, tt.want)
			}
		})
	}
}

func TestProfileFlags_MaskModeUnchanged(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Processing.Mode = "cfbm"
	applyArgs(t, profile.Masks, cfg)
	if cfg.Processing.Mode != "cfbm" {
		t.Errorf("mode = %q, want cfbm", cfg.Processing.Mode)
	}
}

func TestProfileFlags_DropBorders(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		args       []string
		want       bool
	}{
		{"config kept", true, nil, true},
		{"flag sets", false, []string{"--drop-borders"}, true},
		{"flag clears", true, []string{"--drop-borders=false"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Processing.DropBorders = tt.configured
			applyArgs(t, profile.Masks, cfg, tt.args...)
			if cfg.Processing.DropBorders != tt.want {
				t.Errorf("DropBorders = %v, want %v", cfg.Processing.DropBorders, tt.want)
			}
		})
	}
}

func TestProfileFlags_Overrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Processing.Pad = 3
	cfg.Processing.Workers = 8

	applyArgs(t, profile.Polygons, cfg,
		"--pad", "0", "--min-size", "4", "--output", "out", "--format", "tsv", "--resample", "32")

	if cfg.Processing.Pad != 0 {
		t.Errorf("Pad = %d, want an explicit 0", cfg.Processing.Pad)
	}
	if cfg.Processing.Workers != 8 {
		t.Errorf("Workers = %d, want the configured 8", cfg.Processing.Workers)
	}
	if cfg.Processing.MinSize != 4 || cfg.Processing.ResampleForm != 32 {
		t.Errorf("MinSize %d ResampleForm %d", cfg.Processing.MinSize, cfg.Processing.ResampleForm)
	}
	if cfg.Output.Directory != "out" || cfg.Output.Format != "tsv" {
		t.Errorf("output %q format %q", cfg.Output.Directory, cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
