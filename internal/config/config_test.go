package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/treedrift/internal/grove"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Variant != "drift" {
		t.Errorf("expected variant drift, got %s", cfg.Variant)
	}
	if cfg.BatchSize != 40 {
		t.Errorf("expected batch size 40, got %d", cfg.BatchSize)
	}
	if cfg.Immigration.Interval != 100 {
		t.Errorf("expected interval 100, got %d", cfg.Immigration.Interval)
	}
	if cfg.Competition.ResourceSplit != 50 || cfg.Competition.Poaching != 0.25 {
		t.Errorf("unexpected competition defaults %+v", cfg.Competition)
	}
	if cfg.Competition.MaxSteps != 500000 {
		t.Errorf("expected max steps 500000, got %d", cfg.Competition.MaxSteps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("immigration", "flood")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Immigration.Interval != 10 {
		t.Errorf("expected interval 10, got %d", cfg.Immigration.Interval)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("drift", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "small"); cfg != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("competition")
	if len(presets) != 3 || presets[0] != "even" {
		t.Errorf("unexpected competition presets %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestPresetsValidate(t *testing.T) {
	for variant, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", variant, name, err)
			}
		}
	}
}

func TestSpeciesSet(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected int
	}{
		{"drift default", Config{Variant: "drift"}, 10},
		{"drift explicit", Config{Variant: "drift", NumSpecies: 3}, 3},
		{"distancing default", Config{Variant: "distancing"}, 12},
		{"competition forced", Config{Variant: "competition", NumSpecies: 7}, 2},
		{"named list", Config{Variant: "drift", Species: []SpeciesConfig{{Name: "oak"}, {Name: "ash", Color: "#00ff00"}}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := tt.cfg.SpeciesSet()
			if set.Len() != tt.expected {
				t.Errorf("expected %d species, got %d", tt.expected, set.Len())
			}
			for _, sp := range set {
				if sp.Name == "" || sp.Color == "" {
					t.Errorf("species missing name or color: %+v", sp)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero side", func(c *Config) { c.Side = 0 }, grove.ErrGridSize},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, grove.ErrParameterBounds},
		{"bad interval", func(c *Config) { c.Variant = "immigration"; c.Immigration.Interval = 0 }, grove.ErrParameterBounds},
		{"bad split", func(c *Config) { c.Variant = "competition"; c.Competition.ResourceSplit = 101 }, grove.ErrParameterBounds},
		{"bad poaching", func(c *Config) { c.Variant = "competition"; c.Competition.Poaching = 1.5 }, grove.ErrParameterBounds},
		{"no retries", func(c *Config) { c.Variant = "competition"; c.Competition.MaxRetries = 0 }, grove.ErrParameterBounds},
		{"negative resource", func(c *Config) { c.Variant = "competition"; c.Competition.TotalResource = -1 }, grove.ErrParameterBounds},
		{"resource above limit", func(c *Config) {
			c.Variant = "competition"
			c.Side = 10
			c.Competition.TotalResource = 30
		}, grove.ErrPressureOutOfRange},
		{"three competitors", func(c *Config) {
			c.Variant = "competition"
			c.Species = []SpeciesConfig{{Name: "a"}, {Name: "b"}, {Name: "c"}}
		}, grove.ErrSpeciesCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Variant = "lottery"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Variant = "immigration"
	cfg.Immigration.Interval = 1000
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Variant != "immigration" || loaded.Immigration.Interval != 1000 || loaded.Seed != 42 {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
