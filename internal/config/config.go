package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/treedrift/internal/grove"
)

// ErrUnknownVariant indicates a variant name with no registered rule.
var ErrUnknownVariant = errors.New("config: unknown variant")

const (
	DefaultVariant     = "drift"
	DefaultSide        = 20
	DefaultSpecies     = 10
	DefaultBatchSize   = 40
	DefaultSampleEvery = 0
)

type Config struct {
	Variant     string            `yaml:"variant"`
	Side        int               `yaml:"side"`
	NumSpecies  int               `yaml:"num_species"`
	Species     []SpeciesConfig   `yaml:"species,omitempty"`
	BatchSize   int               `yaml:"batch_size"`
	Seed        int64             `yaml:"seed"`
	SampleEvery int               `yaml:"sample_every"`
	Immigration ImmigrationConfig `yaml:"immigration"`
	Competition CompetitionConfig `yaml:"competition"`
}

type SpeciesConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type ImmigrationConfig struct {
	Interval int `yaml:"interval"`
}

type CompetitionConfig struct {
	ResourceSplit float64 `yaml:"resource_split"`
	Poaching      float64 `yaml:"poaching"`
	TotalResource float64 `yaml:"total_resource"`
	MaxSteps      int     `yaml:"max_steps"`
	MaxRetries    int     `yaml:"max_retries"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:     DefaultVariant,
		Side:        DefaultSide,
		NumSpecies:  DefaultSpecies,
		BatchSize:   DefaultBatchSize,
		SampleEvery: DefaultSampleEvery,
		Immigration: ImmigrationConfig{
			Interval: grove.DefaultImmigrationInterval,
		},
		Competition: CompetitionConfig{
			ResourceSplit: grove.DefaultResourceSplit,
			Poaching:      grove.DefaultPoaching,
			MaxSteps:      grove.DefaultMaxSteps,
			MaxRetries:    grove.DefaultMaxRetries,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[config.Load] failed to read file: %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "[config.Load] failed to unmarshal: %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "[config.Save] failed to marshal")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "[config.Save] failed to write file: %s", path)
	}
	return nil
}

// SpeciesSet returns the configured species, falling back to the default
// palette when no explicit list is given.
func (c *Config) SpeciesSet() grove.SpeciesSet {
	if len(c.Species) == 0 {
		return grove.Palette(c.speciesCount())
	}
	set := make(grove.SpeciesSet, len(c.Species))
	palette := grove.Palette(len(c.Species))
	for i, sp := range c.Species {
		set[i] = grove.Species{Name: sp.Name, Color: sp.Color}
		if set[i].Name == "" {
			set[i].Name = palette[i].Name
		}
		if set[i].Color == "" {
			set[i].Color = palette[i].Color
		}
	}
	return set
}

// speciesCount applies the variant's own default when NumSpecies is unset;
// competition always has two.
func (c *Config) speciesCount() int {
	if c.Variant == "competition" {
		return 2
	}
	if c.NumSpecies > 0 {
		return c.NumSpecies
	}
	if c.Variant == "distancing" {
		return 12
	}
	return DefaultSpecies
}

// Validate reports configuration problems before any world is built.
func (c *Config) Validate() error {
	switch c.Variant {
	case "drift", "immigration", "competition", "distancing":
	default:
		return errors.Wrapf(ErrUnknownVariant, "%q", c.Variant)
	}
	if c.Side <= 0 {
		return &grove.ConfigError{Field: "side", Value: c.Side, Wrapped: grove.ErrGridSize}
	}
	if c.BatchSize <= 0 {
		return &grove.ConfigError{Field: "batch_size", Value: c.BatchSize, Wrapped: grove.ErrParameterBounds}
	}
	if c.SampleEvery < 0 {
		return &grove.ConfigError{Field: "sample_every", Value: c.SampleEvery, Wrapped: grove.ErrParameterBounds}
	}
	if len(c.Species) == 0 && c.NumSpecies < 0 {
		return &grove.ConfigError{Field: "num_species", Value: c.NumSpecies, Wrapped: grove.ErrNoSpecies}
	}
	switch c.Variant {
	case "immigration":
		if c.Immigration.Interval <= 0 {
			return &grove.ConfigError{Field: "immigration.interval", Value: c.Immigration.Interval, Wrapped: grove.ErrParameterBounds}
		}
	case "competition":
		if n := c.SpeciesSet().Len(); n != 2 {
			return &grove.ConfigError{Field: "species", Value: n, Wrapped: grove.ErrSpeciesCount}
		}
		if err := grove.ValidateSplit(c.Competition.ResourceSplit); err != nil {
			return err
		}
		if p := c.Competition.Poaching; p <= 0 || p > 1 {
			return &grove.ConfigError{Field: "competition.poaching", Value: p, Wrapped: grove.ErrParameterBounds}
		}
		if c.Competition.MaxSteps < 0 {
			return &grove.ConfigError{Field: "competition.max_steps", Value: c.Competition.MaxSteps, Wrapped: grove.ErrParameterBounds}
		}
		if c.Competition.MaxRetries <= 0 {
			return &grove.ConfigError{Field: "competition.max_retries", Value: c.Competition.MaxRetries, Wrapped: grove.ErrParameterBounds}
		}
		if err := grove.ValidateResource(c.Competition.Poaching, c.Competition.TotalResource, c.Side*c.Side); err != nil {
			return err
		}
	}
	return nil
}
