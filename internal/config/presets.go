package config

import "sort"

var Presets = map[string]map[string]*Config{
	"drift": {
		"small": {
			Variant: "drift", Side: 10, NumSpecies: 4, BatchSize: 40,
		},
		"forest": {
			Variant: "drift", Side: 20, NumSpecies: 10, BatchSize: 40,
		},
		"large": {
			Variant: "drift", Side: 40, NumSpecies: 12, BatchSize: 400,
		},
	},
	"immigration": {
		"trickle": {
			Variant: "immigration", Side: 20, NumSpecies: 10, BatchSize: 40,
			Immigration: ImmigrationConfig{Interval: 1000},
		},
		"steady": {
			Variant: "immigration", Side: 20, NumSpecies: 10, BatchSize: 40,
			Immigration: ImmigrationConfig{Interval: 100},
		},
		"flood": {
			Variant: "immigration", Side: 20, NumSpecies: 10, BatchSize: 40,
			Immigration: ImmigrationConfig{Interval: 10},
		},
	},
	"competition": {
		"even": {
			Variant: "competition", Side: 20, BatchSize: 40,
			Competition: CompetitionConfig{ResourceSplit: 50, Poaching: 0.25, MaxSteps: 500000, MaxRetries: 100000},
		},
		"lopsided": {
			Variant: "competition", Side: 20, BatchSize: 40,
			Competition: CompetitionConfig{ResourceSplit: 70, Poaching: 0.25, MaxSteps: 500000, MaxRetries: 100000},
		},
		"neutral": {
			Variant: "competition", Side: 10, BatchSize: 40,
			Competition: CompetitionConfig{ResourceSplit: 50, Poaching: 1, MaxSteps: 500000, MaxRetries: 100000},
		},
	},
	"distancing": {
		"twelve": {
			Variant: "distancing", Side: 20, NumSpecies: 12, BatchSize: 40,
		},
		"crowded": {
			Variant: "distancing", Side: 20, NumSpecies: 9, BatchSize: 40,
		},
	},
}

func GetPreset(variant, preset string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
