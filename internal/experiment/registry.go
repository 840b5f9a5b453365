package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/metrics"
)

type Registry struct {
	rules map[string]func(*config.Config) grove.Rule
}

func NewRegistry() *Registry {
	r := &Registry{
		rules: make(map[string]func(*config.Config) grove.Rule),
	}

	r.rules["drift"] = func(*config.Config) grove.Rule { return grove.NewDrift() }
	r.rules["immigration"] = func(cfg *config.Config) grove.Rule {
		return grove.NewImmigration(cfg.Immigration.Interval)
	}
	r.rules["competition"] = func(cfg *config.Config) grove.Rule {
		return &grove.Competition{
			Split:      cfg.Competition.ResourceSplit,
			Poaching:   cfg.Competition.Poaching,
			Resource:   cfg.Competition.TotalResource,
			MaxRetries: cfg.Competition.MaxRetries,
		}
	}
	r.rules["distancing"] = func(*config.Config) grove.Rule { return grove.NewExclusion() }

	return r
}

func (r *Registry) GetRule(cfg *config.Config) (grove.Rule, error) {
	fn, ok := r.rules[cfg.Variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownVariant, cfg.Variant)
	}
	return fn(cfg), nil
}

// NewWorld validates cfg and builds a freshly labeled world from seed.
func (r *Registry) NewWorld(cfg *config.Config, seed int64) (*grove.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rule, err := r.GetRule(cfg)
	if err != nil {
		return nil, err
	}
	w, err := grove.NewWorld(cfg.Side, cfg.SpeciesSet(), rule, grove.NewSource(seed))
	if err != nil {
		return nil, err
	}
	if _, ok := rule.(grove.Terminator); ok {
		w.SetCeiling(cfg.Competition.MaxSteps)
	}
	return w, nil
}

// DefaultMetrics returns fresh metrics suited to the variant.
func (r *Registry) DefaultMetrics(variant string) []metrics.Metric {
	ms := []metrics.Metric{metrics.NewTurnover(), metrics.NewSimpson()}
	switch variant {
	case "immigration":
		ms = append(ms, metrics.NewImmigrants())
	case "competition":
		ms = append(ms, metrics.NewMeanDraws())
	case "distancing":
		ms = append(ms, metrics.NewPeakVacancy())
	}
	return ms
}

func (r *Registry) ListVariants() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
