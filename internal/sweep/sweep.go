// Package sweep runs an ensemble at each value of one configuration
// parameter and tabulates the outcomes.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
)

// Setters maps a sweepable parameter name to the config field it sets.
var Setters = map[string]func(cfg *config.Config, v float64){
	"split":    func(cfg *config.Config, v float64) { cfg.Competition.ResourceSplit = v },
	"poaching": func(cfg *config.Config, v float64) { cfg.Competition.Poaching = v },
	"interval": func(cfg *config.Config, v float64) { cfg.Immigration.Interval = int(v) },
	"side":     func(cfg *config.Config, v float64) { cfg.Side = int(v) },
	"species":  func(cfg *config.Config, v float64) { cfg.NumSpecies = int(v) },
}

// Params lists the sweepable parameter names.
func Params() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Sweep struct {
	param  string
	values []float64

	Runs     int
	MaxSteps int
	Workers  int
	Logger   *slog.Logger
}

func New(param string, values []float64) (*Sweep, error) {
	if _, ok := Setters[param]; !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", param, Params())
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("sweep over %s needs at least one value", param)
	}
	return &Sweep{
		param:  param,
		values: values,
		Runs:   10,
		Logger: slog.Default(),
	}, nil
}

// Point is the ensemble summary at one parameter value.
type Point struct {
	Value   float64
	Summary experiment.Summary
}

// Run validates every point's configuration up front, then runs the
// points in order. All points share the same seeds.
func (s *Sweep) Run(ctx context.Context, registry *experiment.Registry, base config.Config) ([]Point, error) {
	cfgs := make([]config.Config, len(s.values))
	for i, v := range s.values {
		cfg := base
		Setters[s.param](&cfg, v)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", s.param, v, err)
		}
		cfgs[i] = cfg
	}

	points := make([]Point, 0, len(cfgs))
	for i, cfg := range cfgs {
		ens := experiment.NewEnsemble(registry, cfg, s.Runs, base.Seed, s.MaxSteps)
		if s.Workers > 0 {
			ens.Workers = s.Workers
		}
		ens.Logger = s.Logger
		results, err := ens.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", s.param, s.values[i], err)
		}
		points = append(points, Point{Value: s.values[i], Summary: experiment.Summarize(results)})
		s.Logger.Debug("sweep point finished", "param", s.param, "value", s.values[i])
	}
	return points, nil
}
