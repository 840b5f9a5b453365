package experiment

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/treedrift/internal/config"
)

// Ensemble runs independent replicates of one configuration, each with
// its own seed, and collects their results in seed order.
type Ensemble struct {
	registry  *Registry
	cfg       config.Config
	numRuns   int
	seedStart int64
	maxSteps  int

	Workers int
	Logger  *slog.Logger
}

func NewEnsemble(registry *Registry, cfg config.Config, numRuns int, seedStart int64, maxSteps int) *Ensemble {
	return &Ensemble{
		registry:  registry,
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		maxSteps:  maxSteps,
		Workers:   runtime.GOMAXPROCS(0),
		Logger:    slog.Default(),
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			exp, err := New(cfgCopy, e.registry)
			if err != nil {
				return err
			}
			exp.StopOnFixation = true

			res, err := exp.Run(ctx, e.maxSteps)
			if err != nil {
				return err
			}
			results[i] = res
			e.Logger.Debug("replicate finished",
				"seed", cfgCopy.Seed,
				"steps", res.Steps,
				"fixed", res.Fixed,
				"elapsed", res.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates replicate outcomes.
type Summary struct {
	Runs      int
	Fixed     int
	MeanSteps float64
	MinSteps  int
	MaxSteps  int
	Wins      map[string]int
}

func Summarize(results []*Result) Summary {
	s := Summary{Runs: len(results), Wins: make(map[string]int)}
	if len(results) == 0 {
		return s
	}
	total := 0
	s.MinSteps = results[0].Steps
	for _, r := range results {
		total += r.Steps
		s.MinSteps = min(s.MinSteps, r.Steps)
		s.MaxSteps = max(s.MaxSteps, r.Steps)
		if r.Fixed {
			s.Fixed++
			if survivors := r.Survivors(); len(survivors) == 1 {
				s.Wins[survivors[0]]++
			}
		}
	}
	s.MeanSteps = float64(total) / float64(len(results))
	return s
}
