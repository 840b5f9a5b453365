package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/metrics"
)

// Result summarizes one headless run.
type Result struct {
	Variant  string
	Seed     int64
	Side     int
	Steps    int
	Stop     grove.Stop
	Fixed    bool
	Final    []int
	Vacant   int
	Species  grove.SpeciesSet
	Labels   []grove.SpeciesID
	Timeline *grove.Timeline
	Metrics  map[string]float64
	Elapsed  time.Duration
}

// Survivors returns the names of species still present at the end.
func (r *Result) Survivors() []string {
	out := make([]string, 0, len(r.Final))
	for i, n := range r.Final {
		if n > 0 {
			out = append(out, r.Species.Name(grove.SpeciesID(i)))
		}
	}
	return out
}

type Experiment struct {
	cfg      config.Config
	seed     int64
	world    *grove.World
	timeline *grove.Timeline
	metrics  []metrics.Metric

	// StopOnFixation ends the run once a single species remains.
	StopOnFixation bool
}

func New(cfg config.Config, registry *Registry) (*Experiment, error) {
	w, err := registry.NewWorld(&cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	tl := grove.NewTimeline(cfg.SampleEvery)
	tl.Record(w)
	if cfg.SampleEvery > 0 {
		w.AddObserver(tl)
	}
	ms := registry.DefaultMetrics(cfg.Variant)
	for _, m := range ms {
		w.AddObserver(m)
	}
	return &Experiment{cfg: cfg, seed: cfg.Seed, world: w, timeline: tl, metrics: ms}, nil
}

// World returns the underlying world for adding observers.
func (e *Experiment) World() *grove.World {
	return e.world
}

// Run advances the world in batches until maxSteps, the world's ceiling,
// extinction, or (with StopOnFixation) fixation. maxSteps <= 0 defers to
// the ceiling.
func (e *Experiment) Run(ctx context.Context, maxSteps int) (*Result, error) {
	w := e.world
	if maxSteps <= 0 {
		maxSteps = w.Ceiling()
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("variant %s needs a step limit", e.cfg.Variant)
	}

	start := time.Now()
	result := &Result{
		Variant:  e.cfg.Variant,
		Seed:     e.seed,
		Side:     e.cfg.Side,
		Species:  w.Species(),
		Timeline: e.timeline,
	}

	for w.Clock() < maxSteps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n := min(e.cfg.BatchSize, maxSteps-w.Clock())
		res, err := w.RunBatch(n)
		if err != nil {
			return nil, err
		}
		if e.cfg.SampleEvery <= 0 {
			e.timeline.Record(w)
		}
		if res.Stop != grove.StopNone {
			result.Stop = res.Stop
			break
		}
		if e.StopOnFixation && w.Census().Richness() <= 1 {
			result.Fixed = true
			break
		}
	}
	e.timeline.Record(w)

	result.Steps = w.Clock()
	result.Final = w.Census().Counts()
	result.Vacant = w.Census().Vacant()
	result.Labels = w.Grid().Labels()
	result.Metrics = metrics.Collect(e.metrics)
	result.Elapsed = time.Since(start)
	if result.Stop == grove.StopExtinct {
		result.Fixed = true
	}
	return result, nil
}
