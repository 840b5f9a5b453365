package grove

import "fmt"

const (
	DefaultResourceSplit = 50.0
	DefaultPoaching      = 0.25
	DefaultMaxSteps      = 500000
	DefaultMaxRetries    = 100000
)

// Competition models two species, each with its own resource and able to
// poach a fraction of the other's. Arrivals are rejection sampled with
// acceptance equal to the candidate species' pressure factor.
type Competition struct {
	// Split is the percentage of the total resource held by species 0.
	Split float64
	// Poaching is the fraction of the competitor's resource a species can use.
	Poaching float64
	// Resource is the total resource. Zero means Poaching * N, the largest
	// total that keeps both pressure factors at or below one.
	Resource float64
	// MaxRetries bounds the candidate draws per step.
	MaxRetries int
}

func NewCompetition() *Competition {
	return &Competition{
		Split:      DefaultResourceSplit,
		Poaching:   DefaultPoaching,
		MaxRetries: DefaultMaxRetries,
	}
}

func (*Competition) Name() string { return "competition" }

func (c *Competition) Prepare(w *World) error {
	if len(w.species) != 2 {
		return configErr("species", len(w.species), ErrSpeciesCount)
	}
	if err := ValidateSplit(c.Split); err != nil {
		return err
	}
	if c.Poaching <= 0 || c.Poaching > 1 {
		return configErr("poaching", c.Poaching, ErrParameterBounds)
	}
	if c.MaxRetries <= 0 {
		return configErr("max_retries", c.MaxRetries, ErrParameterBounds)
	}
	return ValidateResource(c.Poaching, c.Resource, w.grid.Len())
}

// ValidateResource checks an explicit total resource for a grid of n trees.
// Zero selects the default and always passes.
func ValidateResource(poaching, resource float64, n int) error {
	if resource < 0 {
		return configErr("resource", resource, ErrParameterBounds)
	}
	// n_i + p*n_j >= p*N whenever p <= 1, so R <= p*N bounds both factors by 1.
	if limit := poaching * float64(n); resource > limit*(1+1e-9) {
		return configErr("resource", resource, fmt.Errorf("%w (limit %.2f)", ErrPressureOutOfRange, limit))
	}
	return nil
}

// ValidateSplit checks a resource split percentage.
func ValidateSplit(split float64) error {
	if split < 0 || split > 100 {
		return configErr("split", split, ErrParameterBounds)
	}
	return nil
}

func (c *Competition) total(w *World) float64 {
	if c.Resource > 0 {
		return c.Resource
	}
	return c.Poaching * float64(w.grid.Len())
}

// Pressure returns the pressure factors of species 0 and 1 for the current census.
func (c *Competition) Pressure(w *World) (float64, float64) {
	total := c.total(w)
	capA := c.Split / 100 * total
	capB := (100 - c.Split) / 100 * total
	nA := float64(w.census.Count(0))
	nB := float64(w.census.Count(1))
	return pressure(capA, nA+c.Poaching*nB), pressure(capB, nB+c.Poaching*nA)
}

func pressure(capacity, demand float64) float64 {
	if demand <= 0 {
		return 0
	}
	return capacity / demand
}

func (c *Competition) Step(w *World) (Event, error) {
	fA, fB := c.Pressure(w)
	n := w.grid.Len()
	dep := w.rng.IntN(n)
	for draws := 1; draws <= c.MaxRetries; draws++ {
		cand := w.grid.At(w.rng.IntN(n))
		f := fA
		if cand == 1 {
			f = fB
		}
		if w.rng.Float64() < f {
			ev := w.replace(dep, cand, false)
			ev.Draws = draws
			return ev, nil
		}
	}
	return Event{}, fmt.Errorf("%w after %d draws (pressure %.4f/%.4f)", ErrRejectionExhausted, c.MaxRetries, fA, fB)
}

// Terminal reports whether either species has gone extinct.
func (c *Competition) Terminal(w *World) bool {
	return w.census.Count(0) == 0 || w.census.Count(1) == 0
}
