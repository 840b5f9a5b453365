package grove

import "fmt"

// Rule selects a departing tree and its replacement for one step.
type Rule interface {
	Name() string
	// Prepare validates the rule against the world and builds any derived
	// data it needs. It runs once per world, before the first step.
	Prepare(w *World) error
	Step(w *World) (Event, error)
}

// Terminator is implemented by rules with an absorbing end state.
type Terminator interface {
	Terminal(w *World) bool
}

// Observer is notified after every accepted replacement.
type Observer interface {
	OnStep(w *World, ev Event)
}

// Event describes one accepted replacement.
type Event struct {
	Step      int
	Cell      int
	From, To  SpeciesID
	Immigrant bool
	// Draws is the number of candidates sampled, including the accepted one.
	Draws int
}

// Stop reports why a batch ended before its full length.
type Stop int

const (
	StopNone Stop = iota
	StopCeiling
	StopExtinct
)

func (s Stop) String() string {
	switch s {
	case StopCeiling:
		return "ceiling"
	case StopExtinct:
		return "extinct"
	default:
		return "none"
	}
}

// BatchResult is returned to the scheduler after each batch.
type BatchResult struct {
	Steps int
	Stop  Stop
}

// World is the simulation context: one grid, its census, clock and rule.
type World struct {
	species   SpeciesSet
	grid      *Grid
	census    *Census
	clock     int
	ceiling   int
	rule      Rule
	rng       Source
	observers []Observer
}

// NewWorld builds a randomly labeled grid and prepares the rule on it.
func NewWorld(side int, species SpeciesSet, rule Rule, rng Source) (*World, error) {
	g, err := NewGrid(side, species, rng)
	if err != nil {
		return nil, err
	}
	return NewWorldFromGrid(g, species, rule, rng)
}

// NewWorldFromGrid wraps an existing grid. The census is counted once here.
func NewWorldFromGrid(g *Grid, species SpeciesSet, rule Rule, rng Source) (*World, error) {
	if rule == nil {
		return nil, configErr("rule", nil, ErrParameterBounds)
	}
	if err := species.validate(); err != nil {
		return nil, err
	}
	w := &World{
		species: species,
		grid:    g,
		census:  newCensus(g, len(species)),
		rule:    rule,
		rng:     rng,
	}
	if err := rule.Prepare(w); err != nil {
		return nil, fmt.Errorf("%s: %w", rule.Name(), err)
	}
	return w, nil
}

func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

func (w *World) Grid() *Grid          { return w.grid }
func (w *World) Census() *Census      { return w.census }
func (w *World) Species() SpeciesSet  { return w.species }
func (w *World) Rule() Rule           { return w.rule }
func (w *World) Clock() int           { return w.clock }
func (w *World) Ceiling() int         { return w.ceiling }
func (w *World) SetCeiling(steps int) { w.ceiling = steps }

// Step applies the rule once.
func (w *World) Step() (Event, error) {
	ev, err := w.rule.Step(w)
	if err != nil {
		return ev, &StepError{Step: w.clock, Wrapped: err}
	}
	for _, o := range w.observers {
		o.OnStep(w, ev)
	}
	return ev, nil
}

// RunBatch applies the rule up to n times. It returns early when the rule
// reaches a terminal state or the clock reaches the ceiling; extinction is
// reported in preference to the ceiling.
func (w *World) RunBatch(n int) (BatchResult, error) {
	var res BatchResult
	for {
		if stop := w.stopReason(); stop != StopNone {
			res.Stop = stop
			return res, nil
		}
		if res.Steps >= n {
			return res, nil
		}
		if _, err := w.Step(); err != nil {
			return res, err
		}
		res.Steps++
	}
}

// Terminal reports whether the rule has reached its absorbing state.
func (w *World) Terminal() bool {
	t, ok := w.rule.(Terminator)
	return ok && t.Terminal(w)
}

func (w *World) stopReason() Stop {
	if w.Terminal() {
		return StopExtinct
	}
	if w.ceiling > 0 && w.clock >= w.ceiling {
		return StopCeiling
	}
	return StopNone
}

// replace relabels cell i, updates the census and advances the clock.
func (w *World) replace(i int, to SpeciesID, immigrant bool) Event {
	cell := &w.grid.cells[i]
	ev := Event{Step: w.clock, Cell: i, From: cell.Species, To: to, Immigrant: immigrant, Draws: 1}
	w.census.move(cell.Species, to)
	cell.Species = to
	cell.Born = w.clock
	w.clock++
	return ev
}

// StepError wraps a rule failure with the clock value it happened at.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
