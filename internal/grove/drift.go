package grove

// Drift copies the species of a uniformly chosen tree into a uniformly
// chosen departing tree. It never rejects.
type Drift struct{}

func NewDrift() *Drift { return &Drift{} }

func (*Drift) Name() string { return "drift" }

func (*Drift) Prepare(*World) error { return nil }

func (*Drift) Step(w *World) (Event, error) {
	n := w.grid.Len()
	dep := w.rng.IntN(n)
	src := w.rng.IntN(n)
	return w.replace(dep, w.grid.At(src), false), nil
}

// DefaultImmigrationInterval is the number of steps between immigrants.
const DefaultImmigrationInterval = 100

// ImmigrationIntervals is the fixed menu offered by interactive front ends.
var ImmigrationIntervals = []int{1, 10, 100, 1000, 10000}

// Immigration is drift where every Interval-th step draws the arrival from
// the whole species set, so extinct species can come back.
type Immigration struct {
	Interval int
}

func NewImmigration(interval int) *Immigration {
	return &Immigration{Interval: interval}
}

func (*Immigration) Name() string { return "immigration" }

func (m *Immigration) Prepare(*World) error {
	if m.Interval <= 0 {
		return configErr("interval", m.Interval, ErrParameterBounds)
	}
	return nil
}

func (m *Immigration) Step(w *World) (Event, error) {
	n := w.grid.Len()
	dep := w.rng.IntN(n)
	if w.clock%m.Interval == 0 {
		to := SpeciesID(w.rng.IntN(len(w.species)))
		return w.replace(dep, to, true), nil
	}
	src := w.rng.IntN(n)
	return w.replace(dep, w.grid.At(src), false), nil
}
