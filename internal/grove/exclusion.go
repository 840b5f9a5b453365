package grove

// Exclusion forbids an arrival whose species already grows anywhere in the
// departing tree's 3x3 toroidal block. A circular scan from a random start
// finds the first eligible tree; if there is none the cell is left vacant.
type Exclusion struct {
	forbidden []bool
}

func NewExclusion() *Exclusion { return &Exclusion{} }

func (*Exclusion) Name() string { return "distancing" }

func (e *Exclusion) Prepare(w *World) error {
	w.grid.BuildNeighborhoods()
	e.forbidden = make([]bool, len(w.species))
	return nil
}

func (e *Exclusion) Step(w *World) (Event, error) {
	n := w.grid.Len()
	dep := w.rng.IntN(n)

	clear(e.forbidden)
	for _, i := range w.grid.Neighborhood(dep) {
		if sp := w.grid.At(i); sp != Vacant {
			e.forbidden[sp] = true
		}
	}

	start := w.rng.IntN(n)
	for k := 0; k < n; k++ {
		sp := w.grid.At((start + k) % n)
		if sp != Vacant && !e.forbidden[sp] {
			return w.replace(dep, sp, false), nil
		}
	}
	return w.replace(dep, Vacant, false), nil
}
