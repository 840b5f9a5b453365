package grove

// Cell is one fixed tree position. Only Species and Born change over a run.
type Cell struct {
	Col, Row int
	Species  SpeciesID
	Born     int
}

// Grid stores side*side cells in row-major order.
type Grid struct {
	side      int
	cells     []Cell
	neighbors [][9]int
}

// NewGrid labels every cell with a species drawn uniformly at random.
func NewGrid(side int, species SpeciesSet, rng Source) (*Grid, error) {
	if side <= 0 {
		return nil, configErr("side", side, ErrGridSize)
	}
	if err := species.validate(); err != nil {
		return nil, err
	}
	g := newGrid(side)
	for i := range g.cells {
		g.cells[i].Species = SpeciesID(rng.IntN(len(species)))
	}
	return g, nil
}

// NewGridFromLabels builds a grid with explicit labels in row-major order.
// Labels may be Vacant.
func NewGridFromLabels(side int, species SpeciesSet, labels []SpeciesID) (*Grid, error) {
	if side <= 0 || len(labels) != side*side {
		return nil, configErr("side", side, ErrGridSize)
	}
	if err := species.validate(); err != nil {
		return nil, err
	}
	g := newGrid(side)
	for i, l := range labels {
		if l != Vacant && (l < 0 || int(l) >= len(species)) {
			return nil, configErr("label", l, ErrUnknownSpecies)
		}
		g.cells[i].Species = l
	}
	return g, nil
}

func newGrid(side int) *Grid {
	g := &Grid{side: side, cells: make([]Cell, side*side)}
	for i := range g.cells {
		g.cells[i].Col = i % side
		g.cells[i].Row = i / side
	}
	return g
}

// Side returns the number of cells per edge.
func (g *Grid) Side() int { return g.side }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells exposes the backing slice. Callers must not relabel cells directly
// or the census goes stale.
func (g *Grid) Cells() []Cell { return g.cells }

// At returns the species at linear index i.
func (g *Grid) At(i int) SpeciesID { return g.cells[i].Species }

// Index returns the linear index for (col, row).
func (g *Grid) Index(col, row int) int { return row*g.side + col }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(col, row int) (int, int) {
	col = (col%g.side + g.side) % g.side
	row = (row%g.side + g.side) % g.side
	return col, row
}

// Labels copies the current species labels in row-major order.
func (g *Grid) Labels() []SpeciesID {
	out := make([]SpeciesID, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Species
	}
	return out
}

// BuildNeighborhoods caches every cell's toroidal 3x3 block, the cell itself
// first. The table is tied to the topology and is never updated afterwards.
func (g *Grid) BuildNeighborhoods() {
	if g.neighbors != nil {
		return
	}
	g.neighbors = make([][9]int, len(g.cells))
	for i, c := range g.cells {
		hood := &g.neighbors[i]
		hood[0] = i
		k := 1
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				col, row := g.Wrap(c.Col+dx, c.Row+dy)
				hood[k] = g.Index(col, row)
				k++
			}
		}
	}
}

// Neighborhood returns the cached 3x3 block of cell i. It panics if
// BuildNeighborhoods has not been called.
func (g *Grid) Neighborhood(i int) [9]int {
	if g.neighbors == nil {
		panic("grove: neighborhoods not built")
	}
	return g.neighbors[i]
}

// HasNeighborhoods reports whether the neighborhood table exists.
func (g *Grid) HasNeighborhoods() bool { return g.neighbors != nil }
