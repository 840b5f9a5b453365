package grove

// Census holds live counts per species plus the number of vacant cells.
type Census struct {
	counts []int
	vacant int
}

func newCensus(g *Grid, n int) *Census {
	c := &Census{counts: make([]int, n)}
	for _, cell := range g.cells {
		if cell.Species == Vacant {
			c.vacant++
			continue
		}
		c.counts[cell.Species]++
	}
	return c
}

// Count returns the live count of a species. Vacant returns the vacancy count.
func (c *Census) Count(id SpeciesID) int {
	if id == Vacant {
		return c.vacant
	}
	return c.counts[id]
}

// Vacant returns the number of empty cells.
func (c *Census) Vacant() int { return c.vacant }

// Counts copies the per-species counts.
func (c *Census) Counts() []int {
	out := make([]int, len(c.counts))
	copy(out, c.counts)
	return out
}

// Total returns the number of occupied cells.
func (c *Census) Total() int {
	sum := 0
	for _, n := range c.counts {
		sum += n
	}
	return sum
}

// Richness returns the number of species with at least one tree.
func (c *Census) Richness() int {
	r := 0
	for _, n := range c.counts {
		if n > 0 {
			r++
		}
	}
	return r
}

func (c *Census) move(from, to SpeciesID) {
	if from == Vacant {
		c.vacant--
	} else {
		c.counts[from]--
	}
	if to == Vacant {
		c.vacant++
	} else {
		c.counts[to]++
	}
}
