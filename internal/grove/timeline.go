package grove

// Sample is one census reading.
type Sample struct {
	Step   int
	Counts []int
	Vacant int
}

// Timeline appends a census sample every Every steps. It grows without bound.
type Timeline struct {
	Every   int
	Samples []Sample
}

// NewTimeline returns a timeline sampling every n steps. n <= 0 disables
// per-step sampling; callers then use Record directly.
func NewTimeline(every int) *Timeline {
	return &Timeline{Every: every}
}

func (t *Timeline) OnStep(w *World, ev Event) {
	if t.Every > 0 && w.clock%t.Every == 0 {
		t.Record(w)
	}
}

// Record appends the current census unless the clock already has a sample.
func (t *Timeline) Record(w *World) {
	if n := len(t.Samples); n > 0 && t.Samples[n-1].Step == w.clock {
		return
	}
	t.Samples = append(t.Samples, Sample{
		Step:   w.clock,
		Counts: w.census.Counts(),
		Vacant: w.census.vacant,
	})
}

// Series returns species id's counts across all samples.
func (t *Timeline) Series(id SpeciesID) []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		if id == Vacant {
			out[i] = float64(s.Vacant)
		} else if int(id) < len(s.Counts) {
			out[i] = float64(s.Counts[id])
		}
	}
	return out
}

// Steps returns the step of every sample.
func (t *Timeline) Steps() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = float64(s.Step)
	}
	return out
}

func (t *Timeline) Reset() { t.Samples = nil }
