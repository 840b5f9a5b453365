// Package metrics accumulates run statistics from world step events.
package metrics

import "github.com/san-kum/treedrift/internal/grove"

// Metric observes every accepted replacement and reports one number.
type Metric interface {
	grove.Observer
	Name() string
	Value() float64
	Reset()
}

// Collect gathers current metric values by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Turnover is the fraction of steps that changed a tree's species.
type Turnover struct {
	changes int
	steps   int
}

func NewTurnover() *Turnover { return &Turnover{} }

func (t *Turnover) Name() string { return "turnover" }

func (t *Turnover) OnStep(_ *grove.World, ev grove.Event) {
	t.steps++
	if ev.From != ev.To {
		t.changes++
	}
}

func (t *Turnover) Value() float64 {
	if t.steps == 0 {
		return 0
	}
	return float64(t.changes) / float64(t.steps)
}

func (t *Turnover) Reset() {
	t.changes = 0
	t.steps = 0
}

// Immigrants counts arrivals drawn from the full species set.
type Immigrants struct {
	count int
}

func NewImmigrants() *Immigrants { return &Immigrants{} }

func (m *Immigrants) Name() string { return "immigrants" }

func (m *Immigrants) OnStep(_ *grove.World, ev grove.Event) {
	if ev.Immigrant {
		m.count++
	}
}

func (m *Immigrants) Value() float64 { return float64(m.count) }
func (m *Immigrants) Reset()         { m.count = 0 }

// MeanDraws is the average number of candidates sampled per accepted step.
// Above one it measures rejection pressure.
type MeanDraws struct {
	draws int
	steps int
}

func NewMeanDraws() *MeanDraws { return &MeanDraws{} }

func (m *MeanDraws) Name() string { return "mean_draws" }

func (m *MeanDraws) OnStep(_ *grove.World, ev grove.Event) {
	m.draws += ev.Draws
	m.steps++
}

func (m *MeanDraws) Value() float64 {
	if m.steps == 0 {
		return 0
	}
	return float64(m.draws) / float64(m.steps)
}

func (m *MeanDraws) Reset() {
	m.draws = 0
	m.steps = 0
}

// PeakVacancy is the largest number of simultaneously vacant cells.
type PeakVacancy struct {
	peak int
}

func NewPeakVacancy() *PeakVacancy { return &PeakVacancy{} }

func (p *PeakVacancy) Name() string { return "peak_vacancy" }

func (p *PeakVacancy) OnStep(w *grove.World, _ grove.Event) {
	p.peak = max(p.peak, w.Census().Vacant())
}

func (p *PeakVacancy) Value() float64 { return float64(p.peak) }
func (p *PeakVacancy) Reset()         { p.peak = 0 }
