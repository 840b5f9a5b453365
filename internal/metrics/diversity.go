package metrics

import "github.com/san-kum/treedrift/internal/grove"

// Simpson is the Gini-Simpson index 1 - Σp² of the live trees at the most
// recent step: the chance two random live trees differ in species.
type Simpson struct {
	census *grove.Census
}

func NewSimpson() *Simpson { return &Simpson{} }

func (s *Simpson) Name() string { return "simpson" }

func (s *Simpson) OnStep(w *grove.World, _ grove.Event) {
	s.census = w.Census()
}

func (s *Simpson) Value() float64 {
	if s.census == nil {
		return 0
	}
	return GiniSimpson(s.census.Counts())
}

func (s *Simpson) Reset() { s.census = nil }

// GiniSimpson computes 1 - Σp² over counts. An empty population scores 0.
func GiniSimpson(counts []int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		sum += p * p
	}
	return 1 - sum
}
