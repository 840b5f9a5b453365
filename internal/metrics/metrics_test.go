package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/treedrift/internal/grove"
)

func TestGiniSimpson(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   float64
	}{
		{"empty", []int{0, 0}, 0},
		{"monoculture", []int{25, 0, 0}, 0},
		{"even pair", []int{10, 10}, 0.5},
		{"even four", []int{5, 5, 5, 5}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GiniSimpson(tt.counts); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("GiniSimpson(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestEventMetrics(t *testing.T) {
	turnover := NewTurnover()
	immigrants := NewImmigrants()
	draws := NewMeanDraws()

	events := []grove.Event{
		{Step: 1, From: 0, To: 1, Draws: 1},
		{Step: 2, From: 1, To: 1, Draws: 3, Immigrant: true},
		{Step: 3, From: 0, To: 0, Draws: 2},
		{Step: 4, From: 2, To: 0, Draws: 2, Immigrant: true},
	}
	for _, ev := range events {
		for _, m := range []Metric{turnover, immigrants, draws} {
			m.OnStep(nil, ev)
		}
	}

	got := Collect([]Metric{turnover, immigrants, draws})
	want := map[string]float64{"turnover": 0.5, "immigrants": 2, "mean_draws": 2}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}

	turnover.Reset()
	if turnover.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", turnover.Value())
	}
}

func TestWorldMetrics(t *testing.T) {
	species := grove.Palette(3)
	w, err := grove.NewWorld(6, species, grove.NewExclusion(), grove.NewSource(11))
	if err != nil {
		t.Fatal(err)
	}
	peak := NewPeakVacancy()
	simpson := NewSimpson()
	w.AddObserver(peak)
	w.AddObserver(simpson)

	maxVacant := 0
	for i := 0; i < 500; i++ {
		if _, err := w.Step(); err != nil {
			t.Fatal(err)
		}
		maxVacant = max(maxVacant, w.Census().Vacant())
	}

	if int(peak.Value()) != maxVacant {
		t.Errorf("peak vacancy %v, observed %d", peak.Value(), maxVacant)
	}
	if want := GiniSimpson(w.Census().Counts()); simpson.Value() != want {
		t.Errorf("simpson %v, want %v", simpson.Value(), want)
	}
}
