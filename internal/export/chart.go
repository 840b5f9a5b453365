package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/treedrift/internal/grove"
)

// TimelinePNG draws every species' census against the step counter.
func TimelinePNG(w io.Writer, tl *grove.Timeline, species grove.SpeciesSet, title string) error {
	if tl == nil || len(tl.Samples) < 2 {
		return fmt.Errorf("need at least two samples to chart, have %d", sampleCount(tl))
	}

	steps := tl.Steps()
	series := make([]chart.Series, 0, len(species)+1)
	for i, sp := range species {
		series = append(series, chart.ContinuousSeries{
			Name:    sp.Name,
			XValues: steps,
			YValues: tl.Series(grove.SpeciesID(i)),
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(sp.Color, "#")),
				StrokeWidth: 2,
			},
		})
	}

	vacant := tl.Series(grove.Vacant)
	for _, v := range vacant {
		if v > 0 {
			series = append(series, chart.ContinuousSeries{
				Name:    "vacant",
				XValues: steps,
				YValues: vacant,
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex(strings.TrimPrefix(vacantFill, "#")),
					StrokeDashArray: []float64{4, 2},
				},
			})
			break
		}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 512,
		XAxis:  chart.XAxis{Name: "step"},
		YAxis:  chart.YAxis{Name: "trees"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

func sampleCount(tl *grove.Timeline) int {
	if tl == nil {
		return 0
	}
	return len(tl.Samples)
}
