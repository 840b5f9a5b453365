package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/treedrift/internal/grove"
)

type ExportData struct {
	Run    RunMetadata      `json:"run"`
	Steps  []int            `json:"steps"`
	Census map[string][]int `json:"census"`
	Vacant []int            `json:"vacant"`
}

// ExportJSON writes a run's metadata and census timeline as one document.
func ExportJSON(w io.Writer, meta *RunMetadata, tl *grove.Timeline) error {
	data := ExportData{
		Run:    *meta,
		Steps:  make([]int, len(tl.Samples)),
		Census: make(map[string][]int, len(meta.Species)),
		Vacant: make([]int, len(tl.Samples)),
	}

	for _, sp := range meta.Species {
		data.Census[sp.Name] = make([]int, len(tl.Samples))
	}
	for i, s := range tl.Samples {
		data.Steps[i] = s.Step
		data.Vacant[i] = s.Vacant
		for j, n := range s.Counts {
			if j < len(meta.Species) {
				data.Census[meta.Species[j].Name][i] = n
			}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
