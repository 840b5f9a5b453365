package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/treedrift/internal/grove"
)

func TestGridSVG(t *testing.T) {
	species := grove.Palette(2)
	g, err := grove.NewGridFromLabels(2, species, []grove.SpeciesID{0, 1, grove.Vacant, 0})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := GridSVG(&buf, g, species, 10); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	if n := strings.Count(out, "<circle"); n != 4 {
		t.Errorf("expected 4 disks, got %d", n)
	}
	if strings.Count(out, species[0].Color) != 2 {
		t.Errorf("expected two disks of %s", species[0].Color)
	}
	if !strings.Contains(out, vacantFill) {
		t.Error("vacant cell not drawn")
	}
	if !strings.Contains(out, `width="20"`) {
		t.Error("unexpected canvas size")
	}
}

func TestGridSVGNil(t *testing.T) {
	if err := GridSVG(&bytes.Buffer{}, nil, nil, 1); err == nil {
		t.Error("expected error for nil grid")
	}
}

func TestTimelinePNG(t *testing.T) {
	species := grove.Palette(2)
	tl := &grove.Timeline{Samples: []grove.Sample{
		{Step: 0, Counts: []int{5, 4}},
		{Step: 40, Counts: []int{6, 3}},
		{Step: 80, Counts: []int{4, 4}, Vacant: 1},
	}}

	var buf bytes.Buffer
	if err := TimelinePNG(&buf, tl, species, "census"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	if err := TimelinePNG(&buf, &grove.Timeline{}, species, ""); err == nil {
		t.Error("expected error for empty timeline")
	}
}
