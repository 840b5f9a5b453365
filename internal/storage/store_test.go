package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
)

func testResult() *experiment.Result {
	species := grove.Palette(2)
	return &experiment.Result{
		Variant: "distancing",
		Seed:    42,
		Side:    2,
		Steps:   2,
		Stop:    grove.StopNone,
		Final:   []int{2, 1},
		Vacant:  1,
		Species: species,
		Labels:  []grove.SpeciesID{0, 1, grove.Vacant, 0},
		Metrics: map[string]float64{"peak_vacancy": 1},
		Timeline: &grove.Timeline{Samples: []grove.Sample{
			{Step: 0, Counts: []int{2, 2}, Vacant: 0},
			{Step: 2, Counts: []int{2, 1}, Vacant: 1},
		}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Variant != "distancing" {
		t.Errorf("expected variant 'distancing', got '%s'", meta.Variant)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Final["B"] != 1 || meta.Vacant != 1 {
		t.Errorf("unexpected final census %v vacant %d", meta.Final, meta.Vacant)
	}
	if meta.Metrics["peak_vacancy"] != 1 {
		t.Errorf("expected peak_vacancy 1, got %v", meta.Metrics)
	}

	tl, err := st.LoadTimeline(runID)
	if err != nil {
		t.Fatalf("load timeline failed: %v", err)
	}
	if len(tl.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(tl.Samples))
	}
	if last := tl.Samples[1]; last.Step != 2 || !slices.Equal(last.Counts, []int{2, 1}) || last.Vacant != 1 {
		t.Errorf("unexpected sample %+v", last)
	}

	g, species, err := st.LoadGrid(runID)
	if err != nil {
		t.Fatalf("load grid failed: %v", err)
	}
	if species.Len() != 2 || g.Side() != 2 {
		t.Fatalf("unexpected grid side %d with %d species", g.Side(), species.Len())
	}
	if !slices.Equal(g.Labels(), testResult().Labels) {
		t.Errorf("grid labels %v", g.Labels())
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "census.csv", "grid.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testResult())
	if err != nil {
		t.Fatal(err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := st.LoadTimeline(runID)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, tl); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !slices.Equal(data.Census["A"], []int{2, 2}) || !slices.Equal(data.Vacant, []int{0, 1}) {
		t.Errorf("unexpected export %+v", data)
	}
}
