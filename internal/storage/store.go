package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
)

const (
	metadataFile = "metadata.json"
	censusFile   = "census.csv"
	gridFile     = "grid.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "[storage.Init] %s", s.baseDir)
}

type SpeciesMeta struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Variant   string             `json:"variant"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Side      int                `json:"side"`
	Steps     int                `json:"steps"`
	Stop      string             `json:"stop"`
	Fixed     bool               `json:"fixed"`
	Species   []SpeciesMeta      `json:"species"`
	Final     map[string]int     `json:"final"`
	Vacant    int                `json:"vacant"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	ElapsedMS float64            `json:"elapsed_ms"`
}

// SpeciesSet rebuilds the run's species set.
func (m *RunMetadata) SpeciesSet() grove.SpeciesSet {
	set := make(grove.SpeciesSet, len(m.Species))
	for i, sp := range m.Species {
		set[i] = grove.Species{Name: sp.Name, Color: sp.Color}
	}
	return set
}

func (s *Store) Save(result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrapf(err, "[storage.Save] failed to create %s", runDir)
	}

	meta := RunMetadata{
		ID:        runID,
		Variant:   result.Variant,
		Timestamp: now,
		Seed:      result.Seed,
		Side:      result.Side,
		Steps:     result.Steps,
		Stop:      result.Stop.String(),
		Fixed:     result.Fixed,
		Species:   make([]SpeciesMeta, len(result.Species)),
		Final:     make(map[string]int, len(result.Final)),
		Vacant:    result.Vacant,
		Metrics:   result.Metrics,
		ElapsedMS: float64(result.Elapsed.Microseconds()) / 1000,
	}
	for i, sp := range result.Species {
		meta.Species[i] = SpeciesMeta{Name: sp.Name, Color: sp.Color}
		meta.Final[sp.Name] = result.Final[i]
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCensus(filepath.Join(runDir, censusFile), result.Species, result.Timeline); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(runDir, gridFile), result.Side, result.Labels); err != nil {
		return "", err
	}

	slog.Debug("run saved", "id", runID, "dir", runDir)
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[storage] failed to create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(v), "[storage] failed to encode %s", path)
}

func writeCensus(path string, species grove.SpeciesSet, tl *grove.Timeline) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[storage] failed to create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteCensusCSV(w, species, tl); err != nil {
		return errors.Wrapf(err, "[storage] failed to write %s", path)
	}
	return nil
}

// WriteCensusCSV writes one row per timeline sample: step, one column per
// species, then vacant.
func WriteCensusCSV(w *csv.Writer, species grove.SpeciesSet, tl *grove.Timeline) error {
	header := []string{"step"}
	for _, sp := range species {
		header = append(header, sp.Name)
	}
	header = append(header, "vacant")
	if err := w.Write(header); err != nil {
		return err
	}

	if tl != nil {
		for _, sample := range tl.Samples {
			row := []string{strconv.Itoa(sample.Step)}
			for _, n := range sample.Counts {
				row = append(row, strconv.Itoa(n))
			}
			row = append(row, strconv.Itoa(sample.Vacant))
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeGrid(path string, side int, labels []grove.SpeciesID) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[storage] failed to create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for row := 0; row < side; row++ {
		rec := make([]string, side)
		for col := range rec {
			rec[col] = strconv.Itoa(int(labels[row*side+col]))
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrapf(err, "[storage] failed to write %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "[storage] failed to write %s", path)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrapf(err, "[storage.List] %s", s.baseDir)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "[storage.Load] run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "[storage.Load] run %s", runID)
	}

	return &meta, nil
}

// LoadTimeline reads the census samples of a run.
func (s *Store) LoadTimeline(runID string) (*grove.Timeline, error) {
	csvPath := filepath.Join(s.baseDir, runID, censusFile)
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Wrapf(err, "[storage.LoadTimeline] run %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "[storage.LoadTimeline] run %s", runID)
	}

	tl := &grove.Timeline{}
	if len(records) < 2 {
		return tl, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}
		vals := make([]int, len(record))
		for j, field := range record {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(err, "[storage.LoadTimeline] run %s line %d", runID, i+1)
			}
			vals[j] = v
		}
		tl.Samples = append(tl.Samples, grove.Sample{
			Step:   vals[0],
			Counts: vals[1 : len(vals)-1],
			Vacant: vals[len(vals)-1],
		})
	}

	return tl, nil
}

// LoadGrid rebuilds the final grid of a run.
func (s *Store) LoadGrid(runID string) (*grove.Grid, grove.SpeciesSet, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	gridPath := filepath.Join(s.baseDir, runID, gridFile)
	file, err := os.Open(gridPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[storage.LoadGrid] run %s", runID)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[storage.LoadGrid] run %s", runID)
	}

	labels := make([]grove.SpeciesID, 0, meta.Side*meta.Side)
	for _, record := range records {
		for _, field := range record {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "[storage.LoadGrid] run %s", runID)
			}
			labels = append(labels, grove.SpeciesID(v))
		}
	}

	species := meta.SpeciesSet()
	g, err := grove.NewGridFromLabels(meta.Side, species, labels)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[storage.LoadGrid] run %s", runID)
	}
	return g, species, nil
}
