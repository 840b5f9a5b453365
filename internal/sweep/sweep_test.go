package sweep

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
)

func TestNewRejectsUnknownParam(t *testing.T) {
	if _, err := New("gravity", []float64{1}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := New("split", nil); err == nil {
		t.Error("expected error for empty values")
	}
}

func TestSweepValidatesEveryPoint(t *testing.T) {
	cfg := *config.DefaultConfig()
	cfg.Variant = "competition"
	cfg.Side = 4

	s, err := New("split", []float64{50, 120})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Run(context.Background(), experiment.NewRegistry(), cfg)
	if !errors.Is(err, grove.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSweepRejectsResourceBeforeRunning(t *testing.T) {
	cfg := *config.DefaultConfig()
	cfg.Variant = "competition"
	cfg.Competition.TotalResource = 30

	s, err := New("side", []float64{20, 10})
	if err != nil {
		t.Fatal(err)
	}
	s.Runs = 2
	s.MaxSteps = 1000

	ran := false
	s.Logger = slog.New(slog.NewTextHandler(&recorder{ran: &ran}, &slog.HandlerOptions{Level: slog.LevelDebug}))

	points, err := s.Run(context.Background(), experiment.NewRegistry(), cfg)
	if !errors.Is(err, grove.ErrPressureOutOfRange) {
		t.Fatalf("expected ErrPressureOutOfRange, got %v", err)
	}
	if points != nil {
		t.Errorf("expected no points, got %d", len(points))
	}
	if ran {
		t.Error("a replicate ran before the invalid point was rejected")
	}
}

// recorder flags any log output, which the ensemble only emits after a run.
type recorder struct {
	ran *bool
}

func (r *recorder) Write(p []byte) (int, error) {
	*r.ran = true
	return len(p), nil
}

func TestSplitSweepPicksWinner(t *testing.T) {
	cfg := *config.DefaultConfig()
	cfg.Variant = "competition"
	cfg.Side = 4
	cfg.Seed = 7

	s, err := New("split", []float64{100, 0})
	if err != nil {
		t.Fatal(err)
	}
	s.Runs = 4
	s.MaxSteps = 100000

	points, err := s.Run(context.Background(), experiment.NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	// With the whole resource on one side the other species never recruits.
	if got := points[0].Summary.Wins["A"]; got != 4 {
		t.Errorf("split 100: A won %d of 4", got)
	}
	if got := points[1].Summary.Wins["B"]; got != 4 {
		t.Errorf("split 0: B won %d of 4", got)
	}
}
