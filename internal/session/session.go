// Package session drives a world through the run/pause/reset lifecycle on
// behalf of an external scheduler.
package session

import (
	"errors"
	"fmt"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
)

type State int

const (
	Idle State = iota
	Running
	Paused
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("session: invalid transition")

// Session owns one world and its timeline. It is driven by Tick calls from
// a scheduler and never paces itself.
type Session struct {
	cfg      config.Config
	registry *experiment.Registry
	world    *grove.World
	timeline *grove.Timeline
	state    State
}

func New(cfg config.Config, registry *experiment.Registry) (*Session, error) {
	s := &Session{cfg: cfg, registry: registry}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) rebuild() error {
	w, err := s.registry.NewWorld(&s.cfg, s.cfg.Seed)
	if err != nil {
		return err
	}
	tl := grove.NewTimeline(s.cfg.SampleEvery)
	tl.Record(w)
	if s.cfg.SampleEvery > 0 {
		w.AddObserver(tl)
	}
	s.world = w
	s.timeline = tl
	s.state = Idle
	return nil
}

func (s *Session) State() State              { return s.state }
func (s *Session) World() *grove.World       { return s.world }
func (s *Session) Timeline() *grove.Timeline { return s.timeline }
func (s *Session) Config() config.Config     { return s.cfg }
func (s *Session) Clock() int                { return s.world.Clock() }
func (s *Session) Species() grove.SpeciesSet { return s.world.Species() }
func (s *Session) Census() *grove.Census     { return s.world.Census() }

func (s *Session) transition(from, to State) error {
	if s.state != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrInvalidTransition, from, to, s.state)
	}
	s.state = to
	return nil
}

// Start begins a fresh run.
func (s *Session) Start() error { return s.transition(Idle, Running) }

// Pause halts a running session. A batch in progress has already finished
// because Tick is synchronous.
func (s *Session) Pause() error { return s.transition(Running, Paused) }

// Resume continues a paused session. A session paused at its step ceiling
// gets a fresh allowance of MaxSteps.
func (s *Session) Resume() error {
	if err := s.transition(Paused, Running); err != nil {
		return err
	}
	if c := s.world.Ceiling(); c > 0 && s.world.Clock() >= c {
		s.world.SetCeiling(c + s.cfg.Competition.MaxSteps)
	}
	return nil
}

// Toggle maps a single start/pause control onto the state machine.
func (s *Session) Toggle() error {
	switch s.state {
	case Idle:
		return s.Start()
	case Running:
		return s.Pause()
	case Paused:
		return s.Resume()
	default:
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, s.state)
	}
}

// Reset discards the world and rebuilds it from the configured seed.
func (s *Session) Reset() error {
	return s.rebuild()
}

// Reseed changes the seed used by Reset and rebuilds.
func (s *Session) Reseed(seed int64) error {
	s.cfg.Seed = seed
	return s.rebuild()
}

// Tick runs one batch. Extinction moves the session to Done, the step
// ceiling to Paused; when both happen together extinction wins.
func (s *Session) Tick() (grove.BatchResult, error) {
	if s.state != Running {
		return grove.BatchResult{}, fmt.Errorf("%w: tick while %s", ErrInvalidTransition, s.state)
	}
	res, err := s.world.RunBatch(s.cfg.BatchSize)
	if s.cfg.SampleEvery <= 0 {
		s.timeline.Record(s.world)
	}
	if err != nil {
		s.state = Paused
		return res, err
	}
	switch res.Stop {
	case grove.StopExtinct:
		s.state = Done
	case grove.StopCeiling:
		s.state = Paused
	}
	return res, nil
}

// SetImmigrationInterval takes effect at the next batch.
func (s *Session) SetImmigrationInterval(n int) error {
	if n <= 0 {
		return &grove.ConfigError{Field: "immigration.interval", Value: n, Wrapped: grove.ErrParameterBounds}
	}
	s.cfg.Immigration.Interval = n
	if m, ok := s.world.Rule().(*grove.Immigration); ok {
		m.Interval = n
	}
	return nil
}

// SetResourceSplit takes effect at the next batch.
func (s *Session) SetResourceSplit(pct float64) error {
	if err := grove.ValidateSplit(pct); err != nil {
		return err
	}
	s.cfg.Competition.ResourceSplit = pct
	if c, ok := s.world.Rule().(*grove.Competition); ok {
		c.Split = pct
	}
	return nil
}

// NextImmigrationInterval moves to the next larger (dir > 0) or smaller
// (dir < 0) entry of grove.ImmigrationIntervals, wrapping at either end. An
// interval that is not on the menu moves to its neighbor on that side.
func (s *Session) NextImmigrationInterval(dir int) int {
	menu := grove.ImmigrationIntervals
	cur := s.cfg.Immigration.Interval
	next := cur
	switch {
	case dir > 0:
		next = menu[0]
		for _, v := range menu {
			if v > cur {
				next = v
				break
			}
		}
	case dir < 0:
		next = menu[len(menu)-1]
		for i := len(menu) - 1; i >= 0; i-- {
			if menu[i] < cur {
				next = menu[i]
				break
			}
		}
	}
	_ = s.SetImmigrationInterval(next)
	return next
}
