// Package automation replays scripted session scenarios headlessly.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/treedrift/internal/config"
	"github.com/san-kum/treedrift/internal/experiment"
	"github.com/san-kum/treedrift/internal/grove"
	"github.com/san-kum/treedrift/internal/session"
)

// Scenario defines a scripted sequence of session actions.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Config      config.Config  `yaml:"config"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one action. Ticks applies to "tick"; Value to "reseed",
// "set_interval" and "set_split".
type ScenarioStep struct {
	Action string  `yaml:"action"`
	Ticks  int     `yaml:"ticks"`
	Value  float64 `yaml:"value"`
}

// Snapshot records the session right after a step.
type Snapshot struct {
	Action string
	State  session.State
	Clock  int
	Counts []int
	Vacant int
	Stop   grove.Stop
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[automation.LoadScenario] failed to read file: %s", path)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario. Config fields left out keep their
// defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Config: *config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrap(err, "[automation.ParseScenario] failed to parse yaml")
	}
	return &scenario, nil
}

// RunScenario executes every step against one session and returns a
// snapshot per step. It stops at the first failing step.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]Snapshot, error) {
	s, err := session.New(scenario.Config, registry)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return snapshots, err
		}
		stop, err := apply(ctx, s, step)
		if err != nil {
			return snapshots, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		snapshots = append(snapshots, Snapshot{
			Action: step.Action,
			State:  s.State(),
			Clock:  s.Clock(),
			Counts: s.Census().Counts(),
			Vacant: s.Census().Vacant(),
			Stop:   stop,
		})
	}
	return snapshots, nil
}

func apply(ctx context.Context, s *session.Session, step ScenarioStep) (grove.Stop, error) {
	switch step.Action {
	case "start":
		return grove.StopNone, s.Start()
	case "pause":
		return grove.StopNone, s.Pause()
	case "resume":
		return grove.StopNone, s.Resume()
	case "reset":
		return grove.StopNone, s.Reset()
	case "reseed":
		return grove.StopNone, s.Reseed(int64(step.Value))
	case "set_interval":
		return grove.StopNone, s.SetImmigrationInterval(int(step.Value))
	case "set_split":
		return grove.StopNone, s.SetResourceSplit(step.Value)
	case "tick":
		ticks := max(step.Ticks, 1)
		for range ticks {
			if err := ctx.Err(); err != nil {
				return grove.StopNone, err
			}
			res, err := s.Tick()
			if err != nil {
				return grove.StopNone, err
			}
			if res.Stop != grove.StopNone {
				return res.Stop, nil
			}
		}
		return grove.StopNone, nil
	default:
		return grove.StopNone, fmt.Errorf("unknown action: %s", step.Action)
	}
}
