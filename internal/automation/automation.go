package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Input receives scripted events. Touch coordinates are screen pixels.
type Input interface {
	Touch(x, y float64) error
	Tilt(roll, pitch float64) error
	Pause() error
	Resume() error
}

// Scenario defines a scripted input sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep fires one action At seconds after the scenario starts.
type ScenarioStep struct {
	At     float64 `yaml:"at"`
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Roll   float64 `yaml:"roll"`
	Pitch  float64 `yaml:"pitch"`
	Repeat int     `yaml:"repeat"`
	Every  float64 `yaml:"every"`
}

var actions = map[string]bool{"touch": true, "tilt": true, "pause": true, "resume": true}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks actions and that step times never go backwards.
func (s *Scenario) Validate() error {
	last := 0.0
	for i, step := range s.Steps {
		if !actions[step.Action] {
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
		if step.At < last {
			return fmt.Errorf("step %d: at %.3fs is before the previous step", i+1, step.At)
		}
		if step.Repeat < 0 || (step.Repeat > 0 && step.Every <= 0) {
			return fmt.Errorf("step %d: repeat needs a positive every", i+1)
		}
		last = step.At + float64(step.Repeat)*step.Every
	}
	return nil
}

// Duration is the time of the last scripted event.
func (s *Scenario) Duration() time.Duration {
	var end float64
	for _, step := range s.Steps {
		end = max(end, step.At+float64(step.Repeat)*step.Every)
	}
	return seconds(end)
}

// RunScenario executes all steps in order, sleeping between them. It
// returns early with nil when ctx ends.
func RunScenario(ctx context.Context, scenario *Scenario, in Input) (int, error) {
	start := time.Now()
	fired := 0

	for i, step := range scenario.Steps {
		for n := 0; n <= step.Repeat; n++ {
			at := seconds(step.At + float64(n)*step.Every)
			if wait := at - time.Since(start); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return fired, nil
				case <-timer.C:
				}
			}

			if err := fire(step, in); err != nil {
				return fired, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
			}
			fired++
		}
	}
	return fired, nil
}

func fire(step ScenarioStep, in Input) error {
	switch step.Action {
	case "touch":
		return in.Touch(step.X, step.Y)
	case "tilt":
		return in.Tilt(step.Roll, step.Pitch)
	case "pause":
		return in.Pause()
	case "resume":
		return in.Resume()
	}
	return fmt.Errorf("unknown action %q", step.Action)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
