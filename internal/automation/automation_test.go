package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordInput struct {
	events []string
	err    error
}

func (r *recordInput) Touch(x, y float64) error {
	r.events = append(r.events, "touch")
	return r.err
}

func (r *recordInput) Tilt(roll, pitch float64) error {
	r.events = append(r.events, "tilt")
	return r.err
}

func (r *recordInput) Pause() error {
	r.events = append(r.events, "pause")
	return r.err
}

func (r *recordInput) Resume() error {
	r.events = append(r.events, "resume")
	return r.err
}

const scenarioYAML = `
name: rain
description: drop a few circles then tip the box
steps:
  - at: 0
    action: touch
    x: 100
    y: 20
    repeat: 2
    every: 0.01
  - at: 0.03
    action: tilt
    roll: 2
  - at: 0.04
    action: pause
  - at: 0.05
    action: resume
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "rain", s.Name)
	require.Len(t, s.Steps, 4)
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.Duration()), float64(time.Microsecond))

	in := &recordInput{}
	fired, err := RunScenario(context.Background(), s, in)
	require.NoError(t, err)
	assert.Equal(t, 6, fired)
	assert.Equal(t, []string{"touch", "touch", "touch", "tilt", "pause", "resume"}, in.events)
}

func TestValidateRejects(t *testing.T) {
	bad := map[string]Scenario{
		"unknown action": {Steps: []ScenarioStep{{Action: "explode"}}},
		"backwards":      {Steps: []ScenarioStep{{At: 1, Action: "touch"}, {At: 0.5, Action: "touch"}}},
		"repeat no gap":  {Steps: []ScenarioStep{{Action: "touch", Repeat: 3}}},
	}
	for name, s := range bad {
		assert.Error(t, s.Validate(), name)
	}
}

func TestLoadScenarioInvalidYAML(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "steps: [oops"))
	assert.Error(t, err)
}

func TestRunScenarioStopsOnCancel(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{At: 0, Action: "touch"}, {At: 10, Action: "touch"}}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	in := &recordInput{}
	fired, err := RunScenario(ctx, s, in)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestRunScenarioReportsFailingStep(t *testing.T) {
	errBusy := errors.New("busy")
	s := &Scenario{Steps: []ScenarioStep{{Action: "pause"}}}

	_, err := RunScenario(context.Background(), s, &recordInput{err: errBusy})
	assert.ErrorIs(t, err, errBusy)
	assert.Contains(t, err.Error(), "step 1 (pause)")
}
