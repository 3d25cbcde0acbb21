package engine

import "time"

// Stepper covers a variable frame time with constant physics steps. Frames
// longer than MaxStepsPerFrame*PhysicsStep fall behind real time; there is
// no catch-up.
type Stepper struct {
	physics  Physics
	step     float64
	maxSteps int
	velIters int
	posIters int
}

func NewStepper(p Physics, cfg Config) *Stepper {
	return &Stepper{
		physics:  p,
		step:     cfg.PhysicsStep,
		maxSteps: cfg.MaxStepsPerFrame,
		velIters: cfg.VelocityIterations,
		posIters: cfg.PositionIterations,
	}
}

// Advance steps the physics until elapsed is covered or the sub-step cap is
// reached, then clears the accumulated forces. It returns the steps taken.
func (s *Stepper) Advance(elapsed time.Duration) int {
	remaining := elapsed.Seconds()
	steps := 0

	for remaining > 0 && steps < s.maxSteps {
		s.physics.Step(s.step, s.velIters, s.posIters)
		remaining -= s.step
		steps++
	}

	// Forces are kept across sub-steps of one frame and cleared once here.
	s.physics.ClearForces()
	return steps
}

// MaxSteps is the sub-step cap per frame.
func (s *Stepper) MaxSteps() int { return s.maxSteps }
