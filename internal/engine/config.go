package engine

import (
	"fmt"
	"time"
)

const (
	DefaultTargetFPS          = 33
	DefaultPhysicsStep        = 1.0 / 60.0
	DefaultMaxStepsPerFrame   = 5
	DefaultVelocityIterations = 2
	DefaultPositionIterations = 1
)

// Config holds the loop timing parameters. PhysicsStep is in seconds and
// must stay constant for the lifetime of the world.
type Config struct {
	TargetFPS          int
	PhysicsStep        float64
	MaxStepsPerFrame   int
	VelocityIterations int
	PositionIterations int
}

func DefaultConfig() Config {
	return Config{
		TargetFPS:          DefaultTargetFPS,
		PhysicsStep:        DefaultPhysicsStep,
		MaxStepsPerFrame:   DefaultMaxStepsPerFrame,
		VelocityIterations: DefaultVelocityIterations,
		PositionIterations: DefaultPositionIterations,
	}
}

// FrameLength is the time one frame should take, truncated to whole milliseconds.
func (c Config) FrameLength() time.Duration {
	if c.TargetFPS <= 0 {
		return 0
	}
	return time.Duration(1000/c.TargetFPS) * time.Millisecond
}

func (c Config) Validate() error {
	if c.TargetFPS <= 0 || c.TargetFPS > 1000 {
		return fmt.Errorf("%w: target fps must be in (0, 1000], got %d", ErrInvalidConfig, c.TargetFPS)
	}
	if c.PhysicsStep <= 0 {
		return fmt.Errorf("%w: physics step must be positive, got %f", ErrInvalidConfig, c.PhysicsStep)
	}
	if c.MaxStepsPerFrame <= 0 {
		return fmt.Errorf("%w: max steps per frame must be positive, got %d", ErrInvalidConfig, c.MaxStepsPerFrame)
	}
	if c.VelocityIterations <= 0 || c.PositionIterations <= 0 {
		return fmt.Errorf("%w: solver iterations must be positive", ErrInvalidConfig)
	}
	return nil
}
