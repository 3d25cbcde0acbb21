package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/boxsim/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWorldHeight  = 15.0
	DefaultWallMargin   = 0.5
	DefaultCircleRadius = 0.5
	DefaultRestitution  = 0.6
	DefaultIntegrator   = "euler"
	DefaultLogLevel     = "info"
)

// ErrInvalid indicates a world or circles setting outside its valid range.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Loop    LoopConfig    `yaml:"loop"`
	World   WorldConfig   `yaml:"world"`
	Circles CirclesConfig `yaml:"circles"`
	Log     LogConfig     `yaml:"log"`
}

type LoopConfig struct {
	TargetFPS          int     `yaml:"target_fps" env:"BOXSIM_FPS"`
	PhysicsStep        float64 `yaml:"physics_step" env:"BOXSIM_PHYSICS_STEP"`
	MaxStepsPerFrame   int     `yaml:"max_steps_per_frame" env:"BOXSIM_MAX_STEPS"`
	VelocityIterations int     `yaml:"velocity_iterations" env:"BOXSIM_VELOCITY_ITERATIONS"`
	PositionIterations int     `yaml:"position_iterations" env:"BOXSIM_POSITION_ITERATIONS"`
}

type WorldConfig struct {
	Height      float64 `yaml:"height" env:"BOXSIM_WORLD_HEIGHT"`
	WallMargin  float64 `yaml:"wall_margin" env:"BOXSIM_WALL_MARGIN"`
	GravityX    float64 `yaml:"gravity_x" env:"BOXSIM_GRAVITY_X"`
	GravityY    float64 `yaml:"gravity_y" env:"BOXSIM_GRAVITY_Y"`
	Integrator  string  `yaml:"integrator" env:"BOXSIM_INTEGRATOR"`
	Restitution float64 `yaml:"restitution" env:"BOXSIM_RESTITUTION"`
}

type CirclesConfig struct {
	Radius float64 `yaml:"radius" env:"BOXSIM_CIRCLE_RADIUS"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"BOXSIM_LOG_LEVEL"`
	File  string `yaml:"file" env:"BOXSIM_LOG_FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		Loop: LoopConfig{
			TargetFPS:          engine.DefaultTargetFPS,
			PhysicsStep:        engine.DefaultPhysicsStep,
			MaxStepsPerFrame:   engine.DefaultMaxStepsPerFrame,
			VelocityIterations: engine.DefaultVelocityIterations,
			PositionIterations: engine.DefaultPositionIterations,
		},
		World: WorldConfig{
			Height:      DefaultWorldHeight,
			WallMargin:  DefaultWallMargin,
			Integrator:  DefaultIntegrator,
			Restitution: DefaultRestitution,
		},
		Circles: CirclesConfig{Radius: DefaultCircleRadius},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with any BOXSIM_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the world and circles settings. Loop parameters are
// checked by Engine.
func (c *Config) Validate() error {
	w := c.World
	switch {
	case !(w.Height > 0):
		return fmt.Errorf("%w: world height must be positive, got %v", ErrInvalid, w.Height)
	case !(w.WallMargin >= 0) || 2*w.WallMargin >= w.Height:
		return fmt.Errorf("%w: wall margin %v does not fit a world %v tall", ErrInvalid, w.WallMargin, w.Height)
	case !(c.Circles.Radius > 0):
		return fmt.Errorf("%w: circle radius must be positive, got %v", ErrInvalid, c.Circles.Radius)
	}
	return nil
}

// Engine validates the whole configuration and returns the loop parameters.
func (c *Config) Engine() (engine.Config, error) {
	if err := c.Validate(); err != nil {
		return engine.Config{}, err
	}
	ec := engine.Config{
		TargetFPS:          c.Loop.TargetFPS,
		PhysicsStep:        c.Loop.PhysicsStep,
		MaxStepsPerFrame:   c.Loop.MaxStepsPerFrame,
		VelocityIterations: c.Loop.VelocityIterations,
		PositionIterations: c.Loop.PositionIterations,
	}
	if err := ec.Validate(); err != nil {
		return engine.Config{}, err
	}
	return ec, nil
}

func (c *Config) Gravity() engine.Vec2 {
	return engine.Vec2{X: c.World.GravityX, Y: c.World.GravityY}
}
