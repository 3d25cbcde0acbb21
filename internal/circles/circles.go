// Package circles is the sample game: a walled box sized to the screen where
// every touch drops a dynamic circle and tilting the device steers gravity.
package circles

import (
	"sync/atomic"

	"github.com/san-kum/boxsim/internal/actor"
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/units"
)

type Options struct {
	WorldHeight  float64
	WallMargin   float64
	CircleRadius float64
	Gravity      engine.Vec2
}

// Game translates input events into world messages. Its methods may be
// called from any goroutine; the state below is only touched by messages.
type Game struct {
	world   *engine.World
	physics *physics.World
	opts    Options

	conv  units.Converter
	ready bool

	circles atomic.Int64
}

func New(w *engine.World, phys *physics.World, opts Options) *Game {
	return &Game{world: w, physics: phys, opts: opts}
}

// Init sizes the world to the screen and builds the walls. Only the first
// call has an effect; later screen sizes keep the first scale.
func (g *Game) Init(screenWidth, screenHeight int) error {
	return g.world.Post(engine.MessageFunc(engine.PriorityMax, func(w *engine.World) error {
		if g.ready || screenWidth <= 0 || screenHeight <= 0 {
			return nil
		}
		g.conv = units.FitHeight(screenWidth, screenHeight, g.opts.WorldHeight)
		w.SetGravity(g.opts.Gravity)

		m := g.opts.WallMargin
		width, height := g.conv.WorldWidth, g.conv.WorldHeight
		walls, err := actor.NewLoop(g.physics, g.conv, engine.Vec2{}, false, []engine.Vec2{
			{X: m, Y: m},
			{X: m, Y: height - m},
			{X: width - m, Y: height - m},
			{X: width - m, Y: m},
		})
		if err != nil {
			return err
		}
		if err := w.AddActor(walls); err != nil {
			return err
		}
		g.ready = true
		return nil
	}))
}

// Touch drops a circle at the screen position. Touches before Init are ignored.
func (g *Game) Touch(screenX, screenY float64) error {
	return g.world.Post(engine.MessageFunc(engine.PriorityDefault, func(w *engine.World) error {
		if !g.ready {
			return nil
		}
		pos := g.conv.ScreenToWorld(engine.Vec2{X: screenX, Y: screenY})
		c, err := actor.NewCircle(g.physics, g.conv, pos, true, g.opts.CircleRadius)
		if err != nil {
			return err
		}
		if err := w.AddActor(c); err != nil {
			return err
		}
		g.circles.Add(1)
		return nil
	}))
}

// Tilt maps an orientation reading (roll, pitch) to gravity.
func (g *Game) Tilt(roll, pitch float64) error {
	return g.world.Post(engine.SetGravityMessage(engine.Vec2{X: -roll, Y: pitch}))
}

// Circles is the number of circles added so far.
func (g *Game) Circles() int64 { return g.circles.Load() }
