// Package actor provides single-body actors drawn from their body's fixtures.
package actor

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/units"
)

const defaultDensity = 1.0

// BodySource resolves body handles at draw time.
type BodySource interface {
	Body(h engine.BodyHandle) (physics.Body, bool)
}

// Simple is an actor with exactly one body, drawn as the outline of its
// fixtures. It holds only the handle; the physics world owns the body.
type Simple struct {
	bodies BodySource
	conv   units.Converter
	body   engine.BodyHandle
	color  engine.Color
}

// newSimple validates every shape before it creates the body, so a rejected
// shape leaves nothing behind in the physics world.
func newSimple(w *physics.World, conv units.Converter, pos engine.Vec2, dynamic bool, color engine.Color, shapes ...physics.Shape) (*Simple, error) {
	for _, sh := range shapes {
		if err := physics.ValidateShape(sh); err != nil {
			return nil, err
		}
	}

	spec := engine.BodySpec{Position: pos, Type: engine.BodyStatic}
	if dynamic {
		spec.Type = engine.BodyDynamic
	}
	a := &Simple{
		bodies: w,
		conv:   conv,
		body:   w.CreateBody(spec),
		color:  color,
	}
	for _, sh := range shapes {
		if err := w.CreateFixture(a.body, sh, defaultDensity); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// NewCircle creates a body at pos with one circle fixture.
func NewCircle(w *physics.World, conv units.Converter, pos engine.Vec2, dynamic bool, radius float64) (*Simple, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("circle radius must be positive, got %f", radius)
	}
	return newSimple(w, conv, pos, dynamic, engine.ColorRed, physics.Circle{Radius: radius})
}

// NewLoop creates a body with a closed chain through vertices, counter clockwise.
func NewLoop(w *physics.World, conv units.Converter, pos engine.Vec2, dynamic bool, vertices []engine.Vec2) (*Simple, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("loop needs at least 3 vertices, got %d", len(vertices))
	}
	chain := physics.Chain{Vertices: append([]engine.Vec2(nil), vertices...), Loop: true}
	return newSimple(w, conv, pos, dynamic, engine.ColorGreen, chain)
}

// NewEdge creates a body with one edge fixture per consecutive vertex pair.
func NewEdge(w *physics.World, conv units.Converter, pos engine.Vec2, dynamic bool, vertices []engine.Vec2) (*Simple, error) {
	if len(vertices) < 2 {
		return nil, fmt.Errorf("edge needs at least 2 vertices, got %d", len(vertices))
	}
	edges := make([]physics.Shape, 0, len(vertices)-1)
	for i := 0; i < len(vertices)-1; i++ {
		edges = append(edges, physics.Edge{A: vertices[i], B: vertices[i+1]})
	}
	return newSimple(w, conv, pos, dynamic, engine.ColorGreen, edges...)
}

func (a *Simple) Body() engine.BodyHandle { return a.body }
func (a *Simple) Color() engine.Color     { return a.color }

func (a *Simple) SetColor(c engine.Color) { a.color = c }

// Draw strokes every fixture in the actor color, placed at the body's world
// center and rotated by its angle. The first fixture that cannot be drawn
// aborts the rest of this actor.
func (a *Simple) Draw(c engine.Canvas, p *engine.Paint) error {
	b, ok := a.bodies.Body(a.body)
	if !ok {
		return fmt.Errorf("%w: %d", physics.ErrUnknownBody, a.body)
	}

	p.Style = engine.StyleStroke
	p.Color = a.color

	tr := Transform{
		Origin: a.conv.WorldToScreen(b.Position),
		Angle:  b.Angle,
		Scale:  a.conv.PixelsPerMeter,
	}
	for _, f := range b.Fixtures {
		if err := DrawShape(c, *p, f.Shape, tr); err != nil {
			return err
		}
	}
	return nil
}
