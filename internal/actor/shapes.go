package actor

import (
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/physics"
)

// Transform maps body-local meters to screen pixels: rotate by Angle,
// scale, flip y, then translate to Origin.
type Transform struct {
	Origin engine.Vec2
	Angle  float64
	Scale  float64
}

func (t Transform) Apply(local engine.Vec2) engine.Vec2 {
	r := local.Rotate(t.Angle)
	return engine.Vec2{
		X: t.Origin.X + r.X*t.Scale,
		Y: t.Origin.Y - r.Y*t.Scale,
	}
}

// DrawShape renders circles, chains and edges. Other kinds return an
// *engine.UnsupportedShapeError.
func DrawShape(c engine.Canvas, p engine.Paint, s physics.Shape, t Transform) error {
	switch s := s.(type) {
	case physics.Circle:
		drawCircle(c, p, s, t)
	case physics.Chain:
		drawPath(c, p, s.Vertices, s.Loop, t)
	case physics.Edge:
		drawPath(c, p, []engine.Vec2{s.A, s.B}, false, t)
	default:
		return &engine.UnsupportedShapeError{Kind: s.Kind().String()}
	}
	return nil
}

// drawCircle adds a radius line so rotation is visible.
func drawCircle(c engine.Canvas, p engine.Paint, s physics.Circle, t Transform) {
	center := t.Apply(s.Offset)
	rim := t.Apply(s.Offset.Add(engine.Vec2{X: s.Radius}))
	c.Circle(center.X, center.Y, s.Radius*t.Scale, p)
	c.Line(center.X, center.Y, rim.X, rim.Y, p)
}

func drawPath(c engine.Canvas, p engine.Paint, vertices []engine.Vec2, closed bool, t Transform) {
	if len(vertices) == 0 {
		return
	}
	pts := make([]engine.Vec2, len(vertices))
	for i, v := range vertices {
		pts[i] = t.Apply(v)
	}
	c.Path(pts, closed, p)
}
