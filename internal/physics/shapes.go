package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/engine"
)

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeEdge
	ShapePolygon
	ShapeChain
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeEdge:
		return "edge"
	case ShapePolygon:
		return "polygon"
	case ShapeChain:
		return "chain"
	default:
		return "unknown"
	}
}

// Shape is fixture geometry in body-local meters.
type Shape interface {
	Kind() ShapeKind
	// Area is zero for shapes without interior.
	Area() float64
}

type Circle struct {
	Radius float64
	Offset engine.Vec2
}

func (c Circle) Kind() ShapeKind { return ShapeCircle }
func (c Circle) Area() float64   { return math.Pi * c.Radius * c.Radius }

type Edge struct {
	A, B engine.Vec2
}

func (e Edge) Kind() ShapeKind { return ShapeEdge }
func (e Edge) Area() float64   { return 0 }

// Chain is a polyline. With Loop set the last vertex connects back to the first.
type Chain struct {
	Vertices []engine.Vec2
	Loop     bool
}

func (c Chain) Kind() ShapeKind { return ShapeChain }
func (c Chain) Area() float64   { return 0 }

// Segments returns the chain as segment endpoints.
func (c Chain) Segments() [][2]engine.Vec2 {
	n := len(c.Vertices)
	if n < 2 {
		return nil
	}
	segs := make([][2]engine.Vec2, 0, n)
	for i := 0; i < n-1; i++ {
		segs = append(segs, [2]engine.Vec2{c.Vertices[i], c.Vertices[i+1]})
	}
	if c.Loop && n > 2 {
		segs = append(segs, [2]engine.Vec2{c.Vertices[n-1], c.Vertices[0]})
	}
	return segs
}

type Polygon struct {
	Vertices []engine.Vec2
}

func (p Polygon) Kind() ShapeKind { return ShapePolygon }

// Area uses the shoelace formula.
func (p Polygon) Area() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

func (p Polygon) segments() [][2]engine.Vec2 {
	return Chain{Vertices: p.Vertices, Loop: true}.Segments()
}

// ValidateShape reports ErrInvalidShape for geometry that cannot collide:
// non-positive radii, zero-length segments and too few vertices.
func ValidateShape(s Shape) error {
	switch s := s.(type) {
	case Circle:
		if !(s.Radius > 0) {
			return fmt.Errorf("%w: circle radius %v", ErrInvalidShape, s.Radius)
		}
	case Edge:
		if s.A == s.B {
			return fmt.Errorf("%w: zero length edge at %v", ErrInvalidShape, s.A)
		}
	case Chain:
		need := 2
		if s.Loop {
			need = 3
		}
		if len(s.Vertices) < need {
			return fmt.Errorf("%w: chain needs %d vertices, got %d", ErrInvalidShape, need, len(s.Vertices))
		}
		for _, seg := range s.Segments() {
			if seg[0] == seg[1] {
				return fmt.Errorf("%w: repeated chain vertex %v", ErrInvalidShape, seg[0])
			}
		}
	case Polygon:
		if len(s.Vertices) < 3 {
			return fmt.Errorf("%w: polygon needs 3 vertices, got %d", ErrInvalidShape, len(s.Vertices))
		}
	case nil:
		return fmt.Errorf("%w: nil shape", ErrInvalidShape)
	}
	return nil
}

// Fixture attaches a shape to a body.
type Fixture struct {
	Shape   Shape
	Density float64
}

// segmentsOf returns the collidable segments of a non-circle shape, body-local.
func segmentsOf(s Shape) [][2]engine.Vec2 {
	switch s := s.(type) {
	case Edge:
		return [][2]engine.Vec2{{s.A, s.B}}
	case Chain:
		return s.Segments()
	case Polygon:
		return s.segments()
	}
	return nil
}
