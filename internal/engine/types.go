package engine

import (
	"math"
	"time"
)

// Vec2 is a 2D vector, in meters for simulation space and pixels for screen space.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64       { return math.Hypot(v.X, v.Y) }

// Rotate returns v rotated counter clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// BodyHandle is an opaque, stable reference to a body owned by the physics engine.
type BodyHandle uint32

// NoBody is never returned by a physics engine for a created body.
const NoBody BodyHandle = 0

type BodyType int

const (
	BodyStatic BodyType = iota
	// BodyKinematic moves by its velocity and ignores gravity and forces.
	BodyKinematic
	BodyDynamic
)

// BodySpec describes a body to be created by the physics engine.
type BodySpec struct {
	Position   Vec2
	Angle      float64
	Type       BodyType
	AllowSleep bool
}

// Physics is the stepped simulation consumed by the loop. Its integrator
// needs Step to always be called with the same dt.
type Physics interface {
	CreateBody(spec BodySpec) BodyHandle
	Step(dt float64, velocityIterations, positionIterations int)
	ClearForces()
	SetGravity(g Vec2)
}

type Color string

const (
	ColorBlack Color = "#000000"
	ColorWhite Color = "#ffffff"
	ColorRed   Color = "#ff3333"
	ColorGreen Color = "#33ff66"
	ColorBlue  Color = "#3399ff"
)

type PaintStyle int

const (
	StyleFill PaintStyle = iota
	StyleStroke
)

// Paint carries presentation attributes for drawing calls. One Paint is
// shared by the whole render pass; actors set what they need before drawing.
type Paint struct {
	Color    Color
	Style    PaintStyle
	TextSize float64
}

// Canvas is the opaque drawing context handed out by a Surface for one frame.
// Coordinates are screen pixels with the origin at the top left corner.
type Canvas interface {
	Size() (width, height int)
	Rect(x0, y0, x1, y1 float64, p Paint)
	Line(x0, y0, x1, y1 float64, p Paint)
	Circle(cx, cy, r float64, p Paint)
	Path(points []Vec2, closed bool, p Paint)
	Text(x, y float64, s string, p Paint)
}

// Surface accepts finished frames for presentation.
type Surface interface {
	// Acquire returns the canvas for the next frame, or false if none is
	// available right now. The frame is skipped in that case.
	Acquire() (Canvas, bool)
	Present(c Canvas)
}

// Actor is a drawable entity. Draw must not change simulation state.
type Actor interface {
	Draw(c Canvas, p *Paint) error
}

// FrameStats describes one completed loop iteration.
type FrameStats struct {
	Frame    uint64
	Elapsed  time.Duration
	FPS      float64
	Steps    int
	Messages int
	Actors   int
}

// Observer is notified on the loop goroutine after each frame has been paced.
type Observer interface {
	OnFrame(stats FrameStats)
}

// Clock abstracts wall time for the frame pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}
