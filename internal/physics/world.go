package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/boxsim/internal/engine"
)

const (
	defaultRestitution = 0.6
	// Penetration allowed before position correction kicks in.
	linearSlop        = 0.005
	correctionPercent = 0.8
)

var (
	ErrUnknownBody  = errors.New("physics: unknown body")
	ErrInvalidShape = errors.New("physics: invalid shape")
)

// Body is a rigid body. Position is the world center in meters.
type Body struct {
	Type            engine.BodyType
	Position        engine.Vec2
	Angle           float64
	Velocity        engine.Vec2
	AngularVelocity float64
	Force           engine.Vec2
	Torque          float64
	AllowSleep      bool
	Fixtures        []Fixture

	mass, invMass       float64
	inertia, invInertia float64
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) dynamic() bool { return b.Type == engine.BodyDynamic }

// WorldPoint maps a body-local point to world space.
func (b *Body) WorldPoint(local engine.Vec2) engine.Vec2 {
	return local.Rotate(b.Angle).Add(b.Position)
}

func (b *Body) resetMass() {
	b.mass, b.inertia = 0, 0
	for _, f := range b.Fixtures {
		m := f.Density * f.Shape.Area()
		b.mass += m
		if c, ok := f.Shape.(Circle); ok {
			b.inertia += m * (0.5*c.Radius*c.Radius + c.Offset.Dot(c.Offset))
		}
	}
	if b.dynamic() && b.mass <= 0 {
		b.mass = 1
	}
	b.invMass, b.invInertia = 0, 0
	if b.dynamic() {
		b.invMass = 1 / b.mass
		if b.inertia > 0 {
			b.invInertia = 1 / b.inertia
		}
	}
}

// World owns every body. It is not safe for concurrent use; the engine loop
// goroutine is its only caller.
type World struct {
	bodies      []*Body
	gravity     engine.Vec2
	integrator  Integrator
	restitution float64
	steps       int
}

func NewWorld(integ Integrator) *World {
	if integ == nil {
		integ = NewEuler()
	}
	return &World{
		bodies:      make([]*Body, 0, 64),
		integrator:  integ,
		restitution: defaultRestitution,
	}
}

func (w *World) SetRestitution(e float64) {
	w.restitution = math.Max(0, math.Min(1, e))
}

func (w *World) CreateBody(spec engine.BodySpec) engine.BodyHandle {
	b := &Body{
		Type:       spec.Type,
		Position:   spec.Position,
		Angle:      spec.Angle,
		AllowSleep: spec.AllowSleep,
	}
	b.resetMass()
	w.bodies = append(w.bodies, b)
	return engine.BodyHandle(len(w.bodies))
}

func (w *World) body(h engine.BodyHandle) (*Body, error) {
	if h == engine.NoBody || int(h) > len(w.bodies) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, h)
	}
	return w.bodies[h-1], nil
}

// CreateFixture attaches shape to the body and recomputes its mass.
func (w *World) CreateFixture(h engine.BodyHandle, shape Shape, density float64) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	if err := ValidateShape(shape); err != nil {
		return err
	}
	b.Fixtures = append(b.Fixtures, Fixture{Shape: shape, Density: density})
	b.resetMass()
	return nil
}

// Body returns a copy of the body state.
func (w *World) Body(h engine.BodyHandle) (Body, bool) {
	b, err := w.body(h)
	if err != nil {
		return Body{}, false
	}
	return *b, true
}

func (w *World) ApplyForce(h engine.BodyHandle, f engine.Vec2) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.Force = b.Force.Add(f)
	return nil
}

func (w *World) ApplyTorque(h engine.BodyHandle, t float64) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.Torque += t
	return nil
}

func (w *World) SetVelocity(h engine.BodyHandle, v engine.Vec2) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.Velocity = v
	return nil
}

func (w *World) SetGravity(g engine.Vec2) { w.gravity = g }
func (w *World) Gravity() engine.Vec2     { return w.gravity }
func (w *World) BodyCount() int           { return len(w.bodies) }

// StepCount is the number of Step calls so far.
func (w *World) StepCount() int { return w.steps }

// ClearForces zeroes accumulated forces and torques. Step never does it.
func (w *World) ClearForces() {
	for _, b := range w.bodies {
		b.Force = engine.Vec2{}
		b.Torque = 0
	}
}

// Step integrates every dynamic body by dt and moves kinematic bodies by their
// velocity, then resolves circle contacts with velocityIterations impulse
// passes and positionIterations correction passes.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.steps++
	for _, b := range w.bodies {
		switch b.Type {
		case engine.BodyDynamic:
			acc := w.gravity.Add(b.Force.Scale(b.invMass))
			w.integrator.Integrate(b, acc, b.Torque*b.invInertia, dt)
		case engine.BodyKinematic:
			// Kinematic bodies ignore gravity and forces.
			b.Position = b.Position.Add(b.Velocity.Scale(dt))
			b.Angle += b.AngularVelocity * dt
		}
	}

	contacts := w.findContacts()
	for i := 0; i < velocityIterations; i++ {
		for j := range contacts {
			w.resolveVelocity(&contacts[j])
		}
	}
	for i := 0; i < positionIterations; i++ {
		for j := range contacts {
			resolvePosition(&contacts[j])
		}
	}
}
