package physics

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/engine"
)

// Integrator advances one dynamic body by dt under acceleration acc.
type Integrator interface {
	Integrate(b *Body, acc engine.Vec2, angAcc, dt float64)
}

// Euler is semi-implicit: velocity first, then position with the new velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Integrate(b *Body, acc engine.Vec2, angAcc, dt float64) {
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.AngularVelocity += angAcc * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Angle += b.AngularVelocity * dt
}

// Verlet is velocity Verlet with acceleration held constant over the step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (Verlet) Integrate(b *Body, acc engine.Vec2, angAcc, dt float64) {
	halfDt2 := 0.5 * dt * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt)).Add(acc.Scale(halfDt2))
	b.Angle += b.AngularVelocity*dt + angAcc*halfDt2
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.AngularVelocity += angAcc * dt
}

var integrators = map[string]func() Integrator{
	"euler":  func() Integrator { return NewEuler() },
	"verlet": func() Integrator { return NewVerlet() },
}

func GetIntegrator(name string) (Integrator, error) {
	fn, ok := integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func ListIntegrators() []string {
	return []string{"euler", "verlet"}
}
