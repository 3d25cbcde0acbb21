package physics

import (
	"math"

	"github.com/san-kum/boxsim/internal/engine"
)

// contact between two bodies; normal points from a to b.
type contact struct {
	a, b   *Body
	normal engine.Vec2
	depth  float64
}

func (w *World) findContacts() []contact {
	var contacts []contact
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			contacts = append(contacts, collide(a, b)...)
		}
	}
	return contacts
}

func collide(a, b *Body) []contact {
	var out []contact
	for _, fa := range a.Fixtures {
		for _, fb := range b.Fixtures {
			ca, aCircle := fa.Shape.(Circle)
			cb, bCircle := fb.Shape.(Circle)
			switch {
			case aCircle && bCircle:
				if c, ok := circleCircle(a, ca, b, cb); ok {
					out = append(out, c)
				}
			case aCircle:
				out = append(out, circleSegments(a, ca, b, segmentsOf(fb.Shape))...)
			case bCircle:
				for _, c := range circleSegments(b, cb, a, segmentsOf(fa.Shape)) {
					out = append(out, contact{a: c.b, b: c.a, normal: c.normal.Scale(-1), depth: c.depth})
				}
			}
		}
	}
	return out
}

func circleCircle(a *Body, ca Circle, b *Body, cb Circle) (contact, bool) {
	pa := a.WorldPoint(ca.Offset)
	pb := b.WorldPoint(cb.Offset)
	d := pb.Sub(pa)
	dist := d.Len()
	r := ca.Radius + cb.Radius
	if dist >= r || dist == 0 {
		return contact{}, false
	}
	return contact{a: a, b: b, normal: d.Scale(1 / dist), depth: r - dist}, true
}

// circleSegments tests circle c of body a against segments of body b.
func circleSegments(a *Body, c Circle, b *Body, segs [][2]engine.Vec2) []contact {
	center := a.WorldPoint(c.Offset)
	var out []contact
	for _, s := range segs {
		p0, p1 := b.WorldPoint(s[0]), b.WorldPoint(s[1])
		q := closestOnSegment(center, p0, p1)
		d := center.Sub(q)
		dist := d.Len()
		if dist >= c.Radius || dist == 0 {
			continue
		}
		out = append(out, contact{a: a, b: b, normal: d.Scale(-1 / dist), depth: c.Radius - dist})
	}
	return out
}

func closestOnSegment(p, a, b engine.Vec2) engine.Vec2 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return a.Add(ab.Scale(t))
}

func (w *World) resolveVelocity(c *contact) {
	inv := c.a.invMass + c.b.invMass
	if inv == 0 {
		return
	}
	vn := c.b.Velocity.Sub(c.a.Velocity).Dot(c.normal)
	if vn >= 0 {
		return
	}
	j := -(1 + w.restitution) * vn / inv
	impulse := c.normal.Scale(j)
	c.a.Velocity = c.a.Velocity.Sub(impulse.Scale(c.a.invMass))
	c.b.Velocity = c.b.Velocity.Add(impulse.Scale(c.b.invMass))
}

func resolvePosition(c *contact) {
	inv := c.a.invMass + c.b.invMass
	if inv == 0 {
		return
	}
	mag := math.Max(c.depth-linearSlop, 0) / inv * correctionPercent
	if mag == 0 {
		return
	}
	corr := c.normal.Scale(mag)
	c.a.Position = c.a.Position.Sub(corr.Scale(c.a.invMass))
	c.b.Position = c.b.Position.Add(corr.Scale(c.b.invMass))
	// Later position passes see less of the same overlap.
	c.depth -= mag * inv
}
