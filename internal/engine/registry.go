package engine

import (
	"errors"
	"fmt"
)

const (
	debugTextSize = 20
	debugTextY    = 20
)

// Registry holds the actors of a world in insertion order. It is owned by
// the loop goroutine and has no locking.
type Registry struct {
	actors []Actor
}

func NewRegistry() *Registry {
	return &Registry{actors: make([]Actor, 0, 32)}
}

// Add appends a after every actor already registered.
func (r *Registry) Add(a Actor) error {
	if a == nil {
		return ErrNilActor
	}
	r.actors = append(r.actors, a)
	return nil
}

func (r *Registry) Len() int { return len(r.actors) }

// Actors returns a copy of the registry contents.
func (r *Registry) Actors() []Actor {
	out := make([]Actor, len(r.actors))
	copy(out, r.actors)
	return out
}

// RenderAll paints the background, every actor in insertion order (later
// actors on top) and the debug readout. A failing actor only loses its own
// draw call; the failures are returned joined.
func (r *Registry) RenderAll(c Canvas, p *Paint, fps float64) error {
	w, h := c.Size()
	p.Style = StyleFill
	p.Color = ColorBlack
	c.Rect(0, 0, float64(w), float64(h), *p)

	var errs []error
	for i, a := range r.actors {
		if err := a.Draw(c, p); err != nil {
			errs = append(errs, fmt.Errorf("actor %d: %w", i, err))
		}
	}

	r.drawDebugInfo(c, p, fps)
	return errors.Join(errs...)
}

func (r *Registry) drawDebugInfo(c Canvas, p *Paint, fps float64) {
	p.Style = StyleFill
	p.Color = ColorRed
	p.TextSize = debugTextSize
	c.Text(0, debugTextY, DebugInfo(len(r.actors), fps), *p)
}

// DebugInfo formats the overlay line shown on every frame.
func DebugInfo(actors int, fps float64) string {
	return fmt.Sprintf("actors#: %d FPS: %.1f", actors, fps)
}
