package units

import (
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/engine"
)

func TestFitHeight(t *testing.T) {
	c := FitHeight(320, 240, 15)
	if c.PixelsPerMeter != 16 {
		t.Errorf("expected 16 px/m, got %f", c.PixelsPerMeter)
	}
	if c.WorldWidth != 20 {
		t.Errorf("expected world width 20, got %f", c.WorldWidth)
	}
}

func TestRoundTrip(t *testing.T) {
	c := FitHeight(320, 240, 15)

	tests := []struct {
		name   string
		world  engine.Vec2
		screen engine.Vec2
	}{
		{"origin is bottom left", engine.Vec2{X: 0, Y: 0}, engine.Vec2{X: 0, Y: 240}},
		{"top left", engine.Vec2{X: 0, Y: 15}, engine.Vec2{X: 0, Y: 0}},
		{"center", engine.Vec2{X: 10, Y: 7.5}, engine.Vec2{X: 160, Y: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.WorldToScreen(tt.world)
			if math.Abs(got.X-tt.screen.X) > 1e-9 || math.Abs(got.Y-tt.screen.Y) > 1e-9 {
				t.Errorf("WorldToScreen(%v) = %v, want %v", tt.world, got, tt.screen)
			}
			back := c.ScreenToWorld(got)
			if math.Abs(back.X-tt.world.X) > 1e-9 || math.Abs(back.Y-tt.world.Y) > 1e-9 {
				t.Errorf("ScreenToWorld(%v) = %v, want %v", got, back, tt.world)
			}
		})
	}
}
