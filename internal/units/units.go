// Package units converts between simulation meters (origin bottom left, y up)
// and screen pixels (origin top left, y down).
package units

import "github.com/san-kum/boxsim/internal/engine"

// Converter is immutable; build a new one when the screen size changes.
type Converter struct {
	PixelsPerMeter float64
	WorldWidth     float64
	WorldHeight    float64
}

// FitHeight makes worldHeight meters span the screen height and derives the width.
func FitHeight(screenWidth, screenHeight int, worldHeight float64) Converter {
	ppm := float64(screenHeight) / worldHeight
	return Converter{
		PixelsPerMeter: ppm,
		WorldWidth:     float64(screenWidth) / ppm,
		WorldHeight:    worldHeight,
	}
}

func (c Converter) PixelsToMeters(px float64) float64 { return px / c.PixelsPerMeter }
func (c Converter) MetersToPixels(m float64) float64  { return m * c.PixelsPerMeter }

func (c Converter) WorldToScreen(p engine.Vec2) engine.Vec2 {
	return engine.Vec2{
		X: c.MetersToPixels(p.X),
		Y: c.MetersToPixels(c.WorldHeight - p.Y),
	}
}

func (c Converter) ScreenToWorld(p engine.Vec2) engine.Vec2 {
	return engine.Vec2{
		X: c.PixelsToMeters(p.X),
		Y: c.WorldHeight - c.PixelsToMeters(p.Y),
	}
}
