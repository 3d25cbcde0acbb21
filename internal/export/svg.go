package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/viz"
)

// Braille dot-to-bit mapping, row by row.
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const defaultDotColor = "#00ff00"

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// the color of its cell. Text cells become text elements.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, engine.ColorBlack))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Cell(col, row)
			color, isText := canvas.CellColor(col, row)
			if color == "" {
				color = defaultDotColor
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			if isText {
				sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="%.1f">%s</text>
`, baseX, baseY+scale*3.5, color, scale*4, html.EscapeString(string(r))))
				continue
			}
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
