package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/boxsim/internal/engine"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a braille canvas with one color per cell. It implements
// engine.Canvas in sub-pixel coordinates: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	colors        [][]engine.Color
	text          [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		colors: make([][]engine.Color, h),
		text:   make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.colors[i] = make([]engine.Color, w)
		c.text[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

// Size is in sub-pixels.
func (c *Canvas) Size() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel (x, y) in color col. Text cells are left alone.
func (c *Canvas) Set(x, y int, col engine.Color) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height || c.text[row][cx] {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	c.colors[row][cx] = col
}

// Unset clears a sub-pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height || c.text[row][cx] {
		return
	}

	c.Grid[row][cx] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][cx] < blank {
		c.Grid[row][cx] = blank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.colors[i][j] = ""
			c.text[i][j] = false
		}
	}
}

// Rect with StyleFill in black clears the area; any other fill lights every sub-pixel.
func (c *Canvas) Rect(x0, y0, x1, y1 float64, p engine.Paint) {
	if p.Style == engine.StyleStroke {
		c.Path([]engine.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}, true, p)
		return
	}
	ix0, iy0 := int(math.Floor(x0)), int(math.Floor(y0))
	ix1, iy1 := int(math.Ceil(x1)), int(math.Ceil(y1))
	for y := iy0; y < iy1; y++ {
		for x := ix0; x < ix1; x++ {
			if p.Color == engine.ColorBlack || p.Color == "" {
				c.Unset(x, y)
			} else {
				c.Set(x, y, p.Color)
			}
		}
	}
}

func (c *Canvas) Line(x0, y0, x1, y1 float64, p engine.Paint) {
	c.DrawLine(round(x0), round(y0), round(x1), round(y1), p.Color)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col engine.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Circle uses the midpoint algorithm; StyleFill fills with horizontal spans.
func (c *Canvas) Circle(cx, cy, r float64, p engine.Paint) {
	x0, y0, rad := round(cx), round(cy), round(r)
	if rad <= 0 {
		c.Set(x0, y0, p.Color)
		return
	}
	x, y := rad, 0
	d := 1 - rad
	for x >= y {
		if p.Style == engine.StyleFill {
			c.DrawLine(x0-x, y0+y, x0+x, y0+y, p.Color)
			c.DrawLine(x0-x, y0-y, x0+x, y0-y, p.Color)
			c.DrawLine(x0-y, y0+x, x0+y, y0+x, p.Color)
			c.DrawLine(x0-y, y0-x, x0+y, y0-x, p.Color)
		} else {
			for _, pt := range [8][2]int{
				{x, y}, {y, x}, {-y, x}, {-x, y},
				{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
			} {
				c.Set(x0+pt[0], y0+pt[1], p.Color)
			}
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) Path(points []engine.Vec2, closed bool, p engine.Paint) {
	for i := 1; i < len(points); i++ {
		c.Line(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y, p)
	}
	if closed && len(points) > 2 {
		last := points[len(points)-1]
		c.Line(last.X, last.Y, points[0].X, points[0].Y, p)
	}
}

// Text writes s into whole cells. y is the baseline; the text occupies the
// cell row holding y-TextSize.
func (c *Canvas) Text(x, y float64, s string, p engine.Paint) {
	row := int((y - p.TextSize) / 4)
	if row < 0 {
		row = 0
	}
	if row >= c.Height {
		return
	}
	col := int(x / 2)
	for _, r := range s {
		if col >= c.Width {
			break
		}
		if col >= 0 {
			c.Grid[row][col] = r
			c.colors[row][col] = p.Color
			c.text[row][col] = true
		}
		col++
	}
}

// String renders the canvas without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with one lipgloss foreground per run of equally colored cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.colors[i][j] == c.colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.colors[i][start]; col != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Cell returns the rune at cell (col, row).
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return c.Grid[row][col]
}

// CellColor returns the color of cell (col, row) and whether it holds text.
func (c *Canvas) CellColor(col, row int) (engine.Color, bool) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return "", false
	}
	return c.colors[row][col], c.text[row][col]
}

// Lit reports whether the sub-pixel (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height || c.text[y/4][x/2] {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
