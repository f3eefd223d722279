package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const blank = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells, each holding 2x4 sub-pixels and one
// color. Coordinates passed to Set and friends are in sub-pixels, so the
// drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tint:   make([][]color.RGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]color.RGBA, w)
	}
	c.Clear()
	return c
}

// PixelSize is the drawable area in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return row, col, col < c.Width && row < c.Height
}

func (c *Canvas) Set(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= pixelMap[y%4][x%2]
	}
}

// SetColor sets a sub-pixel and tints its cell. The last writer wins the
// cell color.
func (c *Canvas) SetColor(x, y int, tint color.RGBA) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= pixelMap[y%4][x%2]
		c.Tint[row][col] = tint
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= pixelMap[y%4][x%2]
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = color.RGBA{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// Disc fills a disc of radius r sub-pixels centred on (cx, cy).
func (c *Canvas) Disc(cx, cy, r int, tint color.RGBA) {
	if r <= 0 {
		c.SetColor(cx, cy, tint)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetColor(cx+dx, cy+dy, tint)
			}
		}
	}
}

// String renders the grid without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the grid with each tinted cell colored through lipgloss.
// Untinted cells use the plain style.
func (c *Canvas) Render(plain lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			t := c.Tint[i][j]
			if t.A == 0 || r == blank {
				b.WriteString(plain.Render(string(r)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(t))).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hexColor(c color.RGBA) string {
	const hex = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		out[1+2*i] = hex[v>>4]
		out[2+2*i] = hex[v&0xf]
	}
	return string(out)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
