package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// noTint marks a cell drawn without a group colour.
const noTint = -1

// Canvas is a braille pixel grid. Pixel coordinates run over
// (Width*2) x (Height*4); each cell also carries a tint index for colour.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.Grid = make([][]rune, c.Height)
	c.Tint = make([][]int, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
		c.Tint[i] = make([]int, c.Width)
	}
	c.Clear()
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, pixelMap[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

// SetTinted lights a pixel and tints its cell. The last tint wins.
func (c *Canvas) SetTinted(x, y, tint int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
		c.Tint[row][col] = tint
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
		c.Grid[row][col] |= blank
	}
}

func (c *Canvas) Lit(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = noTint
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// DrawCircle draws an outline with the midpoint algorithm. r <= 0 lights
// only the centre.
func (c *Canvas) DrawCircle(cx, cy, r, tint int) {
	if r <= 0 {
		c.SetTinted(cx, cy, tint)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.SetTinted(cx+p[0], cy+p[1], tint)
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

func (c *Canvas) FillCircle(cx, cy, r, tint int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetTinted(cx+dx, cy+dy, tint)
			}
		}
	}
}

// Dots calls fn for every lit pixel in row-major order.
func (c *Canvas) Dots(fn func(x, y int)) {
	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			if r == blank {
				continue
			}
			for sy := 0; sy < 4; sy++ {
				for sx := 0; sx < 2; sx++ {
					if r&pixelMap[sy][sx] != 0 {
						fn(col*2+sx, row*4+sy)
					}
				}
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours each run of equally tinted cells. Cells tinted outside
// the palette use base.
func (c *Canvas) Render(palette []lipgloss.Style, base lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Tint[i][j] == c.Tint[i][start] {
				continue
			}
			style := base
			if t := c.Tint[i][start]; t >= 0 && len(palette) > 0 {
				style = palette[t%len(palette)]
			}
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
