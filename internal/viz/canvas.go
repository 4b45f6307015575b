package viz

import (
	"math"
	"strings"
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

const blank = 0x2800

// Canvas is a grid of Braille cells, Width*2 by Height*4 dots. World
// coordinates map onto it through the window set by SetWindow, y up.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	xmin, xmax, ymin, ymax float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h), xmin: -1, xmax: 1, ymin: -1, ymax: 1}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SetWindow selects the world rectangle shown on the canvas.
func (c *Canvas) SetWindow(xmin, xmax, ymin, ymax float64) {
	c.xmin, c.xmax, c.ymin, c.ymax = xmin, xmax, ymin, ymax
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Project maps a world point to sub-pixel coordinates.
func (c *Canvas) Project(x, y float64) (int, int) {
	w, h := c.Dots()
	px := (x - c.xmin) / (c.xmax - c.xmin) * float64(w-1)
	py := (c.ymax - y) / (c.ymax - c.ymin) * float64(h-1)
	return int(math.Round(px)), int(math.Round(py))
}

// Set turns on the dot at sub-pixel (x, y); points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line between sub-pixels using Bresenham's algorithm.
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

// Line draws between two world points.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	ax, ay := c.Project(x0, y0)
	bx, by := c.Project(x1, y1)
	c.DrawLine(ax, ay, bx, by)
}

// Polygon draws the closed outline through the world points.
func (c *Canvas) Polygon(xs, ys []float64) {
	n := len(xs)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		c.Line(xs[i], ys[i], xs[j], ys[j])
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
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
