package render

import (
	"math"
	"strings"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

type cell struct {
	bits  uint8
	level float64
	color colorRGB
}

// Canvas is a dot grid backed by braille cells, two dots wide and four tall
// per terminal cell. Each cell shows the colour of its brightest dot.
type Canvas struct {
	cols  int
	rows  int
	cells []cell
}

// NewCanvas creates a canvas of cols×rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the canvas size and clears it.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows = cols, rows
		c.cells = make([]cell, cols*rows)
		return
	}
	c.Clear()
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// DotSize returns the canvas size in dots.
func (c *Canvas) DotSize() (int, int) {
	return c.cols * 2, c.rows * 4
}

// Dot lights the dot at (x, y) with colour col at brightness level. Dots off
// the canvas are ignored.
func (c *Canvas) Dot(x, y int, col colorRGB, level float64) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	ce := &c.cells[(y/4)*c.cols+x/2]
	ce.bits |= 1 << brailleBits[x%2][y%4]
	if level > ce.level {
		ce.level = level
		ce.color = dim(col, level)
	}
}

// Line draws from (x0, y0) to (x1, y1) in dot coordinates, blending colour
// from c0 to c1 along its length.
func (c *Canvas) Line(x0, y0, x1, y1 float64, c0, c1 colorRGB, level float64) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps > 4*(c.cols+c.rows)*4 {
		// Only points projected next to the camera plane get this long.
		return
	}
	if steps == 0 {
		c.Dot(int(math.Round(x0)), int(math.Round(y0)), c0, level)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		c.Dot(int(math.Round(x)), int(math.Round(y)), lerpColor(c0, c1, t), level)
	}
}

// String renders the canvas as rows of braille characters.
func (c *Canvas) String(p colorProfile) string {
	var out strings.Builder
	color := newANSIState(p)
	for r := range c.rows {
		if r > 0 {
			color.reset(&out)
			out.WriteByte('\n')
		}
		for col := range c.cols {
			ce := c.cells[r*c.cols+col]
			if ce.bits != 0 {
				color.set(&out, ce.color)
			}
			out.WriteRune(rune(0x2800 + int(ce.bits)))
		}
	}
	color.reset(&out)
	return out.String()
}
