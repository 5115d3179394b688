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
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel at (x, y). Points off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
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

// Cross draws a small x centred on (x, y).
func (c *Canvas) Cross(x, y int) {
	for d := -1; d <= 1; d++ {
		c.Set(x+d, y+d)
		c.Set(x+d, y-d)
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

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns bounds that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (b *Bounds) Extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

func (b Bounds) Empty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Frame maps world coordinates onto a canvas with a uniform scale, y up.
type Frame struct {
	canvas *Canvas
	bounds Bounds
	scale  float64
	ox, oy float64
}

// NewFrame fits b onto c, keeping the aspect ratio.
func NewFrame(c *Canvas, b Bounds) *Frame {
	if b.Empty() {
		b = Bounds{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	}
	w, h := c.Dots()
	spanX := math.Max(b.MaxX-b.MinX, 1e-9)
	spanY := math.Max(b.MaxY-b.MinY, 1e-9)
	scale := math.Min(float64(w-1)/spanX, float64(h-1)/spanY)

	return &Frame{
		canvas: c,
		bounds: b,
		scale:  scale,
		ox:     (float64(w-1) - spanX*scale) / 2,
		oy:     (float64(h-1) - spanY*scale) / 2,
	}
}

// Project returns the sub-pixel for a world point.
func (f *Frame) Project(x, y float64) (int, int) {
	_, h := f.canvas.Dots()
	px := f.ox + (x-f.bounds.MinX)*f.scale
	py := float64(h-1) - (f.oy + (y-f.bounds.MinY)*f.scale)
	return int(math.Round(px)), int(math.Round(py))
}

// Path draws a polyline through the world points.
func (f *Frame) Path(xs, ys []float64) {
	for i := range xs {
		x, y := f.Project(xs[i], ys[i])
		if i == 0 {
			f.canvas.Set(x, y)
			continue
		}
		px, py := f.Project(xs[i-1], ys[i-1])
		f.canvas.DrawLine(px, py, x, y)
	}
}

func (f *Frame) Mark(x, y float64) {
	px, py := f.Project(x, y)
	f.canvas.Cross(px, py)
}
