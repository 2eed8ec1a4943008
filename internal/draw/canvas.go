// Package draw renders capsules to a terminal using half-block characters.
package draw

import (
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tomz197/capsules/internal/geom"
)

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []bool // Flat slice: [y * termWidth + x] - true if pixel is set

	// Cell contents from the last Render, so only changed cells are written.
	// nil forces a full redraw.
	prevCells []rune

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	frame []byte // Reused output of Render and RenderBorder
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the scene.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pixels:         make([]bool, subPixelHeight*termWidth),
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]bool, subPixelHeight*termWidth)
		c.prevCells = nil
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prevCells = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	c.prevCells = nil
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// pixel reports whether the pixel at terminal coordinates is set.
func (c *Canvas) pixel(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawCapsule fills the segment a-b swept by radius, all in logical space.
// The spine is always drawn so capsules thinner than a pixel stay visible.
func (c *Canvas) DrawCapsule(a, b Point, radius float64) {
	c.DrawLine(a, b)
	if radius <= 0 {
		return
	}

	// Bounding box in pixel space.
	minX := int(math.Floor((math.Min(a.X, b.X) - radius) * c.scaleX))
	maxX := int(math.Ceil((math.Max(a.X, b.X) + radius) * c.scaleX))
	minY := int(math.Floor((math.Min(a.Y, b.Y) - radius) * c.scaleY))
	maxY := int(math.Ceil((math.Max(a.Y, b.Y) + radius) * c.scaleY))
	minX, maxX = max(minX, 0), min(maxX, c.termWidth-1)
	minY, maxY = max(minY, 0), min(maxY, c.subPixelHeight-1)

	spine := geom.NewSegment(geom.V(a.X, a.Y), geom.V(b.X, b.Y))
	r2 := radius * radius
	for py := minY; py <= maxY; py++ {
		y := float64(py) / c.scaleY
		for px := minX; px <= maxX; px++ {
			p := geom.V(float64(px)/c.scaleX, y)
			if spine.NearestPoint(p).Sub(p).LengthSq() <= r2 {
				c.pixels[py*c.termWidth+px] = true
			}
		}
	}
}

// maxChunkSize keeps each write under a typical 1500 byte MTU.
const maxChunkSize = 1400

// cell returns the half-block character for a terminal cell.
func (c *Canvas) cell(col, row int) rune {
	top := c.pixel(col, row*2)
	bottom := c.pixel(col, row*2+1)
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// Render writes the half-block cells that changed since the previous Render.
// w is normally a ChunkWriter, which takes care of splitting the output.
func (c *Canvas) Render(w io.Writer) {
	c.frame = c.frame[:0]

	full := c.prevCells == nil
	if full {
		c.prevCells = make([]rune, c.termWidth*c.termHeight)
	}

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			ch := c.cell(col, row)
			idx := row*c.termWidth + col
			if !full && c.prevCells[idx] == ch {
				continue
			}
			c.prevCells[idx] = ch
			if full && ch == BlockEmpty {
				continue // Screen was cleared by the caller
			}
			c.frame = appendCursor(c.frame, col+1+c.offsetCol, row+1+c.offsetRow)
			c.frame = utf8.AppendRune(c.frame, ch)
		}
	}
	if len(c.frame) > 0 {
		w.Write(c.frame)
	}
}

// RenderBorder frames the render area on each axis where the terminal has
// room beyond the maximum resolution.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offsetCol >= 1
	ends := c.offsetRow >= 1
	if !sides && !ends {
		return
	}

	left, right := c.offsetCol, c.offsetCol+c.termWidth+1
	top, bottom := c.offsetRow, c.offsetRow+c.termHeight+1
	line := strings.Repeat("─", c.termWidth)

	b := c.frame[:0]
	if ends {
		if sides {
			b = append(appendCursor(b, left, top), "┌"+line+"┐"...)
			b = append(appendCursor(b, left, bottom), "└"+line+"┘"...)
		} else {
			b = append(appendCursor(b, left+1, top), line...)
			b = append(appendCursor(b, left+1, bottom), line...)
		}
	}
	if sides {
		for row := top + 1; row < bottom; row++ {
			b = append(appendCursor(b, left, row), "│"...)
			b = append(appendCursor(b, right, row), "│"...)
		}
	}
	c.frame = b
	w.Write(b)
}

// LogicalToTerminal converts logical coordinates to 1-based canvas cell
// coordinates (offset not applied).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// MarkTextDirty forgets n cells starting at the 1-based canvas cell (col, row),
// so the next Render repaints them over any text written there.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	if c.prevCells == nil || row < 1 || row > c.termHeight {
		return
	}
	for x := max(col, 1); x < col+n && x <= c.termWidth; x++ {
		c.prevCells[(row-1)*c.termWidth+x-1] = 0
	}
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
