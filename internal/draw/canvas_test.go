package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_DrawCapsule(t *testing.T) {
	// 1:1 scale: 20 columns, 10 rows = 20 sub-pixel rows.
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawCapsule(Point{X: 5, Y: 10}, Point{X: 15, Y: 10}, 2)

	assert.True(t, c.pixel(10, 10), "spine")
	assert.True(t, c.pixel(10, 12), "inside radius")
	assert.True(t, c.pixel(3, 10), "rounded end cap")
	assert.False(t, c.pixel(10, 13), "outside radius")
	assert.False(t, c.pixel(2, 10), "past end cap")
	assert.False(t, c.pixel(4, 8), "corner outside the cap")
}

func TestCanvas_DrawCapsuleClipsToCanvas(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	assert.NotPanics(t, func() {
		c.DrawCapsule(Point{X: -50, Y: -50}, Point{X: 60, Y: 60}, 30)
	})
	assert.True(t, c.pixel(0, 0))
	assert.True(t, c.pixel(9, 9))
}

func TestCanvas_ZeroRadiusDrawsSpine(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawCapsule(Point{X: 2, Y: 4}, Point{X: 7, Y: 4}, 0)

	for x := 2; x <= 7; x++ {
		assert.True(t, c.pixel(x, 4), "x=%d", x)
	}
	assert.False(t, c.pixel(2, 5))
}

// dot sets the single pixel under the logical point (x, y).
func dot(c *Canvas, x, y float64) {
	c.DrawCapsule(Point{X: x, Y: y}, Point{X: x, Y: y}, 0)
}

func TestCanvas_DrawCapsuleDiagonal(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawCapsule(Point{X: 4, Y: 4}, Point{X: 14, Y: 14}, 2)

	assert.True(t, c.pixel(9, 9), "spine")
	assert.True(t, c.pixel(10, 8), "within radius of the spine")
	assert.False(t, c.pixel(12, 6), "beside the spine")
	assert.True(t, c.pixel(2, 4), "end cap")
	assert.False(t, c.pixel(16, 16), "past far cap")
}

func TestCanvas_RenderWritesOnlyChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	dot(c, 1, 0)
	dot(c, 1, 1)

	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, "\033[1;2H█", out.String())

	out.Reset()
	c.Render(&out)
	assert.Empty(t, out.String(), "nothing changed")

	c.Clear()
	dot(c, 2, 3)
	out.Reset()
	c.Render(&out)
	assert.Equal(t, "\033[1;2H \033[2;3H▄", out.String())

	c.ForceRedraw()
	out.Reset()
	c.Render(&out)
	assert.Equal(t, "\033[2;3H▄", out.String())
}

func TestCanvas_RenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(3, 4)
	dot(c, 0, 0)

	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, "\033[5;4H▀", out.String())
}

func TestChunkWriter_Flush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.WriteString(strings.Repeat("x", maxChunkSize+10))

	assert.Zero(t, out.Len(), "nothing written before Flush")
	assert.NoError(t, cw.Flush())
	assert.True(t, strings.HasPrefix(out.String(), "\033[2;3Hhi"))
	assert.Len(t, out.String(), len("\033[2;3Hhi")+maxChunkSize+10)
}

func TestCanvas_RenderBorder(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)

	var out bytes.Buffer
	c.RenderBorder(&out)
	assert.Empty(t, out.String(), "no room for a border")

	c.SetOffset(1, 1)
	c.RenderBorder(&out)
	assert.Equal(t, "\033[1;1H┌──┐\033[3;1H└──┘\033[2;1H│\033[2;4H│", out.String())

	out.Reset()
	c.SetOffset(0, 2)
	c.RenderBorder(&out)
	assert.Equal(t, "\033[2;1H──\033[4;1H──", out.String())
}

func TestTerminalEscapes(t *testing.T) {
	var out bytes.Buffer
	HideCursor(&out)
	ClearScreen(&out)
	ShowCursor(&out)
	assert.Equal(t, "\033[?25l\033[H\033[2J\033[?25h", out.String())
}

func TestChunkWriter_ReusesFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.WriteAt(3, 2, "a")
	assert.NoError(t, cw.Flush())
	cw.SetOffset(1, 1)
	cw.WriteAt(3, 2, "b")
	assert.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Ha\033[3;4Hb", out.String())
}

func TestCanvas_MarkTextDirtyRepaintsCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer
	c.Render(&out)

	c.MarkTextDirty(2, 1, 2)
	c.MarkTextDirty(4, 9, 3) // off canvas
	out.Reset()
	c.Render(&out)
	assert.Equal(t, "\033[1;2H \033[1;3H ", out.String())
}

func TestCanvas_LogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(100, 50, 1000, 500)
	col, row := c.LogicalToTerminal(500, 250)
	assert.Equal(t, 51, col)
	assert.Equal(t, 26, row)
}
