package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	escClear      = "\033[H\033[2J"
	escHideCursor = "\033[?25l"
	escShowCursor = "\033[?25h"
)

// appendCursor appends the escape that moves the cursor to the 1-based
// terminal cell (col, row).
func appendCursor(b []byte, col, row int) []byte {
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(col), 10)
	return append(b, 'H')
}

// ChunkWriter collects one frame of terminal output and hands it to the
// connection in pieces no larger than maxChunkSize. Positions given to WriteAt
// are canvas cells; the offset of the centered render area is added to them.
type ChunkWriter struct {
	frame  []byte
	out    *bufio.Writer
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the render area, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// Write appends raw output, already positioned, to the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

func (cw *ChunkWriter) WriteString(s string) {
	cw.frame = append(cw.frame, s...)
}

// WriteAt places s at the 1-based canvas cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.frame = appendCursor(cw.frame, col+cw.offCol, row+cw.offRow)
	cw.frame = append(cw.frame, s...)
}

// Flush sends the frame and starts a new one. An escape sequence may be split
// across chunks; the terminal reassembles it.
func (cw *ChunkWriter) Flush() error {
	rest := cw.frame
	cw.frame = cw.frame[:0]
	for len(rest) > 0 {
		n := min(len(rest), maxChunkSize)
		if _, err := cw.out.Write(rest[:n]); err != nil {
			return err
		}
		rest = rest[n:]
	}
	return cw.out.Flush()
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc measures the process's own stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen blanks the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, escClear) }

func HideCursor(w io.Writer) { io.WriteString(w, escHideCursor) }

func ShowCursor(w io.Writer) { io.WriteString(w, escShowCursor) }
