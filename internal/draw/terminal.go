package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ChunkWriter accumulates one frame of terminal output and writes it in chunks
// for smooth flow over SSH. Text positions are relative to the play area and
// are clipped to its width so HUD lines never spill into the border.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free formatting
	offCol int
	offRow int
	width  int // Columns of the play area, 0 disables clipping
}

// NewChunkWriter creates a ChunkWriter for a play area of width columns whose
// top-left cell sits after offsetCol columns and offsetRow rows.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow, width int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
		width:  width,
	}
}

// SetArea updates the play area after a terminal resize.
func (cw *ChunkWriter) SetArea(offsetCol, offsetRow, width int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
	cw.width = width
}

// moveCursor appends an ANSI cursor position for 1-based play area coordinates.
func (cw *ChunkWriter) moveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends raw output to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// ClearFrame wipes the terminal at the start of a frame.
func (cw *ChunkWriter) ClearFrame() {
	cw.buf.WriteString("\033[H\033[2J")
}

// WriteAt writes plain text at 1-based play area coordinates.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	if s = cw.clip(col, s); s == "" {
		return
	}
	cw.moveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteStyled writes text in the given style and resets attributes after it.
func (cw *ChunkWriter) WriteStyled(col, row int, style Style, s string) {
	if s = cw.clip(col, s); s == "" {
		return
	}
	cw.moveCursor(col, row)
	cw.buf.Write(style.appendSGR(cw.numBuf[:0]))
	cw.buf.WriteString(s)
	cw.buf.WriteString(sgrReset)
}

// clip cuts s so it ends at the right edge of the play area.
func (cw *ChunkWriter) clip(col int, s string) string {
	if cw.width <= 0 {
		return s
	}
	room := cw.width - col + 1
	if room <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= room {
		return s
	}
	for i := range s {
		if room == 0 {
			return s[:i]
		}
		room--
	}
	return s
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer. Uses the same chunk size as Canvas.Render.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, sgrReset+"\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}
