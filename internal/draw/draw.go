// Package draw renders to the terminal through a coloured half-block canvas
// and a chunked ANSI writer.
package draw

import "strconv"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Ink is the colour of a lit sub-pixel or a HUD string. The zero value is unlit.
type Ink uint8

const (
	InkNone Ink = iota
	InkWhite
	InkGreen
	InkRed
	InkGold
	InkCyan
	InkBlue
	InkMagenta
	InkGray
)

// inkFG maps an ink to its bright ANSI foreground code. Background is +10.
var inkFG = [...]int{
	InkNone:    39,
	InkWhite:   97,
	InkGreen:   92,
	InkRed:     91,
	InkGold:    93,
	InkCyan:    96,
	InkBlue:    94,
	InkMagenta: 95,
	InkGray:    90,
}

func (i Ink) fg() int {
	if int(i) >= len(inkFG) {
		return inkFG[InkWhite]
	}
	return inkFG[i]
}

func (i Ink) bg() int {
	if i == InkNone {
		return 49
	}
	return i.fg() + 10
}

// Style is how a HUD string is drawn.
type Style struct {
	Ink  Ink
	Bold bool
}

// appendSGR appends the escape sequence that selects s.
func (s Style) appendSGR(b []byte) []byte {
	b = append(b, "\033[0"...)
	if s.Bold {
		b = append(b, ";1"...)
	}
	if s.Ink != InkNone {
		b = append(b, ';')
		b = strconv.AppendInt(b, int64(s.Ink.fg()), 10)
	}
	return append(b, 'm')
}

// Half-block characters.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

const sgrReset = "\033[0m"

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
