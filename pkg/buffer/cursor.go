package buffer

import (
	"math"
	"unicode"
)

// So why is the code for moving the cursor in the buffer package, and not in the
// TextEdit component? Well, it used to be, but it sucked that way. The cursor
// needs to have a reference to the buffer to know where lines end and how it can
// move. The buffer is the city, and the Cursor is the car.

type position struct {
	line int
	col  int
}

// A Region represents a part of the buffer selected for text editing. Start
// is not after End and both are inclusive. If the col of End is one more than
// the last column of a line, then it points to the line delimiter at the end
// of that line. It is understood that as a Region spans multiple lines, those
// connecting line-delimiters are included in the selection, as well.
type Region struct {
	Start Cursor
	End   Cursor
}

// NewRegion returns an empty Region at the start of the buffer.
func NewRegion(in Buffer) Region {
	return Region{
		NewCursor(in),
		NewCursor(in),
	}
}

// Ordered returns the region with Start before End.
func (r Region) Ordered() Region {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Empty reports whether the region selects nothing.
func (r Region) Empty() bool {
	return r.Start.Eq(r.End)
}

// A Cursor's functions emulate common cursor actions. Cursors are values:
// every movement returns the moved Cursor.
type Cursor struct {
	buffer Buffer
	position
}

func NewCursor(in Buffer) Cursor {
	return Cursor{
		buffer: in,
	}
}

func (c Cursor) Left() Cursor {
	if c.col == 0 && c.line != 0 { // If we are at the beginning of the current line...
		// Go to the end of the above line
		c.line--
		c.col = c.buffer.RunesInLine(c.line)
	} else {
		c.col = max(c.col-1, 0)
	}
	return c
}

func (c Cursor) Right() Cursor {
	// If we are at the end of the current line,
	// and not at the last line...
	if c.col >= c.buffer.RunesInLine(c.line) && c.line < c.buffer.Lines()-1 {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, 0) // Go to beginning of line below
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line, c.col+1)
	}
	return c
}

func (c Cursor) Up() Cursor {
	if c.line == 0 { // If the cursor is at the first line...
		c.line, c.col = 0, 0 // Go to beginning
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line-1, c.col)
	}
	return c
}

func (c Cursor) Down() Cursor {
	if c.line == c.buffer.Lines()-1 { // If the cursor is at the last line...
		c.line, c.col = c.buffer.ClampLineCol(c.line, math.MaxInt32) // Go to end of current line
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, c.col)
	}
	return c
}

// Home moves to the first column of the line.
func (c Cursor) Home() Cursor {
	c.col = 0
	return c
}

// End moves past the last rune of the line.
func (c Cursor) End() Cursor {
	c.col = c.buffer.RunesInLine(c.line)
	return c
}

func (c Cursor) lineRunes() []rune {
	return []rune(string(trimDelim(c.buffer.Line(c.line))))
}

// NextWordBoundaryEnd proceeds to the position after the last character of the
// next word boundary to the right of the Cursor. A word boundary is the
// beginning or end of any sequence of similar or same-classed characters.
// Whitespace is skipped. At the end of a line it moves to the next line.
func (c Cursor) NextWordBoundaryEnd() Cursor {
	runes := c.lineRunes()
	if c.col >= len(runes) {
		return c.Right()
	}

	i := c.col
	for i < len(runes) && getRuneCharclass(runes[i]) == charwhitespace {
		i++
	}
	if i < len(runes) {
		class := getRuneCharclass(runes[i])
		for i < len(runes) && getRuneCharclass(runes[i]) == class {
			i++
		}
	}
	c.col = i
	return c
}

// PrevWordBoundaryStart is the mirror of NextWordBoundaryEnd: it moves to the
// first character of the word boundary to the left of the Cursor.
func (c Cursor) PrevWordBoundaryStart() Cursor {
	if c.col == 0 {
		return c.Left()
	}
	runes := c.lineRunes()

	i := min(c.col, len(runes))
	for i > 0 && getRuneCharclass(runes[i-1]) == charwhitespace {
		i--
	}
	if i > 0 {
		class := getRuneCharclass(runes[i-1])
		for i > 0 && getRuneCharclass(runes[i-1]) == class {
			i--
		}
	}
	c.col = i
	return c
}

func (c Cursor) GetLineCol() (line, col int) {
	return c.line, c.col
}

// SetLineCol sets the line and col of the Cursor to those provided. `line` is
// clamped within the range (0, lines in buffer). `col` is then clamped within
// the range (0, line length in runes).
func (c Cursor) SetLineCol(line, col int) Cursor {
	c.line, c.col = c.buffer.ClampLineCol(line, col)
	return c
}

// Offset is the position of the Cursor in runes from the start of the buffer.
func (c Cursor) Offset() int {
	return c.buffer.RuneOffset(c.line, c.col)
}

func (c Cursor) Eq(other Cursor) bool {
	return c.buffer == other.buffer && c.line == other.line && c.col == other.col
}

// Before reports whether c comes before other in the buffer.
func (c Cursor) Before(other Cursor) bool {
	return c.line < other.line || (c.line == other.line && c.col < other.col)
}

type charclass uint8

const (
	charwhitespace charclass = iota
	charword
	charsymbol
)

func getRuneCharclass(r rune) charclass {
	if unicode.IsSpace(r) {
		return charwhitespace
	} else if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return charword
	} else {
		return charsymbol
	}
}
