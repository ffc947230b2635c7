package buffer

import (
	"io"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

// A RopeBuffer is a Buffer backed by a rope, so inserts and removals in the
// middle of large files do not copy the whole text.
type RopeBuffer rope.Node

func NewRopeBuffer(contents []byte) *RopeBuffer {
	return (*RopeBuffer)(rope.New(contents))
}

func (b *RopeBuffer) node() *rope.Node {
	return (*rope.Node)(b)
}

// lineStart returns the first byte index of the given line. The returned index
// can be equal to the length of the buffer, which means the line is the last,
// empty line of the buffer. If line is greater than or equal to the number of
// lines in the buffer, a panic is issued.
func (b *RopeBuffer) lineStart(line int) int {
	if line < 0 {
		panic("lineStart: negative line")
	}
	n := b.node()
	var pos int
	if line > 0 {
		n.IndexAllFunc(0, n.Len(), []byte{'\n'}, func(idx int) bool {
			line--
			pos = idx + 1 // Start of the line after the delimiter
			return line <= 0
		})
	}
	if line > 0 { // Not enough lines to reach line
		panic("lineStart: not enough lines in buffer to reach position")
	}
	return pos
}

// lineBounds returns the byte range [start, end) of a line, including its
// delimiter.
func (b *RopeBuffer) lineBounds(line int) (start, end int) {
	n := b.node()
	start = b.lineStart(line)
	end = n.Len()
	n.IndexAllFunc(start, n.Len(), []byte{'\n'}, func(idx int) bool {
		end = idx + 1
		return true
	})
	return start, end
}

// Line returns a slice of the data at the given line, including the ending line-
// delimiter. line starts from zero. Data returned may or may not be a copy: do not
// write to it.
func (b *RopeBuffer) Line(line int) []byte {
	start, end := b.lineBounds(line)
	if start == end {
		return []byte{}
	}
	return b.node().Slice(start, end)
}

// trimDelim removes a trailing "\n" or "\r\n".
func trimDelim(line []byte) []byte {
	if l := len(line); l > 0 && line[l-1] == '\n' {
		line = line[:l-1]
		if l := len(line); l > 0 && line[l-1] == '\r' {
			line = line[:l-1]
		}
	}
	return line
}

// LineColToPos returns the index of the byte at line, col. If line is out of
// range the function panics. A negative col is zero. If col is past the last
// rune of the line, the position of the line delimiter (or the end of the
// buffer, on the last line) is returned instead.
func (b *RopeBuffer) LineColToPos(line, col int) int {
	start, _ := b.lineBounds(line)
	content := trimDelim(b.Line(line))

	pos := start
	for i := 0; i < len(content) && col > 0; col-- {
		_, size := utf8.DecodeRune(content[i:])
		i += size
		pos += size
	}
	return pos
}

// Returns a slice of the buffer from startLine, startCol, to endLine, endCol,
// inclusive bounds. The returned value may or may not be a copy of the data,
// so do not write to it.
func (b *RopeBuffer) Slice(startLine, startCol, endLine, endCol int) []byte {
	start := b.LineColToPos(startLine, startCol)
	end := b.afterRuneAt(b.lineDelimOrPos(endLine, endCol))
	if end <= start {
		return []byte{}
	}
	return b.node().Slice(start, end)
}

// afterRuneAt returns the index of the byte after the rune starting at pos.
// A pos at or past the end of the buffer is clamped to its length.
func (b *RopeBuffer) afterRuneAt(pos int) int {
	n := b.node()
	if pos >= n.Len() {
		return n.Len()
	}
	end := min(pos+utf8.UTFMax, n.Len())
	_, size := utf8.DecodeRune(n.Slice(pos, end))
	return pos + size
}

// Bytes returns all of the bytes in the buffer. This function is very likely
// to copy all of the data in the buffer. Use sparingly. Try using other methods,
// where possible.
func (b *RopeBuffer) Bytes() []byte {
	return b.node().Value()
}

// Insert copies a byte slice (inserting it) into the position at line, col.
func (b *RopeBuffer) Insert(line, col int, value []byte) {
	b.node().Insert(b.LineColToPos(line, col), value)
}

// Remove deletes any characters between startLine, startCol, and endLine,
// endCol, inclusive bounds. An end col past the line points at its delimiter,
// so the delimiter is removed too.
func (b *RopeBuffer) Remove(startLine, startCol, endLine, endCol int) {
	start := b.LineColToPos(startLine, startCol)
	end := b.afterRuneAt(b.lineDelimOrPos(endLine, endCol))
	if start >= end {
		return
	}
	b.node().Remove(start, end)
}

// lineDelimOrPos is LineColToPos, except that a "\r\n" delimiter is treated as
// one position so removing it never leaves a lone '\r'.
func (b *RopeBuffer) lineDelimOrPos(line, col int) int {
	pos := b.LineColToPos(line, col)
	n := b.node()
	if pos+1 < n.Len() {
		if s := n.Slice(pos, pos+2); s[0] == '\r' && s[1] == '\n' {
			return pos + 1
		}
	}
	return pos
}

// Returns the number of occurrences of 'sequence' in the buffer, within the range
// of start line and col, to end line and col. End is exclusive.
func (b *RopeBuffer) Count(startLine, startCol, endLine, endCol int, sequence []byte) int {
	startPos := b.LineColToPos(startLine, startCol)
	endPos := b.LineColToPos(endLine, endCol)
	if endPos <= startPos {
		return 0
	}
	return b.node().Count(startPos, endPos, sequence)
}

// Len returns the number of bytes in the buffer.
func (b *RopeBuffer) Len() int {
	return b.node().Len()
}

// Lines returns the number of lines in the buffer. If the buffer is empty,
// 1 is returned, because there is always at least one line.
func (b *RopeBuffer) Lines() int {
	n := b.node()
	return n.Count(0, n.Len(), []byte{'\n'}) + 1
}

// RunesInLineWithDelim returns the number of runes in the given line,
// including the line delimiter. A CRLF delimiter counts as two.
func (b *RopeBuffer) RunesInLineWithDelim(line int) int {
	return utf8.RuneCount(b.Line(line))
}

// RunesInLine returns the number of runes in the given line, excluding the
// line delimiter.
func (b *RopeBuffer) RunesInLine(line int) int {
	return utf8.RuneCount(trimDelim(b.Line(line)))
}

// ClampLineCol is a utility function to clamp any provided line and col to
// only possible values within the buffer, pointing to runes. It first clamps
// the line, then clamps the column. The column is clamped between zero and
// one past the last rune before the line delimiter.
func (b *RopeBuffer) ClampLineCol(line, col int) (int, int) {
	line = max(0, min(line, b.Lines()-1))
	col = max(0, min(col, b.RunesInLine(line)))
	return line, col
}

// PosToLineCol converts a byte offset (position) of the buffer's bytes, into
// a line and column. Unless you are working with the Bytes() function, this
// is unlikely to be useful to you. Position will be clamped.
func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	n := b.node()
	pos = max(0, min(pos, n.Len()))
	if pos == 0 {
		return 0, 0
	}
	line := n.Count(0, pos, []byte{'\n'})
	start := b.lineStart(line)
	if pos == start {
		return line, 0
	}
	return line, utf8.RuneCount(n.Slice(start, pos))
}

// RuneOffset returns the offset, in runes from the start of the buffer, of
// line, col.
func (b *RopeBuffer) RuneOffset(line, col int) int {
	pos := b.LineColToPos(line, col)
	if pos == 0 {
		return 0
	}
	return utf8.RuneCount(b.node().Slice(0, pos))
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.node().WriteTo(w)
}
