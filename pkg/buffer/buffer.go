// Package buffer holds the text being edited: a line and column addressed
// Buffer, a Cursor that moves over it, and a StyledBuffer that keeps the
// style runs of its content current.
package buffer

import (
	"io"
)

// A Buffer is editable text addressed by zero-based line and rune column.
// Ranges given as (startLine, startCol, endLine, endCol) include the end
// rune unless a method says otherwise.
//
// Positions outside the buffer panic. Use ClampLineCol, Lines or RunesInLine
// to stay in bounds.
type Buffer interface {
	// Line returns a line with its delimiter. Do not write to the result.
	Line(line int) []byte

	// Slice returns an inclusive range. Do not write to the result.
	Slice(startLine, startCol, endLine, endCol int) []byte

	// Bytes copies the whole content.
	Bytes() []byte

	Insert(line, col int, value []byte)

	// Remove deletes an inclusive range.
	Remove(startLine, startCol, endLine, endCol int)

	// Count counts the occurrences of sequence in [start, end).
	Count(startLine, startCol, endLine, endCol int, sequence []byte) int

	// Len is the size of the content in bytes.
	Len() int

	// Lines is one more than the number of '\n' in the content. An empty
	// buffer has one line.
	Lines() int

	// RunesInLineWithDelim counts the runes of a line and its delimiter,
	// which is two runes for "\r\n".
	RunesInLineWithDelim(line int) int

	// RunesInLine counts the runes of a line without its delimiter.
	RunesInLine(line int) int

	// ClampLineCol moves line, col to the nearest rune in the buffer. The
	// line is clamped first, then the column is kept before the delimiter.
	ClampLineCol(line, col int) (int, int)

	// LineColToPos returns the byte offset of line, col. A column past the
	// end of the line gives the offset of the delimiter.
	LineColToPos(line, col int) int

	// PosToLineCol turns a byte offset, clamped to the content, into a line
	// and column.
	PosToLineCol(pos int) (int, int)

	// RuneOffset returns the number of runes before line, col. Style runs are
	// indexed by it.
	RuneOffset(line, col int) int

	io.WriterTo
}
