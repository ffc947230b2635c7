package buffer

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// A StyledBuffer is a Buffer that keeps style runs for its whole content.
// Every edit made through it recomputes the runs from scratch; there is no
// incremental update. It is not safe for concurrent use.
type StyledBuffer struct {
	Buffer

	profile syntax.Profile
	theme   syntax.Theme
	engine  *syntax.Engine // nil disables highlighting

	runs       []syntax.StyleRun
	lineStarts []int // Rune offset of the first rune of each line
}

// NewStyledBuffer wraps buf and highlights it. A nil engine leaves the whole
// content in the base style.
func NewStyledBuffer(buf Buffer, p syntax.Profile, t syntax.Theme, e *syntax.Engine) *StyledBuffer {
	b := &StyledBuffer{
		Buffer:  buf,
		profile: p,
		theme:   t,
		engine:  e,
	}
	b.Rehighlight()
	return b
}

// Rehighlight discards every run and computes new ones from the content.
func (b *StyledBuffer) Rehighlight() {
	content := []rune(string(b.Bytes()))

	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i, r := range content {
		if r == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}

	if b.engine == nil {
		b.runs = syntax.Runs(make([]syntax.Syntax, len(content)), b.theme)
		return
	}
	b.runs = b.engine.Highlight(content, b.profile, b.theme)
}

// Insert inserts value at line, col and rehighlights.
func (b *StyledBuffer) Insert(line, col int, value []byte) {
	b.Buffer.Insert(line, col, value)
	b.Rehighlight()
}

// Remove removes the inclusive range and rehighlights.
func (b *StyledBuffer) Remove(startLine, startCol, endLine, endCol int) {
	b.Buffer.Remove(startLine, startCol, endLine, endCol)
	b.Rehighlight()
}

// Replace swaps the whole content, as when a file is reloaded from disk.
func (b *StyledBuffer) Replace(contents []byte) {
	b.Buffer = NewRopeBuffer(contents)
	b.Rehighlight()
}

func (b *StyledBuffer) Profile() syntax.Profile {
	return b.profile
}

func (b *StyledBuffer) Theme() syntax.Theme {
	return b.theme
}

// SetProfile changes the language of the content and rehighlights.
func (b *StyledBuffer) SetProfile(p syntax.Profile) {
	b.profile = p
	b.Rehighlight()
}

// SetTheme changes the colors and rehighlights.
func (b *StyledBuffer) SetTheme(t syntax.Theme) {
	b.theme = t
	b.Rehighlight()
}

// SetEngine replaces the engine; nil turns highlighting off.
func (b *StyledBuffer) SetEngine(e *syntax.Engine) {
	b.engine = e
	b.Rehighlight()
}

// Runs returns a copy of the current style runs.
func (b *StyledBuffer) Runs() []syntax.StyleRun {
	return append([]syntax.StyleRun(nil), b.runs...)
}

// A LineRun is a style run clipped to one line, in rune columns.
type LineRun struct {
	StartCol int
	EndCol   int // Exclusive
	Syntax   syntax.Syntax
	Style    tcell.Style
}

// lineRange returns the rune offsets [start, end) of a line, without its
// delimiter. ok is false when the line does not exist.
func (b *StyledBuffer) lineRange(line int) (start, end int, ok bool) {
	if line < 0 || line >= len(b.lineStarts) {
		return 0, 0, false
	}
	start = b.lineStarts[line]
	if line+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1] - 1 // Drop the '\n'
	} else if len(b.runs) > 0 {
		end = b.runs[len(b.runs)-1].End
	} else {
		end = start
	}
	return start, end, true
}

// runIndex returns the index of the first run that ends after offset.
func (b *StyledBuffer) runIndex(offset int) int {
	return sort.Search(len(b.runs), func(i int) bool {
		return b.runs[i].End > offset
	})
}

// LineRuns returns the runs that touch a line, clipped to it. Columns are
// rune columns of the line.
func (b *StyledBuffer) LineRuns(line int) []LineRun {
	start, end, ok := b.lineRange(line)
	if !ok || start >= end {
		return nil
	}

	var out []LineRun
	for i := b.runIndex(start); i < len(b.runs) && b.runs[i].Start < end; i++ {
		r := b.runs[i]
		out = append(out, LineRun{
			StartCol: max(r.Start, start) - start,
			EndCol:   min(r.End, end) - start,
			Syntax:   r.Syntax,
			Style:    b.theme.Style(r.Syntax),
		})
	}
	return out
}

// SyntaxAt returns the class of the rune at line, col. Positions outside the
// content are Default.
func (b *StyledBuffer) SyntaxAt(line, col int) syntax.Syntax {
	start, end, ok := b.lineRange(line)
	if !ok || col < 0 || start+col >= end {
		return syntax.Default
	}
	offset := start + col
	if i := b.runIndex(offset); i < len(b.runs) && b.runs[i].Start <= offset {
		return b.runs[i].Syntax
	}
	return syntax.Default
}

// StyleAt returns the style to draw the rune at line, col with.
func (b *StyledBuffer) StyleAt(line, col int) tcell.Style {
	return b.theme.Style(b.SyntaxAt(line, col))
}
