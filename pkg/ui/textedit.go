package ui

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fivemoreminix/workbench/pkg/buffer"
	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// TextEdit is a field for line-based editing. It draws the content of a
// StyledBuffer with its style runs and contains the various information about
// content being edited.
type TextEdit struct {
	Buffer      *buffer.StyledBuffer
	LineNumbers bool   // Whether to render line numbers (and therefore the column)
	Dirty       bool   // Whether the buffer has been edited
	UseHardTabs bool   // When true, tabs are '\t'
	TabSize     int    // How many spaces to indent by
	IsCRLF      bool   // Whether the file's line endings are CRLF (\r\n) or LF (\n)
	FilePath    string // Will be empty if the file has not been saved yet

	screen           tcell.Screen // We keep our own reference to the screen for cursor purposes.
	cursor           buffer.Cursor
	scrollx, scrolly int // X and Y offset of view, known as scroll

	// Start is where the selection was begun and End follows the cursor.
	// Once ordered, the selection is [Start, End).
	selection  buffer.Region
	selectMode bool // Whether the user is actively selecting text

	baseComponent
}

// NewTextEdit initializes the buffer using the given 'contents'. The language
// is chosen from the extension of filePath. If filePath is empty, the TextEdit
// has no file association, or it is unsaved. A nil engine draws everything in
// the base style.
func NewTextEdit(screen tcell.Screen, filePath string, contents []byte, theme *Theme, syntaxTheme syntax.Theme, engine *syntax.Engine) *TextEdit {
	te := &TextEdit{
		LineNumbers: true,
		UseHardTabs: true,
		TabSize:     4,
		FilePath:    filePath,

		screen:        screen,
		baseComponent: baseComponent{theme: theme},
	}
	te.Buffer = buffer.NewStyledBuffer(buffer.NewRopeBuffer(nil), syntax.ClassifyPath(filePath), syntaxTheme, engine)
	te.SetContents(contents)
	return te
}

// SetContents replaces the content of the buffer and moves the cursor to the
// start. The content is determined to be either CRLF or LF by its first line
// ending.
func (t *TextEdit) SetContents(contents []byte) {
	t.IsCRLF = false
	if i := bytes.IndexByte(contents, '\n'); i > 0 && contents[i-1] == '\r' {
		t.IsCRLF = true
	}

	t.Buffer.Replace(contents)
	t.cursor = buffer.NewCursor(t.Buffer)
	t.selection = buffer.NewRegion(t.Buffer)
	t.selectMode = false
	t.scrollx, t.scrolly = 0, 0
}

// Reload replaces the content with a new version of the same file. The cursor
// stays where it was, or as close as the new content allows.
func (t *TextEdit) Reload(contents []byte) {
	line, col := t.cursor.GetLineCol()
	scrollx, scrolly := t.scrollx, t.scrolly

	t.SetContents(contents)
	t.Dirty = false
	t.cursor = t.cursor.SetLineCol(line, col)
	t.scrollx, t.scrolly = scrollx, scrolly
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// SetFilePath associates the TextEdit with a path, and picks the language of
// its extension.
func (t *TextEdit) SetFilePath(path string) {
	t.FilePath = path
	t.Buffer.SetProfile(syntax.ClassifyPath(path))
}

// Language returns the identity of the language being highlighted.
func (t *TextEdit) Language() syntax.Identity {
	return t.Buffer.Profile().Identity
}

// SetLanguage highlights the content as `id` regardless of the file path.
func (t *TextEdit) SetLanguage(id syntax.Identity) {
	t.Buffer.SetProfile(syntax.ProfileFor(id))
}

// SetSyntaxTheme recolors the content.
func (t *TextEdit) SetSyntaxTheme(theme syntax.Theme) {
	t.Buffer.SetTheme(theme)
}

// String returns the whole content of the buffer.
func (t *TextEdit) String() string {
	return string(t.Buffer.Bytes())
}

// GetLineDelimiter returns "\r\n" for a CRLF buffer, or "\n" for an LF buffer.
func (t *TextEdit) GetLineDelimiter() string {
	if t.IsCRLF {
		return "\r\n"
	}
	return "\n"
}

// Changes a file's line delimiters. If `crlf` is true, then line delimiters are replaced
// with Windows CRLF (\r\n). If `crlf` is false, then line delimiters are replaced with Unix
// LF (\n). The TextEdit `IsCRLF` variable is updated with the new value.
func (t *TextEdit) ChangeLineDelimiters(crlf bool) {
	if t.IsCRLF == crlf {
		return
	}
	contents := bytes.ReplaceAll(t.Buffer.Bytes(), []byte("\r\n"), []byte("\n"))
	if crlf {
		contents = bytes.ReplaceAll(contents, []byte("\n"), []byte("\r\n"))
	}

	line, col := t.cursor.GetLineCol()
	t.Buffer.Replace(contents)
	t.IsCRLF = crlf
	t.Dirty = true
	t.selectMode = false
	t.cursor = t.cursor.SetLineCol(line, col)
}

// Delete with `forwards` false will backspace, destroying the character before the cursor,
// while Delete with `forwards` true will delete the character after (or on) the cursor.
// With an active selection, the selection is deleted instead.
func (t *TextEdit) Delete(forwards bool) {
	if t.selectMode {
		t.deleteSelection()
	} else if forwards { // Delete the character after the cursor
		cursLine, cursCol := t.cursor.GetLineCol()
		// If the cursor is not at the end of the last line...
		if cursLine < t.Buffer.Lines()-1 || cursCol < t.Buffer.RunesInLine(cursLine) {
			t.Buffer.Remove(cursLine, cursCol, cursLine, cursCol) // Remove character at cursor
			t.Dirty = true
		}
	} else { // Delete the character before the cursor
		cursLine, cursCol := t.cursor.GetLineCol()
		// If the cursor is not at the first column of the first line...
		if cursLine > 0 || cursCol > 0 {
			t.cursor = t.cursor.Left() // Back up to that character
			cursLine, cursCol = t.cursor.GetLineCol()
			t.Buffer.Remove(cursLine, cursCol, cursLine, cursCol)
			t.Dirty = true
		}
	}

	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// deleteSelection removes the selected text and puts the cursor where it
// began.
func (t *TextEdit) deleteSelection() {
	region, ok := t.selectedRegion()
	t.selectMode = false
	if !ok {
		return
	}

	startLine, startCol := region.Start.GetLineCol()
	endLine, endCol := region.End.Left().GetLineCol() // Remove is inclusive
	t.Buffer.Remove(startLine, startCol, endLine, endCol)
	t.cursor = t.cursor.SetLineCol(startLine, startCol)
	t.Dirty = true
}

// Writes `contents` at the cursor position. Line delimiters are converted to
// the ones of the buffer, and tabs become spaces when hard tabs are off.
// Overwrites any active selection.
func (t *TextEdit) Insert(contents string) {
	if t.selectMode {
		t.deleteSelection()
	}

	contents = strings.ReplaceAll(contents, "\r\n", "\n")
	contents = strings.ReplaceAll(contents, "\r", "")
	if !t.UseHardTabs {
		contents = strings.ReplaceAll(contents, "\t", strings.Repeat(" ", t.TabSize))
	}
	if contents == "" {
		return
	}

	lines := strings.Split(contents, "\n")
	line, col := t.cursor.GetLineCol()
	t.Buffer.Insert(line, col, []byte(strings.Join(lines, t.GetLineDelimiter())))
	t.Dirty = true

	// Advance the cursor to the end of what was inserted
	last := utf8.RuneCountInString(lines[len(lines)-1])
	if len(lines) == 1 {
		col += last
	} else {
		line += len(lines) - 1
		col = last
	}
	t.cursor = t.cursor.SetLineCol(line, col)

	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// cellWidth returns the number of columns r takes on screen.
func (t *TextEdit) cellWidth(r rune) int {
	if r == '\t' {
		return t.TabSize
	}
	return max(runewidth.RuneWidth(r), 1)
}

// visualCol converts a rune column of a line into a screen column, counting
// tabs and wide runes.
func (t *TextEdit) visualCol(line, col int) int {
	var vcol int
	for i, r := range []rune(string(t.lineContent(line))) {
		if i >= col {
			break
		}
		vcol += t.cellWidth(r)
	}
	return vcol
}

// lineContent returns a line without its delimiter.
func (t *TextEdit) lineContent(line int) []byte {
	b := t.Buffer.Line(line)
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}

// updateCursorVisibility sets the position of the terminal's cursor with the
// cursor of the TextEdit. The cursor is hidden when the TextEdit is not
// focused or the cursor is scrolled out of view.
func (t *TextEdit) updateCursorVisibility() {
	if t.screen == nil || !t.focused {
		return
	}
	columnWidth := t.getColumnWidth()
	line, col := t.cursor.GetLineCol()
	x := t.x + columnWidth + t.visualCol(line, col) - t.scrollx
	y := t.y + line - t.scrolly
	if x < t.x+columnWidth || x >= t.x+t.width || y < t.y || y >= t.y+t.height {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

// Scroll the screen if the cursor is out of view.
func (t *TextEdit) ScrollToCursor() {
	line, col := t.cursor.GetLineCol()
	vcol := t.visualCol(line, col)

	// Scroll the screen when going to lines out of view
	if line >= t.scrolly+t.height { // If the new line is below view...
		t.scrolly = line - t.height + 1 // Scroll just enough to view that line
	} else if line < t.scrolly { // If the new line is above view
		t.scrolly = line
	}

	viewWidth := t.width - t.getColumnWidth()

	// Scroll the screen horizontally when going to columns out of view
	if vcol >= t.scrollx+viewWidth { // If the new column is right of view
		t.scrollx = vcol - viewWidth + 1 // Scroll just enough to view that column
	} else if vcol < t.scrollx { // If the new column is left of view
		t.scrollx = vcol // Scroll left enough to view that column
	}
	t.scrollx, t.scrolly = max(t.scrollx, 0), max(t.scrolly, 0)
}

func (t *TextEdit) GetCursor() buffer.Cursor {
	return t.cursor
}

func (t *TextEdit) SetCursor(newCursor buffer.Cursor) {
	t.cursor = newCursor
	t.updateCursorVisibility()
}

// GotoLine moves the cursor to the start of a zero-based line, clamped to
// the buffer, and scrolls to it.
func (t *TextEdit) GotoLine(line int) {
	t.selectMode = false
	t.SetCursor(t.cursor.SetLineCol(line, 0))
	t.ScrollToCursor()
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextEdit) getColumnWidth() int {
	var columnWidth int
	if t.LineNumbers {
		// Set columnWidth to max count of line number digits
		columnWidth = max(3, 1+len(strconv.Itoa(t.Buffer.Lines()))) // Column has minimum width of 2
	}
	return columnWidth
}

// SelectAll selects the whole buffer and moves the cursor to its end.
func (t *TextEdit) SelectAll() {
	start := t.cursor.SetLineCol(0, 0)
	end := t.cursor.SetLineCol(math.MaxInt32, math.MaxInt32)
	t.selection = buffer.Region{Start: start, End: end}
	t.selectMode = true
	t.cursor = end
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// selectedRegion returns the ordered selection. ok is false when nothing is
// selected.
func (t *TextEdit) selectedRegion() (buffer.Region, bool) {
	if !t.selectMode {
		return buffer.Region{}, false
	}
	region := t.selection.Ordered()
	return region, !region.Empty()
}

// GetSelectedBytes returns a byte slice of the region of the buffer that is currently selected.
// If the returned slice is empty, then nothing was selected. The slice returned may or may not
// be a copy of the buffer, so do not write to it.
func (t *TextEdit) GetSelectedBytes() []byte {
	region, ok := t.selectedRegion()
	if !ok {
		return []byte{}
	}
	startLine, startCol := region.Start.GetLineCol()
	endLine, endCol := region.End.Left().GetLineCol()
	return t.Buffer.Slice(startLine, startCol, endLine, endCol)
}

// selected reports whether the rune at line, col is within region.
func selected(region buffer.Region, line, col int) bool {
	startLine, startCol := region.Start.GetLineCol()
	endLine, endCol := region.End.GetLineCol()
	if line < startLine || line > endLine {
		return false
	}
	if line == startLine && col < startCol {
		return false
	}
	if line == endLine && col >= endCol {
		return false
	}
	return true
}

// Draw renders the TextEdit component.
func (t *TextEdit) Draw(s tcell.Screen) {
	columnWidth := t.getColumnWidth()
	bufferLines := t.Buffer.Lines()

	baseStyle := t.theme.GetOrDefault("TextEdit")
	columnStyle := t.theme.GetOrDefault("TextEditColumn")

	for lineY := t.y; lineY < t.y+t.height; lineY++ { // For each line we can draw...
		line := lineY + t.scrolly - t.y // The line number being drawn (starts at zero)

		DrawRect(s, t.x+columnWidth, lineY, t.width-columnWidth, 1, ' ', baseStyle)

		lineNumStr := "" // Line number as a string
		if line < bufferLines {
			lineNumStr = strconv.Itoa(line + 1)
			t.drawLine(s, line, lineY, columnWidth)
		}

		if columnWidth > 0 {
			columnStr := fmt.Sprintf("%*s│", columnWidth-1, lineNumStr) // Right align line number
			DrawStr(s, t.x, lineY, columnStr, columnStyle)
		}
	}

	t.updateCursorVisibility()
}

// drawLine draws one line of the buffer at row y, styled by its runs and the
// selection.
func (t *TextEdit) drawLine(s tcell.Screen, line, y, columnWidth int) {
	left, right := t.x+columnWidth, t.x+t.width
	selectedStyle := t.theme.GetOrDefault("TextEditSelected")
	baseStyle := t.theme.GetOrDefault("TextEdit")
	region, selecting := t.selectedRegion()

	runs := t.Buffer.LineRuns(line)
	var runIdx int

	runes := []rune(string(t.lineContent(line)))
	x := left - t.scrollx
	for col, r := range runes {
		if x >= right {
			return
		}

		style := baseStyle
		for runIdx < len(runs) && runs[runIdx].EndCol <= col {
			runIdx++
		}
		if runIdx < len(runs) && runs[runIdx].StartCol <= col {
			style = runs[runIdx].Style
		}
		if selecting && selected(region, line, col) {
			style = selectedStyle
		}

		width := t.cellWidth(r)
		if r == '\t' {
			for i := 0; i < width; i++ {
				if x+i >= left && x+i < right {
					s.SetContent(x+i, y, ' ', nil, style)
				}
			}
		} else if x >= left {
			s.SetContent(x, y, r, nil, style)
		}
		x += width
	}

	// A selected line delimiter is drawn as one selected cell
	if selecting && line < t.Buffer.Lines()-1 && selected(region, line, len(runes)) && x >= left && x < right {
		s.SetContent(x, y, ' ', nil, selectedStyle)
	}
}

// SetFocused sets whether the TextEdit is focused. When focused, the cursor is set visible
// and its position is updated on every event.
func (t *TextEdit) SetFocused(v bool) {
	t.focused = v
	if v {
		t.updateCursorVisibility()
	} else if t.screen != nil {
		t.screen.HideCursor()
	}
}

// moveCursor puts the cursor at c. When selecting, the selection is begun at
// the old cursor or extended to c; otherwise any selection is dropped.
func (t *TextEdit) moveCursor(c buffer.Cursor, selecting bool) {
	if selecting {
		if !t.selectMode {
			t.selection = buffer.Region{Start: t.cursor, End: t.cursor}
			t.selectMode = true
		}
		t.selection.End = c
	} else {
		t.selectMode = false
	}
	t.cursor = c
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// HandleEvent allows the TextEdit to handle `event` if it chooses, returns
// whether the TextEdit handled the event.
func (t *TextEdit) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		shift := ev.Modifiers()&tcell.ModShift != 0
		ctrl := ev.Modifiers()&tcell.ModCtrl != 0

		switch ev.Key() {
		// Cursor movement
		case tcell.KeyUp:
			t.moveCursor(t.cursor.Up(), shift)
		case tcell.KeyDown:
			t.moveCursor(t.cursor.Down(), shift)
		case tcell.KeyLeft:
			if ctrl {
				t.moveCursor(t.cursor.PrevWordBoundaryStart(), shift)
			} else {
				t.moveCursor(t.cursor.Left(), shift)
			}
		case tcell.KeyRight:
			if ctrl {
				t.moveCursor(t.cursor.NextWordBoundaryEnd(), shift)
			} else {
				t.moveCursor(t.cursor.Right(), shift)
			}
		case tcell.KeyHome:
			t.moveCursor(t.cursor.Home(), shift)
		case tcell.KeyEnd:
			t.moveCursor(t.cursor.End(), shift)
		case tcell.KeyPgUp:
			cursLine, cursCol := t.cursor.GetLineCol()
			t.moveCursor(t.cursor.SetLineCol(cursLine-t.height, cursCol), shift) // Go a page up
		case tcell.KeyPgDn:
			cursLine, cursCol := t.cursor.GetLineCol()
			t.moveCursor(t.cursor.SetLineCol(cursLine+t.height, cursCol), shift) // Go a page down

		// Deleting
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			t.Delete(false)
		case tcell.KeyDelete:
			t.Delete(true)

		// Other control
		case tcell.KeyTab:
			t.Insert("\t") // (can translate to spaces)
		case tcell.KeyEnter:
			t.Insert("\n")

		// Inserting
		case tcell.KeyRune:
			t.Insert(string(ev.Rune())) // Insert rune
		default:
			return false
		}
		return true
	}
	return false
}
