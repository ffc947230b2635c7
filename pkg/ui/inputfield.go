package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// An InputField is a single-line input box.
type InputField struct {
	Buffer []rune

	cursorPos int // Rune index into Buffer
	scrollPos int
	screen    tcell.Screen

	baseComponent
}

func NewInputField(screen tcell.Screen, placeholder string, theme *Theme) *InputField {
	f := &InputField{
		Buffer:        []rune(placeholder),
		screen:        screen,
		baseComponent: baseComponent{theme: theme, height: 1},
	}
	f.cursorPos = len(f.Buffer)
	return f
}

// String returns the text of the field.
func (f *InputField) String() string {
	return string(f.Buffer)
}

// SetText replaces the text and moves the cursor to its end.
func (f *InputField) SetText(text string) {
	f.Buffer = []rune(text)
	f.SetCursorPos(len(f.Buffer))
}

// SetCursorPos sets the cursor position offset. Offset is clamped to possible values.
// The InputField is scrolled to show the new cursor position.
func (f *InputField) SetCursorPos(offset int) {
	offset = Clamp(offset, 0, len(f.Buffer))
	view := max(f.width-2, 1) // Columns between the brackets

	// Scrolling
	if offset >= f.scrollPos+view { // If cursor position is out of view to the right...
		f.scrollPos = offset - view + 1 // Scroll just enough to view that column
	} else if offset < f.scrollPos { // If cursor position is out of view to the left...
		f.scrollPos = offset
	}

	f.cursorPos = offset
	if f.focused && f.screen != nil {
		col := runewidth.StringWidth(string(f.Buffer[f.scrollPos:f.cursorPos]))
		f.screen.ShowCursor(f.x+1+col, f.y)
	}
}

// Insert types a rune at the cursor.
func (f *InputField) Insert(r rune) {
	f.Buffer = append(f.Buffer, 0)
	copy(f.Buffer[f.cursorPos+1:], f.Buffer[f.cursorPos:])
	f.Buffer[f.cursorPos] = r
	f.SetCursorPos(f.cursorPos + 1)
}

// Delete removes the rune after the cursor when forward is true, and the
// rune before it otherwise.
func (f *InputField) Delete(forward bool) {
	idx := f.cursorPos
	if !forward {
		idx--
	}
	if idx < 0 || idx >= len(f.Buffer) {
		return
	}
	f.Buffer = append(f.Buffer[:idx], f.Buffer[idx+1:]...)
	f.SetCursorPos(idx)
}

func (f *InputField) Draw(s tcell.Screen) {
	style := f.theme.GetOrDefault("InputField")

	DrawRect(s, f.x, f.y, f.width, 1, ' ', style) // Draw background
	s.SetContent(f.x, f.y, '[', nil, style)
	s.SetContent(f.x+f.width-1, f.y, ']', nil, style)

	if len(f.Buffer) > 0 {
		visible := runewidth.Truncate(string(f.Buffer[f.scrollPos:]), f.width-2, "")
		DrawStr(s, f.x+1, f.y, visible, style) // Draw text
	}

	// Update cursor
	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) SetFocused(v bool) {
	f.focused = v
	if v {
		f.SetCursorPos(f.cursorPos)
	} else if f.screen != nil {
		f.screen.HideCursor()
	}
}

func (f *InputField) GetMinSize() (int, int) {
	return 3, 1
}

func (f *InputField) SetSize(width, height int) {
	f.width, f.height = max(width, 3), 1
}

func (f *InputField) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyLeft:
			f.SetCursorPos(f.cursorPos - 1)
		case tcell.KeyRight:
			f.SetCursorPos(f.cursorPos + 1)
		case tcell.KeyHome:
			f.SetCursorPos(0)
		case tcell.KeyEnd:
			f.SetCursorPos(len(f.Buffer))
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			f.Delete(false)
		case tcell.KeyDelete:
			f.Delete(true)
		case tcell.KeyRune:
			f.Insert(ev.Rune())
		default:
			return false
		}
		return true
	}
	return false
}
