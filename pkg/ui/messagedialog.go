package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type MessageDialogKind uint8

const (
	MessageKindNormal MessageDialogKind = iota
	MessageKindWarning
	MessageKindError
)

// Index of messageDialogKindTitles is any MessageDialogKind.
var messageDialogKindTitles = [3]string{
	"Message",
	"Warning!",
	"Error!",
}

// A MessageDialog shows a wrapped message and a row of buttons. Callback is
// given the text of the button that was pressed, or "" when the dialog was
// dismissed with Escape.
type MessageDialog struct {
	Title    string
	Kind     MessageDialogKind
	Callback func(string)

	message string
	lines   []string // message wrapped to the dialog width

	buttons     []*Button
	selectedIdx int

	baseComponent
}

func NewMessageDialog(title string, message string, kind MessageDialogKind, options []string, theme *Theme, callback func(string)) *MessageDialog {
	if title == "" {
		title = messageDialogKindTitles[kind] // Use default title
	}

	if len(options) == 0 {
		options = []string{"OK"}
	}

	dialog := &MessageDialog{
		Title:         title,
		Kind:          kind,
		Callback:      callback,
		baseComponent: baseComponent{theme: theme},
	}

	dialog.buttons = make([]*Button, len(options))
	for i := range options {
		text := options[i]
		dialog.buttons[i] = NewButton(text, theme, func() {
			if dialog.Callback != nil {
				dialog.Callback(text)
			}
		})
	}

	dialog.width = 40
	dialog.SetMessage(message)
	// Set the dialog's size to its minimum size
	dialog.SetSize(0, 0)

	return dialog
}

func (d *MessageDialog) SetMessage(message string) {
	d.message = message
	d.lines = strings.Split(runewidth.Wrap(message, max(d.width-2, 1)), "\n")
	// Update height:
	_, minHeight := d.GetMinSize()
	d.height = max(d.height, minHeight)
}

func (d *MessageDialog) Message() string {
	return d.message
}

func (d *MessageDialog) Draw(s tcell.Screen) {
	DrawWindow(s, d.x, d.y, d.width, d.height, d.Title, d.theme)

	style := d.theme.GetOrDefault("Window")
	for i, line := range d.lines {
		DrawStr(s, d.x+1, d.y+2+i, line, style)
	}

	col := d.width // Start from the right side
	for i := len(d.buttons) - 1; i >= 0; i-- {
		width, _ := d.buttons[i].GetSize()
		col -= width + 1 // Move left enough for each button (1 for padding)
		d.buttons[i].SetPos(d.x+col, d.y+d.height-2)
		d.buttons[i].Draw(s)
	}
}

func (d *MessageDialog) SetFocused(v bool) {
	d.focused = v
	d.buttons[d.selectedIdx].SetFocused(v)
}

func (d *MessageDialog) SetTheme(theme *Theme) {
	d.theme = theme
	for i := range d.buttons {
		d.buttons[i].SetTheme(theme)
	}
}

func (d *MessageDialog) GetMinSize() (int, int) {
	buttonsWidth := 1
	for _, b := range d.buttons {
		w, _ := b.GetSize()
		buttonsWidth += w + 1
	}
	return max(max(runewidth.StringWidth(d.Title)+2, 30), buttonsWidth), 2 + len(d.lines) + 2
}

func (d *MessageDialog) SetSize(width, height int) {
	minWidth, _ := d.GetMinSize()
	if w := max(width, minWidth); w != d.width {
		d.width = w
		d.SetMessage(d.message) // Rewrap
	}
	_, minHeight := d.GetMinSize()
	d.height = max(height, minHeight)
}

func (d *MessageDialog) selectButton(idx int) {
	d.buttons[d.selectedIdx].SetFocused(false)
	d.selectedIdx = (idx + len(d.buttons)) % len(d.buttons)
	d.buttons[d.selectedIdx].SetFocused(d.focused)
}

func (d *MessageDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok {
		switch ev.Key() {
		case tcell.KeyLeft, tcell.KeyBacktab:
			d.selectButton(d.selectedIdx - 1)
			return true
		case tcell.KeyRight, tcell.KeyTab:
			d.selectButton(d.selectedIdx + 1)
			return true
		case tcell.KeyEscape:
			if d.Callback != nil {
				d.Callback("")
			}
			return true
		}
	}
	return d.buttons[d.selectedIdx].HandleEvent(event)
}
