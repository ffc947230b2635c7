package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type Button struct {
	Text     string
	Callback func()
	baseComponent
}

func NewButton(text string, theme *Theme, callback func()) *Button {
	return &Button{
		text,
		callback,
		baseComponent{theme: theme},
	}
}

func (b *Button) Draw(s tcell.Screen) {
	var str string
	if b.focused {
		str = fmt.Sprintf("[ %s ]", b.Text)
	} else {
		str = fmt.Sprintf("  %s  ", b.Text)
	}
	DrawStr(s, b.x, b.y, str, b.theme.GetOrDefault("Button"))
}

func (b *Button) GetMinSize() (int, int) {
	return runewidth.StringWidth(b.Text) + 4, 1
}

func (b *Button) GetSize() (int, int) {
	return b.GetMinSize()
}

func (b *Button) SetSize(width, height int) {}

// HandleEvent activates the button on Enter or Space while it is focused.
func (b *Button) HandleEvent(event tcell.Event) bool {
	if !b.focused {
		return false
	}
	if ev, ok := event.(*tcell.EventKey); ok {
		if ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
			if b.Callback != nil {
				b.Callback()
			}
			return true
		}
	}
	return false
}
