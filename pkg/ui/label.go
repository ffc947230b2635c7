package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Align defines the text alignment of a label.
type Align uint8

const (
	// AlignLeft is the normal text alignment where text is aligned to the left
	// of its bounding box.
	AlignLeft Align = iota
	// AlignRight causes text to be aligned to the right of its bounding box.
	AlignRight
	// AlignJustify causes text to be left-aligned, but also spaced so that it
	// fits the entire box where it is being rendered.
	AlignJustify
)

// A Label is a component for rendering text. Text can be rendered easily
// without a Label, but this component forces the text to fit within its
// bounding box and allows for left-align, right-align, and justify.
type Label struct {
	Text      string
	Alignment Align
	StyleKey  string // Theme key; "Normal" when empty

	baseComponent
}

func NewLabel(text string, alignment Align, styleKey string, theme *Theme) *Label {
	return &Label{
		Text:          text,
		Alignment:     alignment,
		StyleKey:      styleKey,
		baseComponent: baseComponent{theme: theme},
	}
}

func (l *Label) style() tcell.Style {
	if l.StyleKey == "" {
		return l.theme.GetOrDefault("Normal")
	}
	return l.theme.GetOrDefault(l.StyleKey)
}

// Draw fills the bounding box and draws the first line of the text in it.
// Text wider than the box is cut off.
func (l *Label) Draw(s tcell.Screen) {
	style := l.style()
	DrawRect(s, l.x, l.y, l.width, max(l.height, 1), ' ', style)

	text := l.Text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = runewidth.Truncate(text, l.width, "")

	switch l.Alignment {
	case AlignRight:
		DrawStr(s, l.x+l.width-runewidth.StringWidth(text), l.y, text, style)
	case AlignJustify:
		l.drawJustified(s, text, style)
	default:
		DrawStr(s, l.x, l.y, text, style)
	}
}

// drawJustified spreads the spare columns over the gaps between words.
func (l *Label) drawJustified(s tcell.Screen, text string, style tcell.Style) {
	words := strings.Fields(text)
	if len(words) < 2 {
		DrawStr(s, l.x, l.y, text, style)
		return
	}

	used := 0
	for _, w := range words {
		used += runewidth.StringWidth(w)
	}
	gaps := len(words) - 1
	spare := max(l.width-used, gaps)

	col := l.x
	for i, w := range words {
		col += DrawStr(s, col, l.y, w, style)
		if i < gaps {
			pad := spare / gaps
			if i < spare%gaps {
				pad++
			}
			col += pad
		}
	}
}

func (l *Label) GetMinSize() (int, int) {
	return runewidth.StringWidth(l.Text), 1
}

func (l *Label) HandleEvent(tcell.Event) bool {
	return false
}
