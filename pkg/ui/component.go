package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is a widget that draws itself in a rectangle and reacts to
// events while focused. Buttons, input fields, labels, dialogs and the text
// editor are Components. Constructors size a Component to its minimum; the
// owner then calls SetPos and, if it needs more room, SetSize.
type Component interface {
	Draw(tcell.Screen)
	// SetFocused changes how the Component draws and whether it takes keys.
	SetFocused(bool)
	// SetTheme restyles the Component and its children.
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)

	GetMinSize() (w, h int)
	GetSize() (w, h int)
	// SetSize never goes below the minimum size.
	SetSize(w, h int)

	// HandleEvent reports whether the event was used.
	HandleEvent(tcell.Event) bool
}

// Center sizes c to its minimum size and places it in the middle of a
// `width` by `height` area.
func Center(c Component, width, height int) {
	w, h := c.GetMinSize()
	c.SetSize(w, h)
	w, h = c.GetSize()
	c.SetPos(max(0, width/2-w/2), max(0, height/2-h/2))
}

// baseComponent carries the position, size, focus and theme every Component
// has. Embedding types override the methods they need to.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool) {
	c.focused = v
}

func (c *baseComponent) SetTheme(theme *Theme) {
	c.theme = theme
}

func (c *baseComponent) GetPos() (int, int) {
	return c.x, c.y
}

func (c *baseComponent) SetPos(x, y int) {
	c.x, c.y = x, y
}

func (c *baseComponent) GetMinSize() (int, int) {
	return 0, 0
}

func (c *baseComponent) GetSize() (int, int) {
	return c.width, c.height
}

func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = width, height
}
