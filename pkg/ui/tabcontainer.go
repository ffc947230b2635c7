package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// A Tab is a child of a TabContainer; has a name and child Component.
type Tab struct {
	Name  string
	Child Component
}

// A TabContainer organizes children by showing only one of them at a time.
type TabContainer struct {
	children []Tab
	selected int

	baseComponent
}

func NewTabContainer(theme *Theme) *TabContainer {
	return &TabContainer{
		children:      make([]Tab, 0, 4),
		baseComponent: baseComponent{theme: theme},
	}
}

// AddTab appends a tab and makes it the visible one.
func (c *TabContainer) AddTab(name string, child Component) {
	c.children = append(c.children, Tab{Name: name, Child: child})
	// Update new child's size and position
	child.SetPos(c.x+1, c.y+1)
	child.SetSize(c.width-2, c.height-2)
	c.FocusTab(len(c.children) - 1)
}

// RemoveTab deletes the tab at `idx`. Returns true if the tab was found,
// false otherwise.
func (c *TabContainer) RemoveTab(idx int) bool {
	if idx < 0 || idx >= len(c.children) {
		return false
	}
	if c.selected == idx {
		c.children[idx].Child.SetFocused(false)
	}

	copy(c.children[idx:], c.children[idx+1:])  // Shift all items after idx to the left
	c.children = c.children[:len(c.children)-1] // Shrink slice by one

	if c.selected >= idx && c.selected > 0 {
		c.selected-- // Keep the cursor within the bounds of available tabs
	}
	if len(c.children) > 0 {
		c.layoutSelected()
		c.children[c.selected].Child.SetFocused(c.focused)
	}
	return true
}

// FocusTab sets the visible tab to the one at `idx`. FocusTab clamps `idx`
// between 0 and tab_count - 1. If no tabs are present, the function does nothing.
func (c *TabContainer) FocusTab(idx int) {
	if len(c.children) < 1 {
		return
	}
	idx = Clamp(idx, 0, len(c.children)-1)

	if c.selected < len(c.children) {
		c.children[c.selected].Child.SetFocused(false) // Unfocus old tab
	}
	c.selected = idx
	c.layoutSelected()
	c.children[idx].Child.SetFocused(c.focused) // Focus new tab
}

// layoutSelected gives the visible child the container's current bounds.
func (c *TabContainer) layoutSelected() {
	child := c.children[c.selected].Child
	child.SetPos(c.x+1, c.y+1)
	child.SetSize(c.width-2, c.height-2)
}

func (c *TabContainer) GetSelectedTabIdx() int {
	return c.selected
}

func (c *TabContainer) GetTabCount() int {
	return len(c.children)
}

func (c *TabContainer) GetTab(idx int) *Tab {
	return &c.children[idx]
}

// SelectedTab returns the visible tab, or nil when there are none.
func (c *TabContainer) SelectedTab() *Tab {
	if c.selected < len(c.children) {
		return &c.children[c.selected]
	}
	return nil
}

// Draw draws the border and the tab names, then the visible child.
func (c *TabContainer) Draw(s tcell.Screen) {
	var styFocused tcell.Style
	if c.focused {
		styFocused = c.theme.GetOrDefault("TabContainerFocused")
	} else {
		styFocused = c.theme.GetOrDefault("TabContainer")
	}

	// Draw outline
	DrawRectOutlineDefault(s, c.x, c.y, c.width, c.height, styFocused)

	names := make([]string, len(c.children))
	combinedTabLength := 0
	for i, tab := range c.children {
		name := tab.Name
		if te, ok := tab.Child.(*TextEdit); ok && te.Dirty {
			name = "*" + name
		}
		names[i] = fmt.Sprintf(" %s ", name)
		combinedTabLength += runewidth.StringWidth(names[i])
	}
	combinedTabLength += len(c.children) - 1 // add for spacing between tabs

	// Draw tabs
	col := c.x + c.width/2 - combinedTabLength/2 // Starting column
	for i, str := range names {
		sty := c.theme.GetOrDefault("Tab")
		if c.selected == i {
			sty = c.theme.GetOrDefault("TabSelected")
		}
		col += DrawStr(s, col, c.y, str, sty) + 1 // Add one for spacing between tabs
	}

	// Draw selected child in center
	if c.selected < len(c.children) {
		c.children[c.selected].Child.Draw(s)
	}
}

// SetFocused calls SetFocused on the visible child Component.
func (c *TabContainer) SetFocused(v bool) {
	c.focused = v
	if len(c.children) > 0 {
		c.children[c.selected].Child.SetFocused(v)
	}
}

// SetTheme sets the theme.
func (c *TabContainer) SetTheme(theme *Theme) {
	c.theme = theme
	for _, tab := range c.children {
		tab.Child.SetTheme(theme) // Update the theme for all children
	}
}

// SetPos sets the position of the container and updates the child Component.
func (c *TabContainer) SetPos(x, y int) {
	c.x, c.y = x, y
	if c.selected < len(c.children) {
		c.layoutSelected()
	}
}

// SetSize sets the size of the container and updates the size of the child Component.
func (c *TabContainer) SetSize(width, height int) {
	c.width, c.height = width, height
	if c.selected < len(c.children) {
		c.layoutSelected()
	}
}

// HandleEvent switches tabs on Ctrl+E and Ctrl+W, and forwards everything
// else to the visible child.
func (c *TabContainer) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlE {
			newIdx := c.selected + 1
			if newIdx >= len(c.children) {
				newIdx = 0
			}
			c.FocusTab(newIdx)
			return true
		} else if ev.Key() == tcell.KeyCtrlW {
			newIdx := c.selected - 1
			if newIdx < 0 {
				newIdx = len(c.children) - 1
			}
			c.FocusTab(newIdx)
			return true
		}
	}

	if c.selected < len(c.children) {
		return c.children[c.selected].Child.HandleEvent(event)
	}

	return false
}
