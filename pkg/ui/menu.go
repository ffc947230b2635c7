package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"
)

// Item is an interface implemented by ItemEntry and ItemMenu to be listed in Menus.
type Item interface {
	GetName() string
	// Returns a character/rune index of the name of the item.
	GetQuickCharIdx() int
	// A Shortcut is a string of the modifiers+key name of the action that must be pressed
	// to trigger the shortcut. For example: "Ctrl+Alt+X". The order of the modifiers is
	// very important. Letters are case-sensitive. See the KeyEvent.Name() function of tcell
	// for information. An empty string implies no shortcut.
	GetShortcut() string
}

// An ItemSeparator is like a blank Item that cannot actually be selected. It is useful
// for separating items in a Menu.
type ItemSeparator struct{}

// GetName returns an empty string.
func (i *ItemSeparator) GetName() string {
	return ""
}

func (i *ItemSeparator) GetQuickCharIdx() int {
	return 0
}

func (i *ItemSeparator) GetShortcut() string {
	return ""
}

// ItemEntry is a listing in a Menu with a name and callback.
type ItemEntry struct {
	Name      string
	QuickChar int // Character/rune index of Name
	Shortcut  string
	Callback  func()
}

// GetName returns the name of the ItemEntry.
func (i *ItemEntry) GetName() string {
	return i.Name
}

func (i *ItemEntry) GetQuickCharIdx() int {
	return i.QuickChar
}

func (i *ItemEntry) GetShortcut() string {
	return i.Shortcut
}

// GetName returns the name of the Menu.
func (m *Menu) GetName() string {
	return m.Name
}

func (m *Menu) GetQuickCharIdx() int {
	return m.QuickChar
}

// GetShortcut returns an arrow marking the item as a sub-menu. Sub-menus
// have no key binding of their own.
func (m *Menu) GetShortcut() string {
	return "►"
}

// A MenuBar is a horizontal list of menus.
type MenuBar struct {
	menus        []*Menu
	selected     int  // Index of selection in MenuBar
	menusVisible bool // Whether to draw the selected menu

	// Called after an item was activated through the bar, so the owner can
	// move focus back to where it was.
	ItemActivatedCallback func()

	baseComponent
}

func NewMenuBar(theme *Theme) *MenuBar {
	return &MenuBar{
		menus:         make([]*Menu, 0, 6),
		baseComponent: baseComponent{theme: theme, height: 1},
	}
}

func (b *MenuBar) AddMenu(menu *Menu) {
	menu.itemSelectedCallback = func() {
		b.menusVisible = false
		menu.SetFocused(false)
		if b.ItemActivatedCallback != nil {
			b.ItemActivatedCallback()
		}
	}
	menu.Theme = b.theme
	b.menus = append(b.menus, menu)
}

// GetMenuXPos returns the X position of the name of Menu at `idx` visually.
func (b *MenuBar) GetMenuXPos(idx int) int {
	x := b.x + 1
	for i := 0; i < idx; i++ {
		x += runewidth.StringWidth(b.menus[i].Name) + 2 // two for padding
	}
	return x
}

func (b *MenuBar) ActivateMenuUnderCursor() {
	if len(b.menus) == 0 {
		return
	}
	b.menusVisible = true // Show menus
	menu := b.menus[b.selected]
	menu.SetPos(b.GetMenuXPos(b.selected), b.y+1)
	menu.SetFocused(true)
}

// MenusVisible reports whether a menu is dropped down.
func (b *MenuBar) MenusVisible() bool {
	return b.menusVisible
}

func (b *MenuBar) CursorLeft() {
	if len(b.menus) == 0 {
		return
	}
	if b.menusVisible {
		b.menus[b.selected].SetFocused(false) // Unfocus current menu
	}

	if b.selected <= 0 {
		b.selected = len(b.menus) - 1 // Wrap to end
	} else {
		b.selected--
	}

	if b.menusVisible {
		// Update position of new menu after changing menu selection
		b.menus[b.selected].SetPos(b.GetMenuXPos(b.selected), b.y+1)
		b.menus[b.selected].SetFocused(true) // Focus new menu
	}
}

func (b *MenuBar) CursorRight() {
	if len(b.menus) == 0 {
		return
	}
	if b.menusVisible {
		b.menus[b.selected].SetFocused(false)
	}

	if b.selected >= len(b.menus)-1 {
		b.selected = 0 // Wrap to beginning
	} else {
		b.selected++
	}

	if b.menusVisible {
		// Update position of new menu after changing menu selection
		b.menus[b.selected].SetPos(b.GetMenuXPos(b.selected), b.y+1)
		b.menus[b.selected].SetFocused(true) // Focus new menu
	}
}

// Draw renders the MenuBar and its sub-menus.
func (b *MenuBar) Draw(s tcell.Screen) {
	normalStyle := b.theme.GetOrDefault("MenuBar")

	// Draw menus based on whether b.focused and which is selected
	DrawRect(s, b.x, b.y, b.width, 1, ' ', normalStyle)
	col := b.x + 1
	for i, item := range b.menus {
		sty := normalStyle
		if b.focused && b.selected == i {
			sty = b.theme.GetOrDefault("MenuBarSelected") // Use special style for selected item
		}

		str := fmt.Sprintf(" %s ", item.Name)
		cols := DrawQuickCharStr(s, col, b.y, str, item.QuickChar+1, sty)

		col += cols
	}

	if b.menusVisible {
		menu := b.menus[b.selected]
		menu.Draw(s) // Draw menu when it is expanded / visible
	}
}

// SetFocused highlights the MenuBar. Unfocusing closes any open menu.
func (b *MenuBar) SetFocused(v bool) {
	b.focused = v
	if !v {
		if len(b.menus) > 0 {
			b.menus[b.selected].SetFocused(false)
		}
		b.selected = 0 // Reset cursor position every time component is unfocused
		b.menusVisible = false
	}
}

func (b *MenuBar) SetTheme(theme *Theme) {
	b.theme = theme
	for _, m := range b.menus {
		m.SetTheme(theme)
	}
}

func (b *MenuBar) GetMinSize() (int, int) {
	return 0, 1
}

// SetSize sets the width of the MenuBar. It is always one row high.
func (b *MenuBar) SetSize(width, _ int) {
	b.width, b.height = width, 1
}

// HandleShortcut runs the item bound to a key, such as "Ctrl+S", in any
// menu. Returns whether an item had the shortcut.
func (b *MenuBar) HandleShortcut(ev *tcell.EventKey) bool {
	for i := range b.menus {
		if b.menus[i].handleShortcut(ev.Name()) {
			return true
		}
	}
	return false
}

// HandleEvent will propogate events to sub-menus and returns true if
// any of them handled the event.
func (b *MenuBar) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		// Shortcuts (Ctrl+S or Ctrl+Q, for example)
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return b.HandleShortcut(ev)
		}
		if len(b.menus) == 0 {
			return false
		}

		switch ev.Key() {
		case tcell.KeyEnter:
			if !b.menusVisible { // If menus are not visible...
				b.ActivateMenuUnderCursor()
			} else { // The selected Menu is visible, send the event to it
				return b.menus[b.selected].HandleEvent(event)
			}
		case tcell.KeyLeft:
			// An open sub-menu closes before the bar moves
			if b.menusVisible && b.menus[b.selected].HandleEvent(event) {
				return true
			}
			b.CursorLeft()
		case tcell.KeyRight:
			if b.menusVisible && b.menus[b.selected].HandleEvent(event) {
				return true
			}
			b.CursorRight()
		case tcell.KeyTab:
			if b.menusVisible {
				return b.menus[b.selected].HandleEvent(event)
			}
			b.CursorRight()

		// Quick char
		case tcell.KeyRune: // Search for the matching quick char in menu names
			if !b.menusVisible { // If the selected Menu is not open/visible
				for i, m := range b.menus {
					r := QuickCharInString(m.Name, m.QuickChar)
					if r != 0 && r == ev.Rune() {
						b.selected = i // Select menu at i
						b.ActivateMenuUnderCursor() // Show menu
						break
					}
				}
			} else {
				return b.menus[b.selected].HandleEvent(event) // Have menu handle quick char event
			}

		default:
			if b.menusVisible {
				return b.menus[b.selected].HandleEvent(event)
			}
			return false // Nobody to propogate our event to
		}
		return true
	}
	return false
}

// A Menu contains one or more ItemEntry or ItemMenus.
type Menu struct {
	Name      string
	QuickChar int // Character/rune index of Name
	Items     []Item

	x, y                 int
	width, height        int    // Size may not be settable
	selected             int    // Index of selected Item
	open                 *Menu  // Sub-menu shown beside the selected item, if any
	itemSelectedCallback func() // Used internally to hide menus on selection

	Theme *Theme
}

// NewMenu creates an empty Menu.
func NewMenu(name string, quickChar int, theme *Theme) *Menu {
	return &Menu{
		Name:      name,
		QuickChar: quickChar,
		Items:     make([]Item, 0, 6),
		Theme:     theme,
	}
}

func (m *Menu) AddItem(item Item) {
	if sub, ok := item.(*Menu); ok {
		sub.itemSelectedCallback = func() {
			if m.itemSelectedCallback != nil {
				m.itemSelectedCallback()
			}
		}
	}
	m.Items = append(m.Items, item)
}

func (m *Menu) AddItems(items []Item) {
	for _, item := range items {
		m.AddItem(item)
	}
}

func (m *Menu) ActivateItemUnderCursor() {
	if len(m.Items) == 0 {
		return
	}
	switch item := m.Items[m.selected].(type) {
	case *ItemEntry:
		// Close the menu first so the callback may open a dialog and take focus.
		if m.itemSelectedCallback != nil {
			m.itemSelectedCallback()
		}
		if item.Callback != nil {
			item.Callback()
		}
	case *Menu:
		m.openSubMenu(item)
	}
}

// openSubMenu shows sub to the right of the selected item. Keys go to it
// until Left or Escape closes it.
func (m *Menu) openSubMenu(sub *Menu) {
	m.GetSize()
	sub.SetPos(m.x+m.width-1, m.y+m.selected)
	sub.selected = 0
	m.open = sub
}

func (m *Menu) closeSubMenu() {
	if m.open != nil {
		m.open.SetFocused(false)
		m.open = nil
	}
}

// SubMenuOpen reports whether a sub-menu is shown beside this Menu.
func (m *Menu) SubMenuOpen() bool {
	return m.open != nil
}

func (m *Menu) CursorUp() {
	m.moveCursor(-1)
}

func (m *Menu) CursorDown() {
	m.moveCursor(1)
}

// moveCursor steps the selection by dir, wrapping and skipping separators.
func (m *Menu) moveCursor(dir int) {
	n := len(m.Items)
	for i := 0; i < n; i++ {
		m.selected = (m.selected + dir + n) % n
		if _, ok := m.Items[m.selected].(*ItemSeparator); !ok {
			return
		}
	}
}

// Draw renders the Menu at its position.
func (m *Menu) Draw(s tcell.Screen) {
	defaultStyle := m.Theme.GetOrDefault("Menu")

	m.GetSize()                                                          // Call this to update internal width and height
	DrawRect(s, m.x, m.y, m.width, m.height, ' ', defaultStyle)          // Fill background
	DrawRectOutlineDefault(s, m.x, m.y, m.width, m.height, defaultStyle) // Draw outline

	// Draw items based on whether m.focused and which is selected
	for i, item := range m.Items {
		switch item.(type) {
		case *ItemSeparator:
			str := fmt.Sprintf("%s%s%s", "├", strings.Repeat("─", m.width-2), "┤")
			DrawStr(s, m.x, m.y+1+i, str, defaultStyle)
		default: // Handle sub-menus and item entries the same
			var sty tcell.Style
			if m.selected == i {
				sty = m.Theme.GetOrDefault("MenuSelected")
			} else {
				sty = defaultStyle
			}

			nameCols := DrawQuickCharStr(s, m.x+1, m.y+1+i, item.GetName(), item.GetQuickCharIdx(), sty)

			str := strings.Repeat(" ", m.width-2-nameCols) // Fill space after menu names to border
			DrawStr(s, m.x+1+nameCols, m.y+1+i, str, sty)

			if shortcut := item.GetShortcut(); len(shortcut) > 0 { // If the item has a shortcut...
				str := " " + shortcut + " "
				DrawStr(s, m.x+m.width-1-runewidth.StringWidth(str), m.y+1+i, str, sty)
			}
		}
	}

	if m.open != nil {
		m.open.Draw(s)
	}
}

// SetFocused resets the selection when the Menu closes.
func (m *Menu) SetFocused(v bool) {
	if !v {
		m.closeSubMenu()
		m.selected = 0
	}
}

// GetPos returns the position of the Menu.
func (m *Menu) GetPos() (int, int) {
	return m.x, m.y
}

// SetPos sets the position of the Menu.
func (m *Menu) SetPos(x, y int) {
	m.x, m.y = x, y
}

func (m *Menu) GetMinSize() (int, int) {
	return m.GetSize()
}

// GetSize returns the size of the Menu.
func (m *Menu) GetSize() (int, int) {
	maxNameLen := 0
	var widestShortcut int = 0 // Will contribute to the width
	for i := range m.Items {
		nameLen := runewidth.StringWidth(m.Items[i].GetName())
		if nameLen > maxNameLen {
			maxNameLen = nameLen
		}

		if key := m.Items[i].GetShortcut(); runewidth.StringWidth(key) > widestShortcut {
			widestShortcut = runewidth.StringWidth(key) // For the sake of good unicode
		}
	}

	shortcutsWidth := 0
	if widestShortcut > 0 {
		shortcutsWidth = 1 + widestShortcut + 1 // " Ctrl+X "  (with one cell padding surrounding)
	}

	m.width = 1 + maxNameLen + shortcutsWidth + 1 // Add two for padding
	m.height = 1 + len(m.Items) + 1               // And another two for the same reason ...
	return m.width, m.height
}

// SetSize sets the size of the Menu.
func (m *Menu) SetSize(width, height int) {
	// Cannot set the size of a Menu
}

func (m *Menu) handleShortcut(key string) bool {
	for i := range m.Items {
		switch typ := m.Items[i].(type) {
		case *ItemSeparator:
			continue
		case *Menu:
			if typ.handleShortcut(key) { // Have the sub-menu handle the shortcut
				return true
			}
		case *ItemEntry:
			if typ.Shortcut == key { // If this item matches the shortcut we're finding...
				m.selected = i
				m.ActivateItemUnderCursor() // Activate it
				return true
			}
		}
	}
	return false
}

// HandleEvent will handle events for a Menu and may propogate them
// to sub-menus. Returns true if the event was handled.
func (m *Menu) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		if m.open != nil {
			switch ev.Key() {
			case tcell.KeyLeft, tcell.KeyEscape:
				// A deeper sub-menu closes first
				if !m.open.HandleEvent(event) {
					m.closeSubMenu()
				}
				return true
			}
			return m.open.HandleEvent(event)
		}

		switch ev.Key() {
		case tcell.KeyRight:
			if len(m.Items) == 0 {
				return false
			}
			sub, ok := m.Items[m.selected].(*Menu)
			if !ok {
				return false
			}
			m.openSubMenu(sub)
		case tcell.KeyEnter:
			m.ActivateItemUnderCursor()
		case tcell.KeyUp:
			m.CursorUp()
		case tcell.KeyTab:
			fallthrough
		case tcell.KeyDown:
			m.CursorDown()

		case tcell.KeyRune:
			for i, item := range m.Items {
				if m.selected == i {
					continue // Skip the item we're on
				}
				r := QuickCharInString(item.GetName(), item.GetQuickCharIdx())
				if r != 0 && r == ev.Rune() {
					m.selected = i
					break
				}
			}

		default:
			return false
		}
		return true
	}
	return false
}

func (m *Menu) SetTheme(theme *Theme) {
	m.Theme = theme
	for _, item := range m.Items {
		if sub, ok := item.(*Menu); ok {
			sub.SetTheme(theme)
		}
	}
}
