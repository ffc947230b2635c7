package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestMessageDialogButtons(t *testing.T) {
	var pressed []string
	d := NewMessageDialog("", "File changed on disk. Reload it?", MessageKindWarning, []string{"Keep", "Reload"}, &DefaultTheme, func(choice string) {
		pressed = append(pressed, choice)
	})
	require.Equal(t, "Warning!", d.Title)
	d.SetFocused(true)

	d.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	d.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	d.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	d.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	require.Equal(t, []string{"Keep", "Reload", ""}, pressed)
}

func TestMessageDialogWraps(t *testing.T) {
	s := newScreen(t, 60, 20)
	d := NewMessageDialog("Error", "open /nonexistent/file.go: no such file or directory", MessageKindError, nil, &DefaultTheme, nil)
	Center(d, 60, 20)
	d.Draw(s)

	w, h := d.GetSize()
	require.GreaterOrEqual(t, w, 30)
	require.Greater(t, h, 5) // More than one line of message
}

func TestFileSelectorDialogPaths(t *testing.T) {
	var chosen []string
	var canceled bool
	s := newScreen(t, 60, 20)
	d := NewFileSelectorDialog(s, "Open", true, &DefaultTheme, func(paths []string) { chosen = paths }, func() { canceled = true })

	d.SetInput(" a.go, ,b.py ")
	require.Equal(t, []string{"a.go", "b.py"}, d.Paths())

	d.SetFocused(true)
	d.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	require.Equal(t, []string{"a.go", "b.py"}, chosen)

	d.MustExist = false
	require.Equal(t, []string{"a.go"}, d.Paths())

	d.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	require.True(t, canceled)
}

func TestTabContainer(t *testing.T) {
	s := newScreen(t, 40, 10)
	c := NewTabContainer(&DefaultTheme)
	c.SetPos(0, 1)
	c.SetSize(40, 9)
	c.SetFocused(true)

	a := newTextEdit(t, s, "a.go", "package a")
	b := newTextEdit(t, s, "b.go", "package b")
	c.AddTab("a.go", a)
	c.AddTab("b.go", b)
	require.Equal(t, 1, c.GetSelectedTabIdx())

	x, y := b.GetPos()
	require.Equal(t, 1, x)
	require.Equal(t, 2, y)

	c.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlE, 0, tcell.ModCtrl))
	require.Equal(t, 0, c.GetSelectedTabIdx())

	require.True(t, c.RemoveTab(0))
	require.Equal(t, 1, c.GetTabCount())
	require.Same(t, b, c.SelectedTab().Child)
	require.False(t, c.RemoveTab(3))

	require.True(t, c.RemoveTab(0))
	require.Nil(t, c.SelectedTab())
	require.False(t, c.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
}

func TestTabContainerMarksDirtyTabs(t *testing.T) {
	s := newScreen(t, 40, 10)
	c := NewTabContainer(&DefaultTheme)
	c.SetSize(40, 10)

	te := newTextEdit(t, s, "a.go", "")
	c.AddTab("a.go", te)
	te.Insert("x")
	c.Draw(s)

	require.Equal(t, " *a.go ", rowText(s, 20-7/2, 0, 7))
}
