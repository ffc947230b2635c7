package cmd

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/pkg/ui"
)

func TestGotoLineDialog_Line(t *testing.T) {
	d := NewGotoLineDialog(nil, &ui.DefaultTheme, nil, nil)

	for input, want := range map[string]int{"1": 1, " 42 ": 42, "007": 7} {
		d.SetInput(input)
		got, ok := d.Line()
		require.True(t, ok, input)
		require.Equal(t, want, got, input)
	}
	for _, input := range []string{"", "0", "-3", "x"} {
		d.SetInput(input)
		_, ok := d.Line()
		require.False(t, ok, input)
	}
}

func TestGotoLineDialog_Keys(t *testing.T) {
	var chosen []int
	canceled := 0
	d := NewGotoLineDialog(nil, &ui.DefaultTheme, func(n int) { chosen = append(chosen, n) }, func() { canceled++ })
	d.SetFocused(true)

	for _, r := range "4a2" {
		d.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	d.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	require.Equal(t, []int{42}, chosen, "letters are not typed")

	d.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	require.Equal(t, 1, canceled)

	// Tab twice reaches "Go"
	d.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	d.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	d.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	require.Equal(t, []int{42, 42}, chosen)
}

func TestGotoLineDialog_Draw(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(40, 10)
	t.Cleanup(s.Fini)

	d := NewGotoLineDialog(s, &ui.DefaultTheme, nil, nil)
	ui.Center(d, 40, 10)
	x, y := d.GetPos()
	require.Equal(t, 8, x)
	require.Equal(t, 2, y)

	d.Draw(s)
	s.Show()
	require.Contains(t, rowText(s, y), "Go to line")
	require.Contains(t, rowText(s, y+4), "Cancel")
	require.Contains(t, rowText(s, y+4), "Go")
}
