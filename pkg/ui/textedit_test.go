package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return s
}

func newTextEdit(t *testing.T, s tcell.Screen, path, contents string) *TextEdit {
	t.Helper()
	syntaxTheme := syntax.ThemeFor(syntax.Dark)
	te := NewTextEdit(s, path, []byte(contents), ThemeFor(syntaxTheme), syntaxTheme, syntax.NewEngine(syntax.DefaultOptions()))
	te.SetPos(0, 0)
	te.SetSize(40, 10)
	return te
}

func key(k tcell.Key, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, mod)
}

func typeString(te *TextEdit, str string) {
	for _, r := range str {
		te.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

// rowText reads `width` cells of a screen row.
func rowText(s tcell.Screen, x, y, width int) string {
	runes := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		r, _, _, _ := s.GetContent(x+i, y)
		runes = append(runes, r)
	}
	return string(runes)
}

func TestTextEditLanguageFromPath(t *testing.T) {
	s := newScreen(t, 40, 10)

	te := newTextEdit(t, s, "main.go", "package main\n")
	require.Equal(t, syntax.Go, te.Language())

	te.SetFilePath("notes.txt")
	require.Equal(t, syntax.Plain, te.Language())
	require.Equal(t, "notes.txt", te.FilePath)

	te.SetLanguage(syntax.Python)
	require.Equal(t, syntax.Python, te.Language())
}

func TestTextEditInsert(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "")

	typeString(te, "ab")
	te.Insert("c\nde")
	require.Equal(t, "abc\nde", te.String())
	require.True(t, te.Dirty)

	line, col := te.GetCursor().GetLineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 2, col)
}

func TestTextEditInsertCRLF(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "a\r\nb")
	require.True(t, te.IsCRLF)

	te.SetCursor(te.GetCursor().SetLineCol(1, 1))
	te.Insert("\nc\r\nd")
	require.Equal(t, "a\r\nb\r\nc\r\nd", te.String())
}

func TestTextEditSoftTabs(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "")
	te.UseHardTabs = false
	te.TabSize = 2

	te.HandleEvent(key(tcell.KeyTab, tcell.ModNone))
	typeString(te, "x")
	require.Equal(t, "  x", te.String())
}

func TestTextEditDelete(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "ab\ncd")

	te.SetCursor(te.GetCursor().SetLineCol(1, 0))
	te.Delete(false) // Joins the lines
	require.Equal(t, "abcd", te.String())

	line, col := te.GetCursor().GetLineCol()
	require.Equal(t, 0, line)
	require.Equal(t, 2, col)

	te.Delete(true)
	require.Equal(t, "abd", te.String())

	te.SetCursor(te.GetCursor().SetLineCol(0, 0))
	te.Delete(false) // Nothing before the start
	require.Equal(t, "abd", te.String())
}

func TestTextEditSelection(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "hello world\nbye")

	te.HandleEvent(key(tcell.KeyRight, tcell.ModShift|tcell.ModCtrl))
	require.Equal(t, "hello", string(te.GetSelectedBytes()))

	te.HandleEvent(key(tcell.KeyDown, tcell.ModShift))
	require.Equal(t, "hello world\nbye", string(te.GetSelectedBytes()))

	te.HandleEvent(key(tcell.KeyLeft, tcell.ModNone)) // Moving drops the selection
	require.Empty(t, te.GetSelectedBytes())
}

func TestTextEditSelectionBackwards(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "abc\ndef")

	te.SetCursor(te.GetCursor().SetLineCol(1, 1))
	te.HandleEvent(key(tcell.KeyUp, tcell.ModShift))
	require.Equal(t, "bc\nd", string(te.GetSelectedBytes()))

	te.Insert("X")
	require.Equal(t, "aXef", te.String())
}

func TestTextEditSelectAllDelete(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "one\r\ntwo\r\n")

	te.SelectAll()
	require.Equal(t, "one\r\ntwo\r\n", string(te.GetSelectedBytes()))

	te.Delete(true)
	require.Equal(t, "", te.String())
	require.Empty(t, te.Buffer.Runs())
}

func TestTextEditChangeLineDelimiters(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "a\nb\n")

	te.ChangeLineDelimiters(true)
	require.Equal(t, "a\r\nb\r\n", te.String())
	require.True(t, te.IsCRLF)

	te.ChangeLineDelimiters(false)
	require.Equal(t, "a\nb\n", te.String())
}

func TestTextEditReloadKeepsCursor(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "one\ntwo\nthree")
	te.SetCursor(te.GetCursor().SetLineCol(2, 4))
	te.Dirty = true

	te.Reload([]byte("one\nlonger line"))
	require.False(t, te.Dirty)

	line, col := te.GetCursor().GetLineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 4, col)
}

func TestTextEditReloadDropsSelection(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "one\ntwo\nthree")
	te.SelectAll()

	te.Reload([]byte("x"))
	require.Empty(t, te.GetSelectedBytes())
	require.Equal(t, "x", te.String())
}

func TestTextEditGotoLine(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "")
	for i := 0; i < 30; i++ {
		te.Insert("line\n")
	}

	te.GotoLine(25)
	line, col := te.GetCursor().GetLineCol()
	require.Equal(t, 25, line)
	require.Equal(t, 0, col)

	require.LessOrEqual(t, te.scrolly, 25)
	require.Greater(t, te.scrolly+10, 25)

	te.Draw(s)
	require.Equal(t, "26│line", rowText(s, 0, 25-te.scrolly, 7))
}

func TestTextEditDrawStyles(t *testing.T) {
	s := newScreen(t, 40, 10)
	syntaxTheme := syntax.ThemeFor(syntax.Dark)
	te := newTextEdit(t, s, "main.go", "func f() // done\n\tx := \"s\"")
	te.Draw(s)

	col := te.getColumnWidth()
	require.Equal(t, " 1│func f() // done", rowText(s, 0, 0, col+16))
	require.Equal(t, " 2│    x := \"s\"", rowText(s, 0, 1, col+12)) // Hard tab drawn as spaces

	styleAt := func(x, y int) tcell.Style {
		_, _, style, _ := s.GetContent(x, y)
		return style
	}
	require.Equal(t, syntaxTheme.Style(syntax.Keyword), styleAt(col, 0))
	require.Equal(t, syntaxTheme.Style(syntax.Default), styleAt(col+5, 0))
	require.Equal(t, syntaxTheme.Style(syntax.Comment), styleAt(col+9, 0))
	require.Equal(t, syntaxTheme.Style(syntax.String), styleAt(col+9, 1))
}

func TestTextEditDrawSelection(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "abc")
	te.HandleEvent(key(tcell.KeyRight, tcell.ModShift))
	te.Draw(s)

	col := te.getColumnWidth()
	_, _, style, _ := s.GetContent(col, 0)
	require.Equal(t, te.theme.GetOrDefault("TextEditSelected"), style)
	_, _, style, _ = s.GetContent(col+1, 0)
	require.NotEqual(t, te.theme.GetOrDefault("TextEditSelected"), style)
}

func TestTextEditCursorFollowsFocus(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "\tab")
	te.SetFocused(true)
	te.SetCursor(te.GetCursor().SetLineCol(0, 2))

	x, y, visible := s.GetCursor()
	require.True(t, visible)
	require.Equal(t, te.getColumnWidth()+te.TabSize+1, x)
	require.Equal(t, 0, y)

	te.SetFocused(false)
	_, _, visible = s.GetCursor()
	require.False(t, visible)
}

func TestTextEditNoLineNumbers(t *testing.T) {
	s := newScreen(t, 40, 10)
	te := newTextEdit(t, s, "", "abc")
	te.LineNumbers = false
	te.Draw(s)

	require.Equal(t, "abc", rowText(s, 0, 0, 3))
}
