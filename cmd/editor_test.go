package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/internal/config"
	"github.com/fivemoreminix/workbench/internal/watcher"
	"github.com/fivemoreminix/workbench/pkg/syntax"
	"github.com/fivemoreminix/workbench/pkg/ui"
)

func newTestEditor(t *testing.T) (*editor, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)

	c := config.Defaults()
	c.Appearance = "dark"
	c.Watch.Enabled = false
	e := newEditor(s, c, filepath.Join(t.TempDir(), "config.yaml"))
	e.clip = &Clipboard{Method: ClipInternal}
	t.Cleanup(e.close)
	return e, s
}

func press(e *editor, k tcell.Key, mod tcell.ModMask) {
	e.handleEvent(tcell.NewEventKey(k, 0, mod))
}

func typeText(e *editor, text string) {
	for _, r := range text {
		e.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		sb.WriteString(string(cells[y*width+x].Runes))
	}
	return sb.String()
}

func TestEditor_OpenAndSave(t *testing.T) {
	e, _ := newTestEditor(t)
	path := writeFile(t, "main.go", "package main\n")

	require.NoError(t, e.open(path))
	require.Equal(t, 1, e.tabs.GetTabCount())
	require.Equal(t, "main.go", e.tabs.SelectedTab().Name)
	require.Equal(t, syntax.Go, e.current().Language())

	typeText(e, "// x")
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.True(t, e.current().Dirty)

	press(e, tcell.KeyCtrlS, tcell.ModCtrl)
	require.False(t, e.current().Dirty)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "// x\npackage main\n", string(data))
	require.Equal(t, " Saved main.go", e.statusText())
}

func TestEditor_OpenDirectory(t *testing.T) {
	e, _ := newTestEditor(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rb"), []byte("y = 2"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	require.NoError(t, e.open(dir))
	require.Equal(t, 2, e.tabs.GetTabCount())
	require.Equal(t, "a.py", e.tabs.GetTab(0).Name)
	require.Equal(t, "b.rb", e.tabs.GetTab(1).Name)
}

func TestEditor_OpenArgMissingFileCreatesOnSave(t *testing.T) {
	e, _ := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "notes.md")

	require.NoError(t, e.openArg(path))
	require.Error(t, e.open(path), "open alone requires an existing file")

	typeText(e, "# Notes")
	e.saveCurrent()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# Notes", string(data))
}

func TestEditor_SaveAsNewFile(t *testing.T) {
	e, _ := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "app.ts")

	press(e, tcell.KeyCtrlN, tcell.ModCtrl)
	require.Equal(t, unnamedTab, e.tabs.SelectedTab().Name)
	typeText(e, "let x")

	press(e, tcell.KeyCtrlS, tcell.ModCtrl)
	dialog, ok := e.dialog.(*ui.FileSelectorDialog)
	require.True(t, ok, "an unnamed file is saved through the Save As dialog")

	dialog.SetInput(path)
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Nil(t, e.dialog)
	require.Equal(t, e.tabs, e.focused)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "let x", string(data))
	require.Equal(t, "app.ts", e.tabs.SelectedTab().Name)
	require.Equal(t, syntax.TypeScript, e.current().Language(), "saving picks the language of the new extension")
}

func TestEditor_SaveAsSuggestsExtension(t *testing.T) {
	e, _ := newTestEditor(t)
	e.newFile()
	e.setLanguage(syntax.Python)

	e.showSaveAsDialog()
	dialog, ok := e.dialog.(*ui.FileSelectorDialog)
	require.True(t, ok)
	require.Equal(t, []string{"noname.py"}, dialog.Paths())

	e.closeDialog()
	e.setLanguage(syntax.Plain)
	e.showSaveAsDialog()
	require.Empty(t, e.dialog.(*ui.FileSelectorDialog).Paths())
}

func TestEditor_LanguageMenu(t *testing.T) {
	e, _ := newTestEditor(t)
	e.newFile()
	require.Equal(t, syntax.Plain, e.current().Language())

	press(e, tcell.KeyEscape, tcell.ModNone)
	typeText(e, "V")
	press(e, tcell.KeyUp, tcell.ModNone) // Wraps to Language, the last item
	press(e, tcell.KeyEnter, tcell.ModNone)
	for _, id := range syntax.Identities() {
		if id == syntax.Python {
			break
		}
		press(e, tcell.KeyDown, tcell.ModNone)
	}
	press(e, tcell.KeyEnter, tcell.ModNone)

	require.Equal(t, syntax.Python, e.current().Language())
	require.False(t, e.bar.MenusVisible())
	require.Equal(t, e.tabs, e.focused)
}

func TestEditor_CloseDirtyAsks(t *testing.T) {
	e, _ := newTestEditor(t)
	e.newFile()
	typeText(e, "x")

	e.closeCurrent()
	dialog, ok := e.dialog.(*ui.MessageDialog)
	require.True(t, ok)

	press(e, tcell.KeyEscape, tcell.ModNone)
	require.Nil(t, e.dialog)
	require.Equal(t, 1, e.tabs.GetTabCount(), "dismissing keeps the tab")

	e.closeCurrent()
	dialog = e.dialog.(*ui.MessageDialog)
	dialog.Callback("Discard")
	require.Zero(t, e.tabs.GetTabCount())
	require.Nil(t, e.current())
}

func TestEditor_QuitWithUnsavedChanges(t *testing.T) {
	e, _ := newTestEditor(t)
	press(e, tcell.KeyCtrlQ, tcell.ModCtrl)
	require.True(t, e.quit, "nothing to lose")

	e, _ = newTestEditor(t)
	e.newFile()
	typeText(e, "x")
	press(e, tcell.KeyCtrlQ, tcell.ModCtrl)
	require.False(t, e.quit)

	dialog := e.dialog.(*ui.MessageDialog)
	require.Contains(t, dialog.Message(), "1 file(s) have unsaved changes")
	dialog.Callback("Cancel")
	require.False(t, e.quit)

	press(e, tcell.KeyCtrlQ, tcell.ModCtrl)
	e.dialog.(*ui.MessageDialog).Callback("Quit")
	require.True(t, e.quit)
}

func TestEditor_CutCopyPaste(t *testing.T) {
	e, _ := newTestEditor(t)
	e.newFile()
	typeText(e, "hello")

	press(e, tcell.KeyCtrlA, tcell.ModCtrl)
	press(e, tcell.KeyCtrlC, tcell.ModCtrl)
	clip, err := e.clip.Read()
	require.NoError(t, err)
	require.Equal(t, "hello", clip)

	press(e, tcell.KeyCtrlA, tcell.ModCtrl)
	press(e, tcell.KeyCtrlX, tcell.ModCtrl)
	require.Empty(t, e.current().String())

	press(e, tcell.KeyCtrlV, tcell.ModCtrl)
	press(e, tcell.KeyCtrlV, tcell.ModCtrl)
	require.Equal(t, "hellohello", e.current().String())
}

func TestEditor_GotoLine(t *testing.T) {
	e, _ := newTestEditor(t)
	path := writeFile(t, "lines.txt", strings.Repeat("line\n", 30))
	require.NoError(t, e.open(path))

	press(e, tcell.KeyCtrlG, tcell.ModCtrl)
	_, ok := e.dialog.(*GotoLineDialog)
	require.True(t, ok)

	typeText(e, "1x2")
	press(e, tcell.KeyEnter, tcell.ModNone)
	require.Nil(t, e.dialog)

	line, col := e.current().GetCursor().GetLineCol()
	require.Equal(t, 11, line)
	require.Zero(t, col)
}

func TestEditor_ToggleAppearanceSavesConfig(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.open(writeFile(t, "main.go", "func")))
	require.Equal(t, syntax.Dark, e.appearance)

	press(e, tcell.KeyCtrlT, tcell.ModCtrl)
	require.Equal(t, syntax.Light, e.appearance)
	require.Equal(t, syntax.Light, e.current().Buffer.Theme().Appearance)
	require.Equal(t, e.theme, ui.ThemeFor(syntax.ThemeFor(syntax.Light)))

	saved, _, err := config.Load(e.cfgPath)
	require.NoError(t, err)
	require.Equal(t, "light", saved.Appearance)
}

func TestEditor_EscapeFocusesMenuBar(t *testing.T) {
	e, _ := newTestEditor(t)
	require.Equal(t, e.tabs, e.focused)

	press(e, tcell.KeyEscape, tcell.ModNone)
	require.Equal(t, e.bar, e.focused)

	press(e, tcell.KeyEscape, tcell.ModNone)
	require.Equal(t, e.tabs, e.focused)
}

func TestEditor_ReloadChangedFile(t *testing.T) {
	e, _ := newTestEditor(t)
	path := writeFile(t, "main.py", "x = 1\n")
	require.NoError(t, e.open(path))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("def f(): pass\n"), 0o644))
	e.handleEvent(tcell.NewEventInterrupt(fileChanged(abs)))
	te := e.current()
	require.Equal(t, "def f(): pass\n", te.String())
	require.False(t, te.Dirty)
	require.Equal(t, syntax.Keyword, te.Buffer.SyntaxAt(0, 0), "reloaded content is highlighted again")

	typeText(e, "#")
	require.NoError(t, os.WriteFile(path, []byte("y = 2\n"), 0o644))
	e.handleEvent(tcell.NewEventInterrupt(fileChanged(abs)))
	dialog, ok := e.dialog.(*ui.MessageDialog)
	require.True(t, ok, "a dirty tab asks before reloading")

	dialog.Callback("Keep")
	require.Equal(t, "#def f(): pass\n", te.String())

	e.handleEvent(tcell.NewEventInterrupt(fileChanged(abs)))
	e.dialog.(*ui.MessageDialog).Callback("Reload")
	require.Equal(t, "y = 2\n", te.String())
	require.False(t, te.Dirty)
}

func TestEditor_WatcherPostsChanges(t *testing.T) {
	e, s := newTestEditor(t)
	require.NoError(t, e.startWatcher(watcher.Config{DebounceDur: 20 * time.Millisecond}))
	path := writeFile(t, "main.rb", "x = 1\n")
	require.NoError(t, e.open(path))

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	require.NoError(t, os.WriteFile(path, []byte("def x; end\n"), 0o644))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if _, ok := ev.(*tcell.EventInterrupt); !ok {
				continue
			}
			e.handleEvent(ev)
			require.Equal(t, "def x; end\n", e.current().String())
			return
		case <-deadline:
			t.Fatal("expected a file change event")
		}
	}
}

func TestEditor_Draw(t *testing.T) {
	e, s := newTestEditor(t)
	require.NoError(t, e.open(writeFile(t, "main.go", "func main() {}\n")))

	e.draw()
	require.True(t, strings.HasPrefix(rowText(s, 0), "  File  Edit  Search  View "))
	require.Contains(t, rowText(s, 1), " main.go ")
	require.Contains(t, rowText(s, 2), " 1│func main() {}")
	require.True(t, strings.HasPrefix(rowText(s, 23), " go  dark  LF  Ln 1, Col 1"))

	s.SetSize(100, 30)
	e.handleEvent(tcell.NewEventResize(100, 30))
	e.draw()
	require.True(t, strings.HasPrefix(rowText(s, 29), " go  dark"))
}

func TestEditor_StatusWithoutTabs(t *testing.T) {
	e, _ := newTestEditor(t)
	require.Equal(t, " workbench  dark  Esc: menu", e.statusText())
}

func TestEditor_ToggleHighlighting(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.open(writeFile(t, "main.go", "func")))
	te := e.current()
	require.Equal(t, syntax.Keyword, te.Buffer.SyntaxAt(0, 0))

	e.toggleHighlighting()
	require.Nil(t, e.engine)
	require.Equal(t, syntax.Default, te.Buffer.SyntaxAt(0, 0))

	e.toggleHighlighting()
	require.NotNil(t, e.engine)
	require.Equal(t, syntax.Keyword, te.Buffer.SyntaxAt(0, 0))
}
