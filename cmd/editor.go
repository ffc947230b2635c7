package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/workbench/internal/config"
	"github.com/fivemoreminix/workbench/internal/log"
	"github.com/fivemoreminix/workbench/internal/watcher"
	"github.com/fivemoreminix/workbench/pkg/syntax"
	"github.com/fivemoreminix/workbench/pkg/ui"
)

const unnamedTab = "noname"

// fileChanged is posted to the screen by the watcher goroutine.
type fileChanged string

// An editor is the whole terminal UI: a menu bar, a tab per open file, a
// status line and at most one dialog.
type editor struct {
	screen  tcell.Screen
	cfg     config.Config
	cfgPath string

	appearance  syntax.Appearance
	syntaxTheme syntax.Theme
	theme       *ui.Theme
	engine      *syntax.Engine // nil when highlighting is off
	clip        *Clipboard
	watcher     *watcher.Watcher // nil when watching is off
	done        chan struct{}

	bar     *ui.MenuBar
	tabs    *ui.TabContainer
	status  *ui.Label
	dialog  ui.Component // nil if no dialog is shown
	message string       // Shown in the status line until the next key

	focused    ui.Component
	barFocused bool
	quit       bool
}

func runEditor(cmd *cobra.Command, args []string) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer s.Fini() // Useful for handling panics

	e := newEditor(s, cfg, cfgPath)
	defer e.close()

	if cfg.Watch.Enabled {
		if err := e.startWatcher(watcher.Config{DebounceDur: cfg.Watch.Debounce}); err != nil {
			log.ErrorErr(log.CatWatcher, "Could not watch files", err)
		}
	}

	for _, path := range args {
		if err := e.openArg(path); err != nil {
			e.showError(err)
		}
	}

	e.run()
	return nil
}

func newEditor(s tcell.Screen, cfg config.Config, cfgPath string) *editor {
	e := &editor{
		screen:     s,
		cfg:        cfg,
		cfgPath:    cfgPath,
		appearance: cfg.ResolveAppearance(),
		done:       make(chan struct{}),
	}
	e.syntaxTheme = syntax.ThemeFor(e.appearance)
	e.theme = ui.ThemeFor(e.syntaxTheme)
	if cfg.Highlight.Enabled {
		e.engine = syntax.NewEngine(cfg.HighlightOptions())
	}

	clip, err := NewClipboard(ClipExternal)
	if err != nil {
		log.Info(log.CatUI, "Using internal clipboard")
	}
	e.clip = clip

	e.tabs = ui.NewTabContainer(e.theme)
	e.status = ui.NewLabel("", ui.AlignLeft, "StatusBar", e.theme)
	e.bar = ui.NewMenuBar(e.theme)
	e.bar.ItemActivatedCallback = func() {
		e.barFocused = false
		e.changeFocus(e.tabs)
	}
	e.buildMenus()

	e.layout()
	e.changeFocus(e.tabs) // TabContainer is focused by default
	return e
}

func (e *editor) buildMenus() {
	fileMenu := ui.NewMenu("File", 0, e.theme)
	fileMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "New File", Shortcut: "Ctrl+N", Callback: e.newFile},
		&ui.ItemEntry{Name: "Open...", Shortcut: "Ctrl+O", Callback: e.showOpenDialog},
		&ui.ItemEntry{Name: "Save", Shortcut: "Ctrl+S", Callback: e.saveCurrent},
		&ui.ItemEntry{Name: "Save As...", QuickChar: 5, Callback: e.showSaveAsDialog},
		&ui.ItemEntry{Name: "Close", Shortcut: "Ctrl+F4", Callback: e.closeCurrent},
		&ui.ItemSeparator{},
		&ui.ItemEntry{Name: "Exit", QuickChar: 1, Shortcut: "Ctrl+Q", Callback: e.requestQuit},
	})

	editMenu := ui.NewMenu("Edit", 0, e.theme)
	editMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "Cut", QuickChar: 2, Shortcut: "Ctrl+X", Callback: e.cut},
		&ui.ItemEntry{Name: "Copy", Shortcut: "Ctrl+C", Callback: e.copy},
		&ui.ItemEntry{Name: "Paste", Shortcut: "Ctrl+V", Callback: e.paste},
		&ui.ItemSeparator{},
		&ui.ItemEntry{Name: "Select All", QuickChar: 7, Shortcut: "Ctrl+A", Callback: e.selectAll},
	})

	searchMenu := ui.NewMenu("Search", 0, e.theme)
	searchMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "Go to line...", Shortcut: "Ctrl+G", Callback: e.showGotoLineDialog},
	})

	languageMenu := ui.NewMenu("Language", 0, e.theme)
	for _, id := range syntax.Identities() {
		id := id
		languageMenu.AddItem(&ui.ItemEntry{Name: id.String(), Callback: func() { e.setLanguage(id) }})
	}

	viewMenu := ui.NewMenu("View", 0, e.theme)
	viewMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "Toggle appearance", Shortcut: "Ctrl+T", Callback: e.toggleAppearance},
		&ui.ItemEntry{Name: "Syntax highlighting", Callback: e.toggleHighlighting},
		&ui.ItemEntry{Name: "Line numbers", Callback: e.toggleLineNumbers},
		&ui.ItemEntry{Name: "CRLF line endings", QuickChar: 1, Callback: e.toggleLineEndings},
		languageMenu,
	})

	e.bar.AddMenu(fileMenu)
	e.bar.AddMenu(editMenu)
	e.bar.AddMenu(searchMenu)
	e.bar.AddMenu(viewMenu)
}

func (e *editor) changeFocus(to ui.Component) {
	if e.focused != nil {
		e.focused.SetFocused(false)
	}
	e.focused = to
	to.SetFocused(true)
}

// startWatcher reports changes to open files through the event loop.
func (e *editor) startWatcher(cfg watcher.Config) error {
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	e.watcher = w
	changes := w.Start()

	go func() {
		for {
			select {
			case path := <-changes:
				if err := e.screen.PostEvent(tcell.NewEventInterrupt(fileChanged(path))); err != nil {
					log.Warn(log.CatWatcher, "Dropped file change", "path", path, "error", err)
				}
			case <-e.done:
				return
			}
		}
	}()
	return nil
}

func (e *editor) close() {
	close(e.done)
	if e.watcher != nil {
		if err := e.watcher.Stop(); err != nil {
			log.ErrorErr(log.CatWatcher, "Stopping watcher", err)
		}
	}
}

func (e *editor) watch(path string) {
	if e.watcher == nil || path == "" {
		return
	}
	if err := e.watcher.Add(path); err != nil {
		log.ErrorErr(log.CatWatcher, "Could not watch file", err, "path", path)
	}
}

// unwatch stops watching path unless another tab still shows it.
func (e *editor) unwatch(path string) {
	if e.watcher == nil || path == "" {
		return
	}
	for i, count := 0, e.tabs.GetTabCount(); i < count; i++ {
		if te, ok := e.tabs.GetTab(i).Child.(*ui.TextEdit); ok && samePath(te.FilePath, path) {
			return
		}
	}
	if err := e.watcher.Remove(path); err != nil {
		log.ErrorErr(log.CatWatcher, "Could not unwatch file", err, "path", path)
	}
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// current returns the TextEdit of the visible tab, or nil.
func (e *editor) current() *ui.TextEdit {
	tab := e.tabs.SelectedTab()
	if tab == nil {
		return nil
	}
	te, _ := tab.Child.(*ui.TextEdit)
	return te
}

func (e *editor) addTab(path string, contents []byte) *ui.TextEdit {
	te := ui.NewTextEdit(e.screen, path, contents, e.theme, e.syntaxTheme, e.engine)
	te.TabSize = e.cfg.Editor.TabSize
	te.UseHardTabs = e.cfg.Editor.HardTabs
	te.LineNumbers = e.cfg.Editor.LineNumbers

	name := unnamedTab
	if path != "" {
		name = filepath.Base(path)
	}
	e.tabs.AddTab(name, te)
	e.watch(path)
	log.Debug(log.CatUI, "Opened tab", "path", path, "language", te.Language())
	return te
}

func (e *editor) newFile() {
	e.addTab("", nil)
}

// openArg opens a path given on the command line. A path that does not exist
// yet is opened as an empty file that will be created on save.
func (e *editor) openArg(path string) error {
	err := e.open(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.addTab(path, nil)
		return nil
	}
	return err
}

// open opens a file in a new tab, or every file directly inside a directory.
func (e *editor) open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if !info.IsDir() {
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		e.addTab(path, contents)
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", path, err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			if err := e.open(filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// save writes te to path and associates it with that path.
func (e *editor) save(te *ui.TextEdit, path string) error {
	f, err := os.Create(path) //nolint:gosec // G304: the user chose the path
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if _, err := te.Buffer.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	if !samePath(te.FilePath, path) {
		old := te.FilePath
		te.SetFilePath(path)
		e.unwatch(old)
		e.watch(path)
	}
	te.Dirty = false
	if tab := e.tabs.SelectedTab(); tab != nil && tab.Child == te {
		tab.Name = filepath.Base(path)
	}
	e.message = "Saved " + filepath.Base(path)
	log.Info(log.CatUI, "Saved file", "path", path)
	return nil
}

func (e *editor) saveCurrent() {
	te := e.current()
	if te == nil {
		return
	}
	if te.FilePath == "" {
		e.showSaveAsDialog()
		return
	}
	if err := e.save(te, te.FilePath); err != nil {
		e.showError(err)
	}
}

func (e *editor) closeCurrent() {
	te := e.current()
	if te == nil {
		return
	}
	remove := func() {
		e.tabs.RemoveTab(e.tabs.GetSelectedTabIdx())
		e.unwatch(te.FilePath)
	}
	if !te.Dirty {
		remove()
		return
	}

	name := e.tabs.SelectedTab().Name
	e.showDialog(ui.NewMessageDialog("", name+" has unsaved changes.", ui.MessageKindWarning,
		[]string{"Discard", "Cancel"}, e.theme, func(choice string) {
			e.closeDialog()
			if choice == "Discard" {
				remove()
			}
		}))
}

func (e *editor) dirtyCount() int {
	n := 0
	for i, count := 0, e.tabs.GetTabCount(); i < count; i++ {
		if te, ok := e.tabs.GetTab(i).Child.(*ui.TextEdit); ok && te.Dirty {
			n++
		}
	}
	return n
}

func (e *editor) requestQuit() {
	n := e.dirtyCount()
	if n == 0 {
		e.quit = true
		return
	}
	e.showDialog(ui.NewMessageDialog("", fmt.Sprintf("%d file(s) have unsaved changes. Quit anyway?", n),
		ui.MessageKindWarning, []string{"Quit", "Cancel"}, e.theme, func(choice string) {
			e.closeDialog()
			e.quit = choice == "Quit"
		}))
}

func (e *editor) cut() {
	te := e.current()
	if te == nil {
		return
	}
	if selected := te.GetSelectedBytes(); len(selected) > 0 {
		if err := e.clip.Write(string(selected)); err != nil {
			e.showError(fmt.Errorf("writing clipboard: %w", err))
			return
		}
		te.Delete(false) // Delete the selection
	}
}

func (e *editor) copy() {
	te := e.current()
	if te == nil {
		return
	}
	if selected := te.GetSelectedBytes(); len(selected) > 0 {
		if err := e.clip.Write(string(selected)); err != nil {
			e.showError(fmt.Errorf("writing clipboard: %w", err))
		}
	}
}

func (e *editor) paste() {
	te := e.current()
	if te == nil {
		return
	}
	contents, err := e.clip.Read()
	if err != nil {
		e.showError(fmt.Errorf("reading clipboard: %w", err))
		return
	}
	te.Insert(contents)
}

func (e *editor) selectAll() {
	if te := e.current(); te != nil {
		te.SelectAll()
	}
}

func (e *editor) setLanguage(id syntax.Identity) {
	if te := e.current(); te != nil {
		te.SetLanguage(id)
	}
}

// toggleHighlighting turns highlighting off, or on, in every tab.
func (e *editor) toggleHighlighting() {
	if e.engine == nil {
		e.engine = syntax.NewEngine(e.cfg.HighlightOptions())
	} else {
		e.engine.Flush()
		e.engine = nil
	}
	for i, count := 0, e.tabs.GetTabCount(); i < count; i++ {
		if te, ok := e.tabs.GetTab(i).Child.(*ui.TextEdit); ok {
			te.Buffer.SetEngine(e.engine)
		}
	}
}

func (e *editor) toggleLineNumbers() {
	if te := e.current(); te != nil {
		te.LineNumbers = !te.LineNumbers
	}
}

func (e *editor) toggleLineEndings() {
	if te := e.current(); te != nil {
		te.ChangeLineDelimiters(!te.IsCRLF)
	}
}

// toggleAppearance switches between the light and dark themes and records
// the choice in the config file.
func (e *editor) toggleAppearance() {
	e.setAppearance(e.appearance.Toggle())
	if err := config.SaveAppearance(e.cfgPath, e.appearance.String()); err != nil {
		e.showError(fmt.Errorf("saving appearance: %w", err))
		return
	}
	log.Info(log.CatConfig, "Saved appearance", "appearance", e.appearance, "path", e.cfgPath)
}

func (e *editor) setAppearance(a syntax.Appearance) {
	e.appearance = a
	e.syntaxTheme = syntax.ThemeFor(a)
	e.theme = ui.ThemeFor(e.syntaxTheme)

	e.bar.SetTheme(e.theme)
	e.tabs.SetTheme(e.theme)
	e.status.SetTheme(e.theme)
	if e.dialog != nil {
		e.dialog.SetTheme(e.theme)
	}
	for i, count := 0, e.tabs.GetTabCount(); i < count; i++ {
		if te, ok := e.tabs.GetTab(i).Child.(*ui.TextEdit); ok {
			te.SetSyntaxTheme(e.syntaxTheme)
		}
	}
}

// reload brings tabs showing path up to date with the file on disk. Tabs
// with unsaved edits ask first.
func (e *editor) reload(path string) {
	contents, err := os.ReadFile(path)
	if err != nil {
		log.Warn(log.CatWatcher, "Changed file could not be read", "path", path, "error", err)
		return
	}

	for i, count := 0, e.tabs.GetTabCount(); i < count; i++ {
		tab := e.tabs.GetTab(i)
		te, ok := tab.Child.(*ui.TextEdit)
		if !ok || !samePath(te.FilePath, path) || te.String() == string(contents) {
			continue
		}
		if !te.Dirty {
			te.Reload(contents)
			log.Info(log.CatWatcher, "Reloaded file", "path", path)
			continue
		}
		if e.dialog != nil {
			log.Info(log.CatWatcher, "Skipped reload of dirty file while a dialog is open", "path", path)
			continue
		}
		e.showDialog(ui.NewMessageDialog("", tab.Name+" changed on disk. Reload and lose your changes?",
			ui.MessageKindWarning, []string{"Keep", "Reload"}, e.theme, func(choice string) {
				e.closeDialog()
				if choice == "Reload" {
					te.Reload(contents)
				}
			}))
	}
}

func (e *editor) showDialog(d ui.Component) {
	e.dialog = d
	e.layout()
	e.changeFocus(d)
}

func (e *editor) closeDialog() {
	e.dialog = nil
	e.barFocused = false
	e.changeFocus(e.tabs)
}

func (e *editor) showError(err error) {
	log.ErrorErr(log.CatUI, "Editor error", err)
	e.showDialog(ui.NewMessageDialog("", err.Error(), ui.MessageKindError, nil, e.theme, func(string) {
		e.closeDialog()
	}))
}

func (e *editor) showOpenDialog() {
	e.showDialog(ui.NewFileSelectorDialog(
		e.screen,
		"Comma-separated files or a directory",
		true,
		e.theme,
		func(paths []string) {
			e.closeDialog()
			for _, path := range paths {
				if err := e.open(path); err != nil {
					e.showError(err)
					return
				}
			}
		},
		e.closeDialog,
	))
}

func (e *editor) showSaveAsDialog() {
	te := e.current()
	if te == nil {
		return
	}
	dialog := ui.NewFileSelectorDialog(
		e.screen,
		"Save as",
		false,
		e.theme,
		func(paths []string) {
			e.closeDialog()
			if len(paths) == 0 {
				return
			}
			if err := e.save(te, paths[0]); err != nil {
				e.showError(err)
			}
		},
		e.closeDialog,
	)
	dialog.SetInput(suggestedName(te))
	e.showDialog(dialog)
}

// suggestedName is the path offered by Save As: the tab's own file, or
// "noname" with an extension of the chosen language.
func suggestedName(te *ui.TextEdit) string {
	if te.FilePath != "" {
		return te.FilePath
	}
	if exts := syntax.ExtensionsOf(te.Language()); len(exts) > 0 {
		return unnamedTab + "." + exts[0]
	}
	return ""
}

func (e *editor) showGotoLineDialog() {
	te := e.current()
	if te == nil {
		return
	}
	e.showDialog(NewGotoLineDialog(e.screen, e.theme, func(line int) {
		e.closeDialog()
		te.GotoLine(line - 1)
	}, e.closeDialog))
}

// layout sizes everything to the screen: the menu bar on the first row, the
// status line on the last, and the tabs between them.
func (e *editor) layout() {
	width, height := e.screen.Size()

	e.bar.SetPos(0, 0)
	e.bar.SetSize(width, 1)
	e.tabs.SetPos(0, 1)
	e.tabs.SetSize(width, max(height-2, 0))
	e.status.SetPos(0, height-1)
	e.status.SetSize(width, 1)

	if e.dialog != nil {
		ui.Center(e.dialog, width, height)
	}
}

func (e *editor) statusText() string {
	if e.message != "" {
		return " " + e.message
	}
	te := e.current()
	if te == nil {
		return fmt.Sprintf(" workbench  %s  Esc: menu", e.appearance)
	}
	line, col := te.GetCursor().GetLineCol()
	ending := "LF"
	if te.IsCRLF {
		ending = "CRLF"
	}
	return fmt.Sprintf(" %s  %s  %s  Ln %d, Col %d", te.Language(), e.appearance, ending, line+1, col+1)
}

func (e *editor) draw() {
	s := e.screen
	width, height := s.Size()
	s.Clear()

	// Draw background (grey and black checkerboard)
	ui.DrawRect(s, 0, 0, width, height, '▚', tcell.StyleDefault.Foreground(tcell.ColorGrey).Background(tcell.ColorBlack))

	if e.tabs.GetTabCount() > 0 { // Draw the tab container only if a tab is open
		e.tabs.Draw(s)
	}
	e.status.Text = e.statusText()
	e.status.Draw(s)
	e.bar.Draw(s) // Always draw the menu bar; its menus open over the tabs

	if e.dialog != nil {
		e.dialog.Draw(s)
	}

	s.Show()
}

// handleEvent applies one event. Escape moves focus between the menu bar and
// the tabs, and menu shortcuts work anywhere a dialog is not shown.
func (e *editor) handleEvent(event tcell.Event) {
	switch ev := event.(type) {
	case nil:
		e.quit = true // Screen was finalized
	case *tcell.EventResize:
		e.layout()
		e.screen.Sync() // Redraw everything
	case *tcell.EventInterrupt:
		if path, ok := ev.Data().(fileChanged); ok {
			e.reload(string(path))
		}
	case *tcell.EventKey:
		e.message = ""
		if e.dialog != nil {
			e.dialog.HandleEvent(ev)
			return
		}
		if ev.Key() == tcell.KeyEscape {
			e.barFocused = !e.barFocused
			if e.barFocused {
				e.changeFocus(e.bar)
			} else {
				e.changeFocus(e.tabs)
			}
			return
		}
		if e.bar.HandleShortcut(ev) {
			return
		}
		if !e.focused.HandleEvent(ev) {
			log.Debug(log.CatUI, "Unhandled key", "name", ev.Name())
		}
	}
}

func (e *editor) run() {
	for !e.quit {
		e.draw()
		e.handleEvent(e.screen.PollEvent())
	}
}
