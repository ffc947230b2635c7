package cmd

import (
	"github.com/zyedidia/clipboard"

	"github.com/fivemoreminix/workbench/internal/log"
)

type ClipMethod uint8

const (
	ClipExternal ClipMethod = iota // System clipboard
	ClipInternal                   // Held in memory by the editor
)

func (m ClipMethod) String() string {
	if m == ClipExternal {
		return "external"
	}
	return "internal"
}

// Clipboard holds text cut or copied in the editor.
type Clipboard struct {
	Method   ClipMethod
	internal string
}

// NewClipboard uses the system clipboard when m is ClipExternal and it can be
// reached, and an internal one otherwise. The error from the system clipboard
// is returned but is not fatal: the Clipboard is usable either way.
func NewClipboard(m ClipMethod) (*Clipboard, error) {
	c := &Clipboard{Method: ClipInternal}
	if m == ClipInternal {
		return c, nil
	}
	if err := clipboard.Initialize(); err != nil {
		log.Warn(log.CatUI, "System clipboard unavailable, using internal", "error", err)
		return c, err
	}
	c.Method = ClipExternal
	return c, nil
}

// Read returns the clipboard contents.
func (c *Clipboard) Read() (string, error) {
	if c.Method == ClipExternal {
		return clipboard.ReadAll("clipboard")
	}
	return c.internal, nil
}

// Write replaces the clipboard contents.
func (c *Clipboard) Write(content string) error {
	if c.Method == ClipExternal {
		return clipboard.WriteAll(content, "clipboard")
	}
	c.internal = content
	return nil
}
