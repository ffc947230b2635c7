package syntax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Syntax is the token class a run of text was colored as.
type Syntax uint8

const (
	Default Syntax = iota // Base style: primary text
	String
	Comment
	Number
	Keyword
)

func (s Syntax) String() string {
	switch s {
	case String:
		return "string"
	case Comment:
		return "comment"
	case Number:
		return "number"
	case Keyword:
		return "keyword"
	default:
		return "default"
	}
}

// Appearance is the light or dark mode a Theme is derived from.
type Appearance uint8

const (
	Light Appearance = iota
	Dark
)

var ErrUnknownAppearance = errors.New("unknown appearance")

func (a Appearance) String() string {
	if a == Dark {
		return "dark"
	}
	return "light"
}

// ParseAppearance accepts "light" or "dark" in any case.
func ParseAppearance(s string) (Appearance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("%w: %q", ErrUnknownAppearance, s)
}

// Toggle returns the other appearance.
func (a Appearance) Toggle() Appearance {
	if a == Dark {
		return Light
	}
	return Dark
}

// A Theme holds one color for each semantic slot of the editor. Every slot
// is set for both appearances.
type Theme struct {
	Appearance  Appearance
	Background  tcell.Color
	PrimaryText tcell.Color
	Keyword     tcell.Color
	String      tcell.Color
	Comment     tcell.Color
	Number      tcell.Color
}

// ThemeFor returns the theme of an appearance.
func ThemeFor(a Appearance) Theme {
	if a == Dark {
		return Theme{
			Appearance:  Dark,
			Background:  tcell.NewHexColor(0x1a1a1a),
			PrimaryText: tcell.NewHexColor(0xf2f2f2),
			Keyword:     tcell.NewHexColor(0x54bdff),
			String:      tcell.NewHexColor(0xff9ecc),
			Comment:     tcell.NewHexColor(0xa6a6a6),
			Number:      tcell.NewHexColor(0xbf5af2),
		}
	}
	return Theme{
		Appearance:  Light,
		Background:  tcell.NewHexColor(0xfafafa),
		PrimaryText: tcell.NewHexColor(0x262626),
		Keyword:     tcell.NewHexColor(0x007aff),
		String:      tcell.NewHexColor(0xff2d55),
		Comment:     tcell.NewHexColor(0x737373),
		Number:      tcell.NewHexColor(0xaf52de),
	}
}

// Color returns the color of a token class. Default, and anything unknown,
// is the primary text color.
func (t Theme) Color(s Syntax) tcell.Color {
	switch s {
	case String:
		return t.String
	case Comment:
		return t.Comment
	case Number:
		return t.Number
	case Keyword:
		return t.Keyword
	default:
		return t.PrimaryText
	}
}

// Style returns the terminal style of a token class drawn on the theme's
// background.
func (t Theme) Style(s Syntax) tcell.Style {
	return tcell.StyleDefault.Foreground(t.Color(s)).Background(t.Background)
}
