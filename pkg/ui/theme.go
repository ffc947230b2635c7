package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// A Theme is a map of string names to styles. Themes can be passed by reference to components
// to set their styles. Some components will depend upon the basic keys, but most components
// may use keys specific to their component. If a theme value cannot be found, then the
// `DefaultTheme` value will be used, instead. An updated list of theme keys can be found on
// the default theme.
type Theme map[string]tcell.Style

func (theme *Theme) GetOrDefault(key string) tcell.Style {
	if theme != nil {
		if val, ok := (*theme)[key]; ok {
			return val
		}
	}

	if val, ok := DefaultTheme[key]; ok {
		return val
	} else {
		panic(fmt.Sprintf("key \"%v\" not present in default theme", key))
	}
}

// DefaultTheme uses only the first 16 colors present in most colored terminals.
var DefaultTheme = Theme{
	"Normal":              tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"Button":              tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"InputField":          tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	"MenuBar":             tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"MenuBarSelected":     tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"Menu":                tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"MenuSelected":        tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"StatusBar":           tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"Tab":                 tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TabContainer":        tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
	"TabContainerFocused": tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TabSelected":         tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"TextEdit":            tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TextEditColumn":      tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
	"TextEditSelected":    tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"Window":              tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"WindowHeader":        tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
}

// LightTheme is DefaultTheme with the dark and light ends swapped.
var LightTheme = Theme{
	"Normal":              tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"Button":              tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"InputField":          tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"MenuBar":             tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"MenuBarSelected":     tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"Menu":                tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"MenuSelected":        tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"StatusBar":           tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"Tab":                 tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"TabContainer":        tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorWhite),
	"TabContainerFocused": tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"TabSelected":         tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	"TextEdit":            tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"TextEditColumn":      tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorWhite),
	"TextEditSelected":    tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"Window":              tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"WindowHeader":        tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
}

// ThemeFor builds the widget theme of a syntax theme: the chrome comes from
// DefaultTheme or LightTheme by appearance, and the editor surface uses the
// syntax theme's own background, text and comment colors.
func ThemeFor(t syntax.Theme) *Theme {
	base := DefaultTheme
	if t.Appearance == syntax.Light {
		base = LightTheme
	}

	theme := make(Theme, len(base)+3)
	for k, v := range base {
		theme[k] = v
	}
	theme["TextEdit"] = t.Style(syntax.Default)
	theme["TextEditColumn"] = tcell.StyleDefault.Foreground(t.Comment).Background(t.Background)
	theme["TextEditSelected"] = tcell.StyleDefault.Foreground(t.Background).Background(t.Keyword)
	return &theme
}
