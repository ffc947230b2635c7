package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

func highlight(t *testing.T, src string, id syntax.Identity, theme syntax.Theme) ([]rune, []syntax.StyleRun) {
	t.Helper()
	content := []rune(src)
	runs := syntax.NewEngine(syntax.DefaultOptions()).Highlight(content, syntax.ProfileFor(id), theme)
	return content, runs
}

func TestHex(t *testing.T) {
	require.Equal(t, "#54bdff", Hex(tcell.NewHexColor(0x54bdff)))
	require.Equal(t, "#000000", Hex(tcell.NewHexColor(0)))
}

func TestSpans(t *testing.T) {
	theme := syntax.ThemeFor(syntax.Dark)
	_, runs := highlight(t, "def f(): # x", syntax.Python, theme)

	var buf bytes.Buffer
	require.NoError(t, Spans(&buf, runs))
	require.Equal(t, strings.Join([]string{
		"0 3 #54bdff keyword",
		"3 6 #f2f2f2 default",
		"9 3 #a6a6a6 comment",
		"",
	}, "\n"), buf.String())
}

func TestSpansEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spans(&buf, nil))
	require.Empty(t, buf.String())
}

func TestANSIAsciiIsPlainText(t *testing.T) {
	src := "x = \"a\nb\" // done\n\ty = 2\n"
	content, runs := highlight(t, src, syntax.JavaScript, syntax.ThemeFor(syntax.Light))

	var buf bytes.Buffer
	require.NoError(t, ANSI(&buf, content, runs, syntax.ThemeFor(syntax.Light), ANSIOptions{Profile: termenv.Ascii}))
	require.Equal(t, src, buf.String())
}

func TestANSITrueColor(t *testing.T) {
	theme := syntax.ThemeFor(syntax.Dark)
	content, runs := highlight(t, "go 1\n", syntax.Go, theme)

	var buf bytes.Buffer
	require.NoError(t, ANSI(&buf, content, runs, theme, ANSIOptions{Profile: termenv.TrueColor}))
	out := buf.String()

	require.Contains(t, out, "\x1b[38;2;84;189;255mgo\x1b[0m") // Keyword color
	require.Contains(t, out, "\x1b[38;2;191;90;242m1\x1b[0m")  // Number color
	require.True(t, strings.HasSuffix(out, "\n"))
	require.NotContains(t, out, "\n\x1b[0m", "no style spans a line break")
}

func TestANSIBackground(t *testing.T) {
	theme := syntax.ThemeFor(syntax.Light)
	content, runs := highlight(t, "a", syntax.Plain, theme)

	var buf bytes.Buffer
	require.NoError(t, ANSI(&buf, content, runs, theme, ANSIOptions{Profile: termenv.TrueColor, Background: true}))
	require.Equal(t, "\x1b[38;2;38;38;38;48;2;250;250;250ma\x1b[0m", buf.String())
}
