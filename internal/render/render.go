// Package render writes highlighted text outside of the editor: as ANSI
// colored text for a terminal, or as one line per style run.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// Hex formats a color as "#rrggbb".
func Hex(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex()&0xffffff)
}

// ANSIOptions controls ANSI output.
type ANSIOptions struct {
	// Profile is the color support of the output. termenv.Ascii writes the
	// text without escape codes.
	Profile termenv.Profile
	// Background also paints the theme background behind the text.
	Background bool
}

// ANSI writes content colored by runs. Each line of a run is styled on its
// own, so colors never carry over a line break.
func ANSI(w io.Writer, content []rune, runs []syntax.StyleRun, theme syntax.Theme, opts ANSIOptions) error {
	out := termenv.NewOutput(w, termenv.WithProfile(opts.Profile))
	bw := bufio.NewWriter(w)
	bg := out.Color(Hex(theme.Background))

	for _, run := range runs {
		fg := out.Color(Hex(run.Color))
		for i, line := range strings.Split(string(content[run.Start:run.End]), "\n") {
			if i > 0 {
				_ = bw.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			style := out.String(line).Foreground(fg)
			if opts.Background {
				style = style.Background(bg)
			}
			_, _ = bw.WriteString(style.String())
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing highlighted text: %w", err)
	}
	return nil
}

// Spans writes one line per run: "offset length #rrggbb class", with offset
// and length in characters.
func Spans(w io.Writer, runs []syntax.StyleRun) error {
	bw := bufio.NewWriter(w)
	for _, run := range runs {
		fmt.Fprintf(bw, "%d %d %s %s\n", run.Start, run.Len(), Hex(run.Color), run.Syntax)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing spans: %w", err)
	}
	return nil
}
