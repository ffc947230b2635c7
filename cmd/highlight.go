package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/workbench/internal/log"
	"github.com/fivemoreminix/workbench/internal/render"
	"github.com/fivemoreminix/workbench/pkg/syntax"
)

const (
	formatANSI  = "ansi"
	formatSpans = "spans"
)

var (
	hlAppearance string
	hlFormat     string
	hlLanguage   string
	hlColor      bool
	hlBackground bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight FILE...",
	Short: "Print files with syntax highlighting",
	Long: `Highlight files and print them to standard output.

The language of each file comes from its extension unless --language is given.
Use - to read standard input, which is plain text unless --language is given.

Formats:
  ansi   the text, colored with terminal escape codes
  spans  one line per run of equal style: "offset length #rrggbb class",
         with offset and length counted in characters

Examples:
  workbench highlight main.go
  workbench highlight --appearance light --color main.go | less -R
  cat script | workbench highlight --language shell -
  workbench highlight --format spans app.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringVar(&hlAppearance, "appearance", "",
		"light or dark (default: the config's appearance)")
	highlightCmd.Flags().StringVarP(&hlFormat, "format", "f", formatANSI,
		"output format: ansi or spans")
	highlightCmd.Flags().StringVarP(&hlLanguage, "language", "l", "",
		"language of every input, see 'workbench languages'")
	highlightCmd.Flags().BoolVar(&hlColor, "color", false,
		"always write 24-bit color, even when output is not a terminal")
	highlightCmd.Flags().BoolVar(&hlBackground, "background", false,
		"paint the theme background behind the text")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	if hlFormat != formatANSI && hlFormat != formatSpans {
		return fmt.Errorf("unknown format %q: use %s or %s", hlFormat, formatANSI, formatSpans)
	}

	var appearance syntax.Appearance
	if hlAppearance == "" {
		appearance = cfg.ResolveAppearance()
	} else {
		var err error
		if appearance, err = syntax.ParseAppearance(hlAppearance); err != nil {
			return err
		}
	}
	theme := syntax.ThemeFor(appearance)

	var forced *syntax.Profile
	if hlLanguage != "" {
		id, ok := syntax.ParseIdentity(hlLanguage)
		if !ok {
			if guess := suggestLanguage(hlLanguage); guess != "" {
				return fmt.Errorf("unknown language %q: did you mean %q?", hlLanguage, guess)
			}
			return fmt.Errorf("unknown language %q: see 'workbench languages'", hlLanguage)
		}
		p := syntax.ProfileFor(id)
		forced = &p
	}

	out := cmd.OutOrStdout()
	opts := render.ANSIOptions{Profile: termenv.TrueColor, Background: hlBackground}
	if !hlColor {
		opts.Profile = termenv.NewOutput(out).Profile
	}

	engine := syntax.NewEngine(cfg.HighlightOptions())
	if opts := engine.Options(); opts.MaxLength > 0 {
		log.Debug(log.CatHighlight, "Highlight limits", "max_length", opts.MaxLength, "match_timeout", opts.MatchTimeout)
	}
	for _, path := range args {
		content, profile, err := readInput(cmd.InOrStdin(), path, forced)
		if err != nil {
			return err
		}
		runs := engine.Highlight(content, profile, theme)
		log.Debug(log.CatHighlight, "Highlighted input", "path", path, "language", profile.Identity, "runs", len(runs))

		if hlFormat == formatSpans {
			if len(args) > 1 {
				fmt.Fprintf(out, "# %s\n", path)
			}
			err = render.Spans(out, runs)
		} else {
			err = render.ANSI(out, content, runs, theme, opts)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// suggestLanguage returns the language name closest to name, or "".
func suggestLanguage(name string) string {
	var names []string
	for _, id := range syntax.Identities() {
		names = append(names, id.String())
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// readInput reads path, or stdin for "-", and picks its profile.
func readInput(stdin io.Reader, path string, forced *syntax.Profile) ([]rune, syntax.Profile, error) {
	var (
		data    []byte
		err     error
		profile syntax.Profile
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
		profile = syntax.ProfileFor(syntax.Plain)
	} else {
		data, err = os.ReadFile(path)
		profile = syntax.ClassifyPath(path)
	}
	if err != nil {
		return nil, profile, fmt.Errorf("reading %s: %w", path, err)
	}
	if forced != nil {
		profile = *forced
	}
	return []rune(string(data)), profile, nil
}
