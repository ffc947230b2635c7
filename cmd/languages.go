package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages workbench highlights",
	Long: `List the file extensions workbench recognizes, and for each language its
comment tokens and string delimiters. Files with other extensions are plain text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeLanguages(cmd.OutOrStdout())
	},
}

func writeLanguages(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	col := func(width int) lipgloss.Style { return r.NewStyle().Width(width) }

	var sb strings.Builder

	sb.WriteString(header.Render("Extensions") + "\n")
	exts := syntax.Extensions()
	names := make([]string, 0, len(exts))
	for ext := range exts {
		names = append(names, ext)
	}
	sort.Strings(names)
	for _, ext := range names {
		sb.WriteString(col(10).Render("."+ext) + exts[ext].String() + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(header.Render(col(12).Render("LANGUAGE")+col(8).Render("LINE")+col(10).Render("BLOCK")+"STRINGS") + "\n")
	for _, id := range syntax.Identities() {
		p := syntax.ProfileFor(id)
		line, block := "-", "-"
		if p.HasLineComment() {
			line = p.LineComment
		}
		if p.HasBlockComment() {
			block = p.BlockComment.Start + " " + p.BlockComment.End
		}
		strs := strings.Join(p.StringDelimiters, " ")
		if strs == "" {
			strs = "-"
		}
		sb.WriteString(col(12).Render(id.String()) + col(8).Render(line) + col(10).Render(block) + strs + "\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing languages: %w", err)
	}
	return nil
}
