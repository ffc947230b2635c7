package syntax

import (
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/fivemoreminix/workbench/internal/log"
)

// pass is one stage of highlighting. Passes run in declaration order and a
// later pass overwrites an earlier one.
type pass uint8

const (
	passStrings pass = iota
	passComments
	passNumbers
	passKeywords
)

func (p pass) String() string {
	switch p {
	case passStrings:
		return "strings"
	case passComments:
		return "comments"
	case passNumbers:
		return "numbers"
	default:
		return "keywords"
	}
}

// claims reports whether runes styled by this pass are protected from later
// passes when masking is on.
func (p pass) claims() bool {
	return p == passStrings || p == passComments
}

// A rule is one compiled pattern and the class its matches get. A rule whose
// pattern failed to compile has a nil re and matches nothing.
type rule struct {
	name   string
	pass   pass
	syntax Syntax
	expr   string
	re     *regexp2.Regexp
}

// ruleSet is every rule of a profile in application order.
type ruleSet struct {
	key   string
	rules []rule
}

const numberExpr = `\b\d+(?:\.\d+)?\b`

func stringExpr(delim string) string {
	d := regexp2.Escape(delim)
	return d + `(?:\\.|[^` + d + `])*?` + d
}

// lineCommentExpr runs to the end of the line. A CRLF delimiter is not part
// of the comment.
func lineCommentExpr(tok string) string {
	return regexp2.Escape(tok) + `[^\r\n]*`
}

func blockCommentExpr(c BlockComment) string {
	return regexp2.Escape(c.Start) + `[\s\S]*?` + regexp2.Escape(c.End)
}

// keywordExpr builds one alternation of every keyword. The lookarounds
// behave as \b for keywords made of word characters. They differ from \b
// for a keyword such as "@media" that starts with a non-word rune: it
// matches at the start of a line or after a space, and not after a word
// rune as in "x@media".
func keywordExpr(words []string) string {
	ws := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		ws = append(ws, w)
	}
	if len(ws) == 0 {
		return ""
	}
	// Longest first so a keyword never loses to its own prefix.
	sort.SliceStable(ws, func(i, j int) bool { return len(ws[i]) > len(ws[j]) })
	for i, w := range ws {
		ws[i] = regexp2.Escape(w)
	}
	return `(?<!\w)(?:` + strings.Join(ws, "|") + `)(?!\w)`
}

// compileRule compiles expr. On failure the rule is kept with a nil pattern
// so that the rest of its pass still runs.
func compileRule(name string, p pass, s Syntax, expr string, timeout time.Duration) rule {
	r := rule{name: name, pass: p, syntax: s, expr: expr}
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		log.Warn(log.CatHighlight, "rule failed to compile; skipping", "rule", name, "expr", expr, "error", err)
		return r
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	r.re = re
	return r
}

// compileRules builds the rules of a profile in the order they are applied:
// strings, comments, numbers, keywords. Rules with nothing to match (no
// keywords, no comment token, an empty delimiter) are left out.
func compileRules(p Profile, timeout time.Duration) *ruleSet {
	set := &ruleSet{key: p.key()}
	add := func(name string, ps pass, s Syntax, expr string) {
		set.rules = append(set.rules, compileRule(name, ps, s, expr, timeout))
	}

	for _, d := range p.StringDelimiters {
		if d == "" {
			continue
		}
		add("string "+d, passStrings, String, stringExpr(d))
	}
	if p.HasLineComment() {
		add("line comment", passComments, Comment, lineCommentExpr(p.LineComment))
	}
	if p.HasBlockComment() {
		add("block comment", passComments, Comment, blockCommentExpr(p.BlockComment))
	}
	add("number", passNumbers, Number, numberExpr)
	if expr := keywordExpr(p.Keywords); expr != "" {
		add("keywords", passKeywords, Keyword, expr)
	}

	log.Debug(log.CatHighlight, "compiled rules", "language", p.Identity, "rules", len(set.rules))
	return set
}

// span is a half-open range of rune offsets.
type span struct{ start, end int }

// matches returns every non-overlapping match of r in content. A timeout
// discards what was found so far; the rule then contributes nothing.
func (r rule) matches(content []rune) ([]span, error) {
	if r.re == nil {
		return nil, nil
	}
	var spans []span
	m, err := r.re.FindRunesMatch(content)
	for m != nil && err == nil {
		if m.Length > 0 {
			spans = append(spans, span{m.Index, m.Index + m.Length})
		}
		m, err = r.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return spans, nil
}

// apply paints the matches of r onto classes. When masked is non-nil, the
// string and comment passes claim the runes they paint and the later passes
// leave claimed runes alone.
func (r rule) apply(content []rune, classes []Syntax, masked []bool) {
	spans, err := r.matches(content)
	if err != nil {
		log.Warn(log.CatHighlight, "rule failed to match; skipping", "rule", r.name, "error", err)
		return
	}
	claims := r.pass.claims()
	for _, sp := range spans {
		for i := sp.start; i < sp.end; i++ {
			if masked != nil {
				if claims {
					masked[i] = true
				} else if masked[i] {
					continue
				}
			}
			classes[i] = r.syntax
		}
	}
}
