package syntax

import (
	"path/filepath"
	"sort"
	"strings"
)

// Identity names one of the languages the classifier recognizes.
type Identity uint8

const (
	Plain Identity = iota
	Swift
	JavaScript
	TypeScript
	JSX
	TSX
	JSON
	CSS
	HTML
	Shell
	Python
	Ruby
	Go
	CSharp
	Kotlin
	Java
	Markdown
)

var identityNames = [...]string{
	Plain:      "plain",
	Swift:      "swift",
	JavaScript: "javascript",
	TypeScript: "typescript",
	JSX:        "jsx",
	TSX:        "tsx",
	JSON:       "json",
	CSS:        "css",
	HTML:       "html",
	Shell:      "shell",
	Python:     "python",
	Ruby:       "ruby",
	Go:         "go",
	CSharp:     "csharp",
	Kotlin:     "kotlin",
	Java:       "java",
	Markdown:   "markdown",
}

func (id Identity) String() string {
	if int(id) < len(identityNames) {
		return identityNames[id]
	}
	return identityNames[Plain]
}

// ParseIdentity returns the Identity whose name is `name`. Unknown names give
// Plain and false.
func ParseIdentity(name string) (Identity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range identityNames {
		if n == name {
			return Identity(i), true
		}
	}
	return Plain, false
}

// Identities lists every Identity in declaration order.
func Identities() []Identity {
	ids := make([]Identity, len(identityNames))
	for i := range identityNames {
		ids[i] = Identity(i)
	}
	return ids
}

// extensions maps a lower-case file extension (no dot) to its language.
// Anything missing from the table is Plain.
var extensions = map[string]Identity{
	"swift": Swift,
	"js":    JavaScript,
	"ts":    TypeScript,
	"jsx":   JSX,
	"tsx":   TSX,
	"json":  JSON,
	"css":   CSS,
	"html":  HTML,
	"htm":   HTML,
	"sh":    Shell,
	"bash":  Shell,
	"zsh":   Shell,
	"py":    Python,
	"rb":    Ruby,
	"go":    Go,
	"cs":    CSharp,
	"kt":    Kotlin,
	"kts":   Kotlin,
	"java":  Java,
	"md":    Markdown,
}

// Extensions returns a copy of the extension table.
func Extensions() map[string]Identity {
	m := make(map[string]Identity, len(extensions))
	for ext, id := range extensions {
		m[ext] = id
	}
	return m
}

// ExtensionsOf returns the sorted extensions that classify as `id`.
func ExtensionsOf(id Identity) []string {
	var exts []string
	for ext, other := range extensions {
		if other == id {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// BlockComment is a pair of tokens delimiting a comment that may span lines.
// The zero value means the language has no block comments.
type BlockComment struct {
	Start string
	End   string
}

// A Profile is the lexical ruleset of one language: the words it reserves,
// how it spells comments, and which characters quote strings. Profiles are
// values; ProfileFor builds a fresh one every call.
type Profile struct {
	Identity         Identity
	Keywords         []string // Case-sensitive, matched on word boundaries
	LineComment      string   // Empty when the language has none
	BlockComment     BlockComment
	StringDelimiters []string
}

func (p Profile) HasLineComment() bool {
	return p.LineComment != ""
}

func (p Profile) HasBlockComment() bool {
	return p.BlockComment.Start != "" && p.BlockComment.End != ""
}

// key identifies the rules compiled from p. Two profiles with the same key
// compile to the same rule set.
func (p Profile) key() string {
	var sb strings.Builder
	sb.WriteString(p.Identity.String())
	sb.WriteByte(0)
	sb.WriteString(strings.Join(p.Keywords, "\x01"))
	sb.WriteByte(0)
	sb.WriteString(p.LineComment)
	sb.WriteByte(0)
	sb.WriteString(p.BlockComment.Start)
	sb.WriteByte(1)
	sb.WriteString(p.BlockComment.End)
	sb.WriteByte(0)
	sb.WriteString(strings.Join(p.StringDelimiters, "\x01"))
	return sb.String()
}

// IdentityFor looks `ext` up in the extension table. A leading dot is
// ignored and the comparison is case-insensitive. An empty or unknown
// extension is Plain.
func IdentityFor(ext string) Identity {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if id, ok := extensions[ext]; ok {
		return id
	}
	return Plain
}

// Classify returns the profile for a file extension. It never fails: an
// absent ("") or unrecognized extension gives the plain profile.
func Classify(ext string) Profile {
	return ProfileFor(IdentityFor(ext))
}

// ClassifyPath classifies a file by the extension of `path`.
func ClassifyPath(path string) Profile {
	return Classify(filepath.Ext(path))
}

var (
	jsKeywords = []string{"const", "let", "var", "function", "return", "if", "else", "import", "from", "export", "class", "extends", "new", "switch", "case", "break", "continue", "await", "async", "yield"}

	keywords = map[Identity][]string{
		Swift:      {"class", "struct", "enum", "func", "let", "var", "if", "else", "guard", "for", "while", "return", "import", "switch", "case", "protocol", "extension", "init", "where"},
		JavaScript: jsKeywords,
		TypeScript: jsKeywords,
		JSX:        jsKeywords,
		TSX:        jsKeywords,
		CSS:        {"var", "@media", "@import", "@keyframes"},
		Shell:      {"if", "then", "fi", "else", "elif", "do", "done", "case", "esac", "function"},
		Python:     {"def", "class", "return", "import", "from", "if", "elif", "else", "for", "while", "try", "except", "with", "as", "pass", "break", "continue", "lambda", "yield"},
		Ruby:       {"def", "class", "module", "if", "elsif", "else", "end", "do", "while", "until", "yield", "return", "require", "include"},
		Go:         {"func", "var", "const", "type", "struct", "interface", "if", "else", "for", "range", "return", "import", "package", "switch", "case", "go", "defer"},
		CSharp:     {"class", "struct", "namespace", "using", "public", "private", "protected", "if", "else", "switch", "case", "return", "void", "new", "var", "static"},
		Kotlin:     {"fun", "val", "var", "class", "object", "interface", "if", "else", "when", "return", "import", "package", "sealed", "data", "suspend"},
		Java:       {"class", "interface", "extends", "implements", "public", "private", "protected", "if", "else", "switch", "case", "return", "import", "package", "new", "final", "static"},
	}
)

// ProfileFor builds the profile of a language identity.
func ProfileFor(id Identity) Profile {
	if int(id) >= len(identityNames) {
		id = Plain
	}

	p := Profile{
		Identity:         id,
		Keywords:         append([]string(nil), keywords[id]...),
		StringDelimiters: []string{`"`, `'`},
	}

	switch id {
	case Swift, JavaScript, TypeScript, JSX, TSX, Java, CSharp, Go:
		p.LineComment = "//"
	case Shell, Python, Ruby:
		p.LineComment = "#"
	}

	switch id {
	case Swift, JavaScript, TypeScript, JSX, TSX, CSS, Java, CSharp, Go:
		p.BlockComment = BlockComment{Start: "/*", End: "*/"}
	}

	switch id {
	case Shell:
		p.StringDelimiters = []string{`"`, `'`, "`"}
	case Markdown:
		p.StringDelimiters = []string{"`"}
	}

	return p
}
