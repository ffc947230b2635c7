package syntax

import (
	"time"

	"github.com/gdamore/tcell/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/fivemoreminix/workbench/internal/log"
)

// A StyleRun colors the runes in [Start, End) of some content.
type StyleRun struct {
	Start  int
	End    int
	Syntax Syntax
	Color  tcell.Color
}

// Len is the number of runes in the run.
func (r StyleRun) Len() int {
	return r.End - r.Start
}

// Options tune an Engine. The zero value is usable: no length limit, no match
// timeout and every pass overwrites the ones before it.
type Options struct {
	// MaxLength is the longest content, in runes, that gets rule passes.
	// Longer content gets the base style only. Zero means no limit.
	MaxLength int
	// MatchTimeout bounds the time one rule may spend matching. A rule that
	// runs out of time contributes nothing. Zero means no timeout.
	MatchTimeout time.Duration
	// MaskClaimed keeps the number and keyword passes off runes already
	// styled as strings or comments.
	MaskClaimed bool
}

const (
	DefaultMaxLength    = 1 << 20
	DefaultMatchTimeout = 250 * time.Millisecond
)

// DefaultOptions are the options the editor runs with.
func DefaultOptions() Options {
	return Options{MaxLength: DefaultMaxLength, MatchTimeout: DefaultMatchTimeout}
}

const (
	cacheExpiration = 30 * time.Minute
	cacheCleanup    = time.Hour
)

// An Engine computes style runs. It keeps the compiled rules of every profile
// it has seen, so highlighting the same language again skips compilation.
// An Engine is safe for concurrent use.
type Engine struct {
	opts  Options
	cache *gocache.Cache
}

func NewEngine(opts Options) *Engine {
	return &Engine{
		opts:  opts,
		cache: gocache.New(cacheExpiration, cacheCleanup),
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Highlight colors content with the rules of a profile. The rules are
// compiled for this call only; use an Engine to reuse them.
func Highlight(content string, p Profile, t Theme) []StyleRun {
	e := &Engine{}
	return e.Highlight([]rune(content), p, t)
}

// Highlight returns the style runs of content: contiguous, in order, covering
// every rune exactly once. Empty content has no runs. It never fails; a rule
// that cannot be compiled or times out is skipped.
func (e *Engine) Highlight(content []rune, p Profile, t Theme) []StyleRun {
	return Runs(e.Classes(content, p), t)
}

// Classes returns the class of every rune of content.
func (e *Engine) Classes(content []rune, p Profile) []Syntax {
	classes := make([]Syntax, len(content)) // Base style: all Default
	if len(content) == 0 {
		return classes
	}
	if e.opts.MaxLength > 0 && len(content) > e.opts.MaxLength {
		log.Debug(log.CatHighlight, "content over max length; base style only",
			"length", len(content), "max", e.opts.MaxLength)
		return classes
	}

	var masked []bool
	if e.opts.MaskClaimed {
		masked = make([]bool, len(content))
	}
	for _, r := range e.rules(p).rules {
		r.apply(content, classes, masked)
	}
	return classes
}

// Flush drops every cached rule set.
func (e *Engine) Flush() {
	if e.cache != nil {
		e.cache.Flush()
	}
}

func (e *Engine) rules(p Profile) *ruleSet {
	if e.cache == nil {
		return compileRules(p, e.opts.MatchTimeout)
	}

	key := p.key()
	if v, found := e.cache.Get(key); found {
		if set, ok := v.(*ruleSet); ok {
			log.Debug(log.CatCache, "cache hit", "language", p.Identity)
			return set
		}
		log.Error(log.CatCache, "wrong type assertion when getting value", "language", p.Identity)
	}

	set := compileRules(p, e.opts.MatchTimeout)
	e.cache.SetDefault(key, set)
	return set
}

// Runs merges neighboring runes of the same class into style runs colored
// by t.
func Runs(classes []Syntax, t Theme) []StyleRun {
	var runs []StyleRun
	for i := 0; i < len(classes); {
		j := i + 1
		for j < len(classes) && classes[j] == classes[i] {
			j++
		}
		runs = append(runs, StyleRun{Start: i, End: j, Syntax: classes[i], Color: t.Color(classes[i])})
		i = j
	}
	return runs
}
