package checker

import (
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
)

// Extractor yields the raw link occurrences of a single file. Links calls
// emit once per discovered target in ascending line order, including
// multiple targets on one line; emit returns false to stop the scan early.
// A Links error means the file could not be scanned, not that a link is
// broken.
type Extractor interface {
	Links(path string, emit func(line int, raw string) bool) error
}

// Category binds a set of filename globs to the extractor used for
// matching files. Categories are immutable after construction and shared
// read-only by all extraction work.
type Category struct {
	Name  string
	globs []glob.Glob
	Extractor
}

// NewCategory compiles a pattern-based category. The pattern must contain
// the capture group holding the link target at index group.
func NewCategory(name string, globs []string, pattern string, group int) (*Category, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("category %s: compile pattern: %w", name, err)
	}
	if group < 1 || group > re.NumSubexp() {
		return nil, fmt.Errorf("category %s: capture group %d out of range (pattern has %d)", name, group, re.NumSubexp())
	}
	c := &Category{Name: name, Extractor: &patternExtractor{re: re, group: group}}
	if err := c.compileGlobs(globs); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) compileGlobs(patterns []string) error {
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return fmt.Errorf("category %s: compile glob %q: %w", c.Name, p, err)
		}
		c.globs = append(c.globs, g)
	}
	return nil
}

// Match reports whether path belongs to this category.
func (c *Category) Match(path string) bool {
	for _, g := range c.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// MatchCategory returns the first category matching path, or nil when the
// path belongs to none and must be skipped. First match wins; later
// categories are not consulted.
func MatchCategory(cats []*Category, path string) *Category {
	for _, c := range cats {
		if c.Match(path) {
			return c
		}
	}
	return nil
}

// Builtins returns the default categories in match order: markdown-style
// links in Go line comments, plain markdown links, and HTML documents.
func Builtins() []*Category {
	return []*Category{
		mustCategory("go", []string{"*.go"}, `^\s*//.*\[[^\[\]]+\]\(([^()]+)\)`, 1),
		mustCategory("markdown", []string{"*.md", "*.markdown"}, `\[[^\[\]]+\]\(([^()]+)\)`, 1),
		mustHTMLCategory("html", []string{"*.html", "*.htm"}),
	}
}

func mustCategory(name string, globs []string, pattern string, group int) *Category {
	c, err := NewCategory(name, globs, pattern, group)
	if err != nil {
		panic(err)
	}
	return c
}

func mustHTMLCategory(name string, globs []string) *Category {
	c := &Category{Name: name, Extractor: &htmlExtractor{}}
	if err := c.compileGlobs(globs); err != nil {
		panic(err)
	}
	return c
}
