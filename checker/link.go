package checker

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a link by how it must be resolved.
type Kind int

const (
	// KindLocal is a filesystem path relative to the referring file,
	// optionally carrying a trailing #section anchor.
	KindLocal Kind = iota
	// KindHTTP is a remote URL verified with a network probe.
	KindHTTP
)

// State is the three-tier verification outcome.
type State int

const (
	StateReachable State = iota
	StateQuestionable
	StateUnreachable
)

// String returns the lowercase name used in report output.
func (s State) String() string {
	switch s {
	case StateReachable:
		return "reachable"
	case StateQuestionable:
		return "questionable"
	default:
		return "unreachable"
	}
}

// Status is the result of verifying a single link. Detail is an optional
// diagnostic: the reason a link is Questionable, or what broke an
// Unreachable one. A missing local file carries no detail.
type Status struct {
	State  State
	Detail string
}

// Link is a single reference extracted from a scanned file.
// Status is nil until verification completes, then set exactly once.
type Link struct {
	File   string  // path of the file the link was found in
	Line   int     // 1-based line number
	Raw    string  // captured target text, reported verbatim
	Kind   Kind    // decided at construction, immutable
	Status *Status // nil until verified
}

// NewLink builds a Link and classifies it. Anything starting with "http"
// is probed over the network; everything else resolves against the
// filesystem.
func NewLink(file string, line int, raw string) *Link {
	kind := KindLocal
	if strings.HasPrefix(raw, "http") {
		kind = KindHTTP
	}
	return &Link{File: file, Line: line, Raw: raw, Kind: kind}
}

// String renders the link the way per-link output lines show it.
func (l *Link) String() string {
	return fmt.Sprintf("%s [line %d]: %s", l.File, l.Line, l.Raw)
}

// Less orders links by (File, Line, Raw) for deterministic output.
func (l *Link) Less(other *Link) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Raw < other.Raw
}

// sectionRE splits a local link into a base path and a trailing section
// anchor: one or more '#' followed by a name token at end of string.
var sectionRE = regexp.MustCompile(`^(.*)#+([A-Za-z0-9_-]+)$`)

// splitSection returns the base path and section name of a local link.
// An empty base with a non-empty section means "a section in the
// referring file itself". An empty section means no anchor at all.
func splitSection(raw string) (base, section string) {
	m := sectionRE.FindStringSubmatch(raw)
	if m == nil {
		return raw, ""
	}
	return m[1], m[2]
}
