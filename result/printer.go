// Package result renders verification outcomes: leveled, colorized
// per-link lines and summaries for terminals, plus machine-readable
// report files for CI.
package result

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/docwire/checklinks/checker"
)

// Level is a message severity. Messages above the printer's minimum are
// suppressed.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// VerbosityLevel maps the -v flag count to the minimum displayed level:
// errors only by default, then warnings, info, and debug.
func VerbosityLevel(v int) Level {
	switch {
	case v <= 0:
		return LevelError
	case v == 1:
		return LevelWarn
	case v == 2:
		return LevelInfo
	default:
		return LevelDebug
	}
}

var (
	debugStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	infoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	levelPrefix = map[Level]string{
		LevelDebug: "DEBU: ",
		LevelInfo:  "INFO: ",
		LevelWarn:  "WARN: ",
		LevelError: "ERRO: ",
	}
	levelStyle = map[Level]lipgloss.Style{
		LevelDebug: debugStyle,
		LevelInfo:  infoStyle,
		LevelWarn:  warnStyle,
		LevelError: errorStyle,
	}
)

func init() {
	for _, m := range []struct{ key, one, other string }{
		{"%d links", "%d link", "%d links"},
		{"%d broken links", "%d broken link", "%d broken links"},
		{"%d warnings", "%d warning", "%d warnings"},
	} {
		_ = message.Set(language.English, m.key,
			plural.Selectf(1, "%d", "=1", m.one, "other", m.other))
	}
}

var english = message.NewPrinter(language.English)

// Counts returns the pluralized tally fragments for a report: broken
// links, warnings, and total links. The plain summary and the TUI
// summary both build their closing lines from these, so singular totals
// read the same everywhere.
func Counts(rep *checker.Report) (broken, warnings, total string) {
	return english.Sprintf("%d broken links", rep.Unreachable),
		english.Sprintf("%d warnings", rep.Questionable),
		english.Sprintf("%d links", rep.Total)
}

// Printer writes leveled status lines. One goroutine owns it; it is not
// safe for concurrent use.
type Printer struct {
	w     io.Writer
	min   Level
	color bool
}

// New builds a Printer. verbosity is the raw -v count.
func New(w io.Writer, verbosity int, color bool) *Printer {
	return &Printer{
		w:     w,
		min:   VerbosityLevel(verbosity),
		color: color,
	}
}

func (p *Printer) Debugf(format string, args ...any) { p.printf(LevelDebug, format, args...) }
func (p *Printer) Infof(format string, args ...any)  { p.printf(LevelInfo, format, args...) }
func (p *Printer) Warnf(format string, args ...any)  { p.printf(LevelWarn, format, args...) }
func (p *Printer) Errorf(format string, args ...any) { p.printf(LevelError, format, args...) }

func (p *Printer) printf(level Level, format string, args ...any) {
	if level > p.min {
		return
	}
	prefix := levelPrefix[level]
	if p.color {
		prefix = levelStyle[level].Render(prefix)
	}
	_, _ = fmt.Fprintln(p.w, prefix+fmt.Sprintf(format, args...))
}

// Link prints one verified link at the level its outcome implies:
// reachable is info, questionable warn, unreachable error.
func (p *Printer) Link(link *checker.Link) {
	switch link.Status.State {
	case checker.StateReachable:
		p.Infof("✓ %s", link)
	case checker.StateQuestionable:
		p.Warnf("✗ %s%s", link, reason(link.Status.Detail))
	default:
		p.Errorf("✗ %s%s", link, reason(link.Status.Detail))
	}
}

// reason renders the indented diagnostic line under a failed link.
func reason(detail string) string {
	if detail == "" {
		return ""
	}
	return "\n        ► " + detail
}

// Summary prints the final tally. It always prints, whatever the
// verbosity floor: the summary is the primary output of a run.
func (p *Printer) Summary(rep *checker.Report) {
	if rep.Total == 0 {
		p.plain(infoStyle, "no links found")
		return
	}

	broken, warnings, total := Counts(rep)
	text := fmt.Sprintf("found %s, %s out of %s", broken, warnings, total)

	style := infoStyle
	switch {
	case rep.Unreachable > 0:
		style = errorStyle
	case rep.Questionable > 0:
		style = warnStyle
	}
	p.plain(style, text)
}

func (p *Printer) plain(style lipgloss.Style, text string) {
	if p.color {
		text = style.Render(text)
	}
	_, _ = fmt.Fprintln(p.w, text)
}
