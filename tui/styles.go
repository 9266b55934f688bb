package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/docwire/checklinks/checker"
	"github.com/docwire/checklinks/result"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	successStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tierStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle        = lipgloss.NewStyle().Faint(true)
	linkStyle       = lipgloss.NewStyle()
	detailCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// tiers defines the display order for problem links (broken first, then
// the ones needing human judgment).
var tiers = []struct {
	state checker.State
	label string
}{
	{checker.StateUnreachable, "Broken links"},
	{checker.StateQuestionable, "Questionable links"},
}

// RenderSummary produces a Lip Gloss styled summary of a verification run.
func RenderSummary(rep *checker.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if rep.Total == 0 {
		builder.WriteString(dimStyle.Render("no links found"))
		builder.WriteString("\n")
		return builder.String()
	}

	if len(rep.Problems) == 0 {
		_, _, total := result.Counts(rep)
		builder.WriteString(successStyle.Render("No broken links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Verified %s in %s",
			total,
			rep.Duration.Round(time.Millisecond),
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	for _, tier := range tiers {
		rows := make([][]string, 0, len(rep.Problems))
		for _, link := range rep.Problems {
			if link.Status.State != tier.state {
				continue
			}
			location := fmt.Sprintf("%s:%d", link.File, link.Line)
			rows = append(rows, []string{link.Raw, location, link.Status.Detail})
		}
		if len(rows) == 0 {
			continue
		}

		builder.WriteString(tierStyle.Render(fmt.Sprintf("## %s (%d)", tier.label, len(rows))))
		builder.WriteString("\n")

		tierTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Link", "Location", "Detail").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 2 { // Detail column
					return detailCellStyle
				}
				return linkStyle
			}).
			Rows(rows...)

		builder.WriteString(tierTable.Render())
		builder.WriteString("\n\n")
	}

	broken, warnings, total := result.Counts(rep)
	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %s and %s out of %s (%s)",
		broken,
		warnings,
		total,
		rep.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	return builder.String()
}
