// Package tui provides the Bubble Tea terminal UI for checklinks,
// displaying live verification progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docwire/checklinks/checker"
)

// Model is the Bubble Tea model for the check TUI.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	checker *checker.Checker
	spinner spinner.Model
	events  <-chan checker.Event

	checked      int
	broken       int
	questionable int
	current      string
	quitting     bool
	done         bool
	report       *checker.Report
	err          error
	width        int
}

// NewModel creates a TUI model wired to the given checker and event channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, c *checker.Checker, events <-chan checker.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		checker: c,
		spinner: spin,
		events:  events,
	}
}

// Init starts the spinner, check, and event listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCheck(), waitForEvent(m.events))
}

// startCheck returns a tea.Cmd that runs the checker and sends DoneMsg.
func (m Model) startCheck() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.checker.Run(m.ctx)
		if err != nil {
			err = fmt.Errorf("check: %w", err)
		}
		return DoneMsg{Report: rep, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ScanMsg:
		m.current = msg.Path
		return m, waitForEvent(m.events)

	case ProgressMsg:
		m.checked = msg.Checked
		m.broken = msg.Broken
		m.questionable = msg.Questionable
		m.current = msg.URL
		return m, waitForEvent(m.events)

	case DoneMsg:
		if msg.Report == nil && msg.Err == nil {
			// Event channel closed; the real report follows from startCheck.
			return m, nil
		}
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.report != nil {
		return RenderSummary(m.report)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	return fmt.Sprintf("%s Checking... %d verified, %d broken, %d questionable\n%s\n",
		m.spinner.View(), m.checked, m.broken, m.questionable,
		dimStyle.Render("  "+m.current))
}

// HasBrokenLinks reports whether verification found any unreachable links.
func (m Model) HasBrokenLinks() bool {
	return m.report != nil && m.report.Unreachable > 0
}

// Report returns the final report, or nil when the run failed or was
// cut short.
func (m Model) Report() *checker.Report {
	return m.report
}

// Err returns the run error, if any.
func (m Model) Err() error {
	return m.err
}
