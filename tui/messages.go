package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwire/checklinks/checker"
)

// ScanMsg announces a file entering extraction.
type ScanMsg struct {
	Path string
}

// ProgressMsg reports progress after a single verified link.
type ProgressMsg struct {
	Checked      int
	Broken       int
	Questionable int
	URL          string
}

// DoneMsg signals the check has completed.
type DoneMsg struct {
	Report *checker.Report
	Err    error
}

// waitForEvent returns a tea.Cmd that reads one event from the progress
// channel. Fail-open notes carry no progress and are skipped; the plain
// printer is their debug surface. When the channel closes, it returns
// an empty DoneMsg (the actual report comes from startCheck).
func waitForEvent(ch <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		for evt := range ch {
			if evt.Link != nil {
				return ProgressMsg{
					Checked:      evt.Checked,
					Broken:       evt.Broken,
					Questionable: evt.Questionable,
					URL:          evt.Link.Raw,
				}
			}
			if evt.Note != "" {
				continue
			}
			return ScanMsg{Path: evt.Path}
		}
		return DoneMsg{}
	}
}
