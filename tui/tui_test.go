package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwire/checklinks/checker"
)

func problemLink(file string, line int, raw string, state checker.State, detail string) *checker.Link {
	link := checker.NewLink(file, line, raw)
	link.Status = &checker.Status{State: state, Detail: detail}
	return link
}

func TestNewModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan checker.Event, 10)
	c := checker.New(checker.Config{Concurrency: 2}, nil, events)

	model := NewModel(ctx, cancel, c, events)

	if model.ctx != ctx {
		t.Error("expected ctx to be stored in model")
	}
	if model.cancel == nil {
		t.Error("expected cancel to be stored in model")
	}
	if model.checker != c {
		t.Error("expected checker to be stored in model")
	}
	if model.checked != 0 || model.broken != 0 || model.questionable != 0 {
		t.Error("expected initial counters to be zero")
	}
	if model.done {
		t.Error("expected done to be false initially")
	}
}

func TestInit_ReturnsBatchCmd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan checker.Event, 10)
	c := checker.New(checker.Config{}, nil, events)

	model := NewModel(ctx, cancel, c, events)
	if cmd := model.Init(); cmd == nil {
		t.Error("Init() should return a non-nil batch command")
	}
}

func TestHasBrokenLinks(t *testing.T) {
	tests := []struct {
		name   string
		report *checker.Report
		want   bool
	}{
		{name: "nil report", report: nil, want: false},
		{name: "clean report", report: &checker.Report{Total: 5, Reachable: 5}, want: false},
		{
			name:   "questionable only",
			report: &checker.Report{Total: 5, Reachable: 4, Questionable: 1},
			want:   false,
		},
		{
			name:   "broken links",
			report: &checker.Report{Total: 5, Reachable: 4, Unreachable: 1},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Model{report: tt.report}
			if got := model.HasBrokenLinks(); got != tt.want {
				t.Errorf("HasBrokenLinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate_ProgressMsg(t *testing.T) {
	model := Model{events: make(chan checker.Event, 10)}

	msg := ProgressMsg{Checked: 5, Broken: 1, Questionable: 2, URL: "https://example.com/page"}
	updatedModel, cmd := model.Update(msg)
	updated := updatedModel.(Model)

	if updated.checked != 5 || updated.broken != 1 || updated.questionable != 2 {
		t.Errorf("counters = (%d, %d, %d), want (5, 1, 2)",
			updated.checked, updated.broken, updated.questionable)
	}
	if updated.current != "https://example.com/page" {
		t.Errorf("expected current URL to be set, got %s", updated.current)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd to re-subscribe to the event channel")
	}
}

func TestUpdate_ScanMsg(t *testing.T) {
	model := Model{events: make(chan checker.Event, 10), checked: 3}

	updatedModel, cmd := model.Update(ScanMsg{Path: "docs/guide.md"})
	updated := updatedModel.(Model)

	if updated.current != "docs/guide.md" {
		t.Errorf("current = %q, want the scanned path", updated.current)
	}
	if updated.checked != 3 {
		t.Errorf("checked = %d, scan events must not reset counters", updated.checked)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd to re-subscribe to the event channel")
	}
}

func TestUpdate_DoneMsg(t *testing.T) {
	model := Model{}
	rep := &checker.Report{Total: 10, Reachable: 9, Unreachable: 1}

	updatedModel, cmd := model.Update(DoneMsg{Report: rep})
	updated := updatedModel.(Model)

	if !updated.done {
		t.Error("expected done=true after DoneMsg")
	}
	if updated.report != rep {
		t.Error("expected report to be stored")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected the command to quit the program")
	}
}

// A DoneMsg without report or error just marks the event channel closed;
// the model keeps waiting for the real completion message.
func TestUpdate_DoneMsgFromChannelClose(t *testing.T) {
	model := Model{}

	updatedModel, cmd := model.Update(DoneMsg{})
	updated := updatedModel.(Model)

	if updated.done {
		t.Error("channel-close DoneMsg must not mark the model done")
	}
	if cmd != nil {
		t.Error("expected no follow-up command for a closed event channel")
	}
}

// Fail-open diagnostics belong to plain-mode debug output; the progress
// view skips them and waits for the next displayable event.
func TestWaitForEvent_SkipsNotes(t *testing.T) {
	ch := make(chan checker.Event, 2)
	ch <- checker.Event{Path: "https://example.com/page", Note: "fetch robots.txt for example.com: connection refused"}
	ch <- checker.Event{Path: "docs/guide.md"}

	msg := waitForEvent(ch)()
	scan, ok := msg.(ScanMsg)
	if !ok {
		t.Fatalf("msg = %T, want ScanMsg past the diagnostic", msg)
	}
	if scan.Path != "docs/guide.md" {
		t.Errorf("Path = %q, want the scanned file", scan.Path)
	}
}

func TestWaitForEvent_ClosedChannel(t *testing.T) {
	ch := make(chan checker.Event, 1)
	ch <- checker.Event{Path: "https://example.com/page", Note: "robots.txt unavailable"}
	close(ch)

	msg := waitForEvent(ch)()
	done, ok := msg.(DoneMsg)
	if !ok {
		t.Fatalf("msg = %T, want DoneMsg after the channel closes", msg)
	}
	if done.Report != nil || done.Err != nil {
		t.Error("channel-close DoneMsg must be empty")
	}
}

func TestUpdate_QuitKeyCancelsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := NewModel(ctx, cancel, nil, nil)

	updatedModel, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	updated := updatedModel.(Model)

	if !updated.quitting {
		t.Error("expected quitting=true after ctrl+c")
	}
	if ctx.Err() == nil {
		t.Error("expected the run context to be cancelled")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected the command to quit the program")
	}
}

func TestUpdate_SpinnerTickMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(spinner.TickMsg{})
	_ = updatedModel.(Model) // should not panic
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := updatedModel.(Model)

	if updated.width != 120 {
		t.Errorf("expected width=120, got %d", updated.width)
	}
}

func TestView_InProgress(t *testing.T) {
	model := Model{
		checked:      3,
		broken:       1,
		questionable: 1,
		current:      "https://example.com/checking",
	}
	output := model.View()
	if !strings.Contains(output, "Checking") {
		t.Errorf("expected 'Checking' in progress view, got: %s", output)
	}
	if !strings.Contains(output, "3 verified") {
		t.Errorf("expected checked count in view, got: %s", output)
	}
}

func TestView_DoneWithReport(t *testing.T) {
	model := Model{
		done:   true,
		report: &checker.Report{Total: 5, Reachable: 5, Duration: time.Second},
	}
	output := model.View()
	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message in done view, got: %s", output)
	}
}

func TestView_DoneWithError(t *testing.T) {
	model := Model{
		done: true,
		err:  context.Canceled,
	}
	output := model.View()
	if !strings.Contains(output, "Error") {
		t.Errorf("expected error message in done view, got: %s", output)
	}
}

func TestRenderSummary_NilReport(t *testing.T) {
	if output := RenderSummary(nil); output == "" {
		t.Error("expected non-empty output for nil report")
	}
}

func TestRenderSummary_ZeroLinks(t *testing.T) {
	output := RenderSummary(&checker.Report{})
	if !strings.Contains(output, "no links found") {
		t.Errorf("expected zero-link message, got: %s", output)
	}
}

func TestRenderSummary_CleanRun(t *testing.T) {
	rep := &checker.Report{Total: 10, Reachable: 10, Duration: 2 * time.Second}
	output := RenderSummary(rep)

	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message, got: %s", output)
	}
	if !strings.Contains(output, "Verified 10 links in") {
		t.Errorf("expected link count in output, got: %s", output)
	}
}

func TestRenderSummary_CleanRunSingleLink(t *testing.T) {
	rep := &checker.Report{Total: 1, Reachable: 1, Duration: time.Second}
	output := RenderSummary(rep)

	if !strings.Contains(output, "Verified 1 link in") {
		t.Errorf("expected singular link count, got: %s", output)
	}
}

func TestRenderSummary_WithProblems(t *testing.T) {
	rep := &checker.Report{
		Total:        9,
		Reachable:    7,
		Questionable: 1,
		Unreachable:  1,
		Duration:     1500 * time.Millisecond,
		Problems: []*checker.Link{
			problemLink("README.md", 4, "https://example.com/dead", checker.StateUnreachable, "received status code 404"),
			problemLink("docs/guide.md", 6, "#setup", checker.StateQuestionable, "failed to resolve section #setup"),
		},
	}
	output := RenderSummary(rep)

	if !strings.Contains(output, "Broken links (1)") {
		t.Errorf("expected broken tier header, got: %s", output)
	}
	if !strings.Contains(output, "Questionable links (1)") {
		t.Errorf("expected questionable tier header, got: %s", output)
	}
	if !strings.Contains(output, "example.com/dead") {
		t.Errorf("expected broken link in output, got: %s", output)
	}
	if !strings.Contains(output, "README.md:4") {
		t.Errorf("expected location in output, got: %s", output)
	}
	if !strings.Contains(output, "received status code 404") {
		t.Errorf("expected detail in output, got: %s", output)
	}
	if !strings.Contains(output, "Found 1 broken link and 1 warning out of 9 links") {
		t.Errorf("expected a singular closing tally, got: %s", output)
	}
}
