package checker

import (
	"sort"
	"time"
)

// Report is the aggregate outcome of one verification run.
type Report struct {
	Total        int           // links verified
	Reachable    int           // links that resolved cleanly
	Questionable int           // links needing human judgment
	Unreachable  int           // links confirmed broken
	Problems     []*Link       // every non-reachable link, sorted by file, line, target
	Duration     time.Duration // wall-clock run time
}

// ExitCode is 1 when any link was unreachable, 0 otherwise. Questionable
// links alone never fail a run.
func (r *Report) ExitCode() int {
	if r.Unreachable > 0 {
		return 1
	}
	return 0
}

// HasProblems reports whether any link was less than plainly reachable.
func (r *Report) HasProblems() bool {
	return len(r.Problems) > 0
}

// sortProblems fixes the output order so identical trees produce
// identical reports.
func (r *Report) sortProblems() {
	sort.Slice(r.Problems, func(i, j int) bool {
		return r.Problems[i].Less(r.Problems[j])
	})
}
