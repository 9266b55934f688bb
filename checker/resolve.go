package checker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolveLocal verifies a filesystem link. A relative base resolves
// against the directory of the referring file; an absolute base stands
// on its own. A missing base is Unreachable with no diagnostic. Section
// anchors degrade to Questionable rather than Unreachable: the base
// file exists, so the link is not certainly broken even when the anchor
// cannot be confirmed.
func resolveLocal(l *Link) Status {
	base, section := splitSection(l.Raw)

	target := l.File
	if base != "" {
		target = base
		if !filepath.IsAbs(base) {
			target = filepath.Join(filepath.Dir(l.File), base)
		}
		if !fileExists(target) {
			return Status{State: StateUnreachable}
		}
	}
	if section == "" {
		return Status{State: StateReachable}
	}

	found, err := findSection(target, section)
	if err != nil {
		return Status{
			State:  StateQuestionable,
			Detail: fmt.Sprintf("failed to resolve section #%s: %v", section, err),
		}
	}
	if !found {
		return Status{
			State:  StateQuestionable,
			Detail: fmt.Sprintf("failed to resolve section #%s", section),
		}
	}
	return Status{State: StateReachable}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findSection reports whether any line of path contains the section name,
// compared case-insensitively with hyphens normalized to spaces. Heading
// anchors like #error-handling match a line containing "Error Handling".
func findSection(path, section string) (bool, error) {
	term := strings.ToLower(strings.ReplaceAll(section, "-", " "))

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if strings.Contains(strings.ToLower(scanner.Text()), term) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
