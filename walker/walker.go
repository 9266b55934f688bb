// Package walker enumerates the candidate files under a directory tree,
// honoring gitignore rules, hidden-file conventions, and an optional
// depth bound.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Options configures a Walker.
type Options struct {
	// MaxDepth bounds traversal to paths at most this many components
	// below the root. 0 means unlimited.
	MaxDepth int
}

// Walker yields the regular files under a root directory. Hidden files
// and directories are skipped, as is anything matched by the root
// .gitignore. Symlinks are never followed.
type Walker struct {
	root    string
	opts    Options
	ignorer *ignore.GitIgnore // nil when the root has no .gitignore
}

// New builds a Walker rooted at root, loading the root .gitignore when
// one exists.
func New(root string, opts Options) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	w := &Walker{root: root, opts: opts}

	giPath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(giPath); err == nil {
		gi, err := ignore.CompileIgnoreFile(giPath)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", giPath, err)
		}
		w.ignorer = gi
	}
	return w, nil
}

// Walk calls fn for every candidate file under the root. Unreadable
// subdirectories are skipped; only a broken root fails the walk.
func (w *Walker) Walk(ctx context.Context, fn func(path string) error) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return fmt.Errorf("walk %s: %w", w.root, err)
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == w.root {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if hidden(d.Name()) || w.ignored(rel, true) || w.dirTooDeep(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if hidden(d.Name()) || w.ignored(rel, false) || w.fileTooDeep(rel) {
			return nil
		}
		return fn(path)
	})
}

// hidden reports whether a basename follows the Unix hidden convention.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func (w *Walker) ignored(rel string, isDir bool) bool {
	if w.ignorer == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.ignorer.MatchesPath(rel) {
		return true
	}
	// Directory patterns like "build/" only match with the trailing slash.
	return isDir && w.ignorer.MatchesPath(rel+"/")
}

// depth is the number of path components below the root.
func depth(rel string) int {
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

func (w *Walker) fileTooDeep(rel string) bool {
	return w.opts.MaxDepth > 0 && depth(rel) > w.opts.MaxDepth
}

// dirTooDeep prunes directories whose files would all exceed the bound.
func (w *Walker) dirTooDeep(rel string) bool {
	return w.opts.MaxDepth > 0 && depth(rel) >= w.opts.MaxDepth
}
