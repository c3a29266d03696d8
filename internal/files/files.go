// Package files resolves command-line paths into the list of Robot
// Framework source files to process.
package files

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Dash selects stdin as the sole source.
const Dash = "-"

// DefaultExcludePattern matches directories never worth descending into:
// VCS internals and virtualenv trees.
const DefaultExcludePattern = `/(\.direnv|\.eggs|\.git|\.hg|\.nox|\.tox|\.venv|venv|\.svn)/`

var defaultExclude = regexp.MustCompile(DefaultExcludePattern)

// Options control discovery. A nil Exclude keeps the default pattern;
// ExtendExclude is checked in addition to it.
type Options struct {
	Exclude       *regexp.Regexp
	ExtendExclude *regexp.Regexp
}

// SourceExt reports whether path carries a Robot Framework extension.
func SourceExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".robot", ".resource":
		return true
	}
	return false
}

// Stdin reports whether the argument list selects stdin mode.
func Stdin(paths []string) bool {
	return len(paths) == 1 && paths[0] == Dash
}

// Discover resolves paths to the sorted, deduplicated list of source
// files. Explicitly named files only need the right extension; the
// exclusion patterns apply while walking directories, skipping matching
// subtrees entirely.
func Discover(ctx context.Context, paths []string, opts Options) ([]string, error) {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = defaultExclude
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p == Dash {
			return nil, fmt.Errorf("cannot mix %q with file paths", Dash)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if SourceExt(p) {
				add(p)
			}
			continue
		}
		root := p
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path == root {
				return nil
			}
			if excluded(path, d.IsDir(), exclude, opts.ExtendExclude) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && SourceExt(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

// excluded matches the slash form of path, with a leading slash always
// present and a trailing one added for directories, so segment-anchored
// patterns like /venv/ hit regardless of where the walk started.
func excluded(path string, dir bool, exclude, extend *regexp.Regexp) bool {
	s := filepath.ToSlash(path)
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	if dir {
		s += "/"
	}
	if exclude.MatchString(s) {
		return true
	}
	return extend != nil && extend.MatchString(s)
}
