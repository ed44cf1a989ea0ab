// Package discover implements filesystem package discovery (spec.md §4.5):
// a pure walk that finds every directory under a root containing a
// package-init file, converts it to a dotted name, and filters by
// include/exclude dotted-name glob patterns.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// initFiles are the files that mark a directory as a Python package.
var initFiles = []string{"__init__.py"}

// Packages walks root/where and returns the sorted, filtered dotted names of
// every package directory found. exclude wins over include on conflict;
// include defaults to ["*"] when empty.
//
// The exclude-globbing semantics here are intentionally permissive, per
// spec.md's documented open question: a pattern like "pkg.sub" excludes the
// literal top-level match "pkg.sub" but does not recursively drop its
// descendants ("pkg.sub.nested" still passes unless it also matches an
// exclude pattern in its own right). This mirrors the reference tool's
// actual behavior and is preserved rather than "fixed".
func Packages(root, where string, exclude, include []string) ([]string, error) {
	if len(include) == 0 {
		include = []string{"*"}
	}
	base := filepath.Join(root, where)
	var dotted []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path == base {
			return nil
		}
		if !hasInitFile(path) {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		dotted = append(dotted, toDotted(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", base)
	}

	var out []string
	for _, name := range dotted {
		if matchesAny(name, exclude) {
			continue
		}
		if matchesAny(name, include) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasInitFile(dir string) bool {
	for _, f := range initFiles {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return true
		}
	}
	return false
}

func toDotted(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.ReplaceAll(rel, "/", ".")
}

// matchesAny reports whether name matches any of the dotted-name glob
// patterns (the discovery helper's include/exclude arguments).
func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if dottedMatch(p, name) {
			return true
		}
	}
	return false
}
