package discover

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

var (
	errInvalidGlobstarCount  = errors.New("invalid pattern: only one '**' is permitted")
	errInvalidGlobstarBounds = errors.New("invalid pattern: '**' must be surrounded by slashes or be at start/end of pattern")
)

// dottedMatch reports whether a dotted package name matches a dotted-name
// glob pattern from the package-discovery helper's include/exclude
// arguments (§4.5). Python's fnmatch-style "*" crosses dot boundaries (a
// pattern like "pkg.*" matches "pkg.sub.nested"), unlike path.Match's "*",
// which stops at "/". To reuse path.Match's globstar engine unchanged, both
// pattern and name are translated into slash form and every bare "*" is
// widened to "**" so it behaves like the Python original. When widening
// yields a pattern the globstar engine rejects (a "*" inside a segment, as
// in "pkg.sub*", or more than one "*"), the dotted forms are matched
// directly with path.Match, whose "*" already spans dots since dotted names
// contain no "/".
func dottedMatch(pattern, name string) bool {
	slashPattern := widenStars(strings.ReplaceAll(pattern, ".", "/"))
	slashName := strings.ReplaceAll(name, ".", "/")
	ok, err := globMatch(slashPattern, slashName)
	if err != nil {
		ok, err = path.Match(pattern, name)
		if err != nil {
			return false
		}
	}
	return ok
}

// widenStars replaces every run of one or more "*" with "**", since a
// single "*" must be allowed to span multiple dotted segments here.
func widenStars(pattern string) string {
	var b strings.Builder
	runStart := -1
	for i, r := range pattern {
		if r == '*' {
			if runStart == -1 {
				runStart = i
			}
			continue
		}
		if runStart != -1 {
			b.WriteString("**")
			runStart = -1
		}
		b.WriteRune(r)
	}
	if runStart != -1 {
		b.WriteString("**")
	}
	return b.String()
}

// globMatch extends path.Match to support "**" spanning an arbitrary number
// of "/"-separated segments, adapted from the teacher's path-glob helper
// (originally built for matching file paths against ignore patterns) to
// the dotted-name domain via dottedMatch above. "**" must appear at most
// once in the pattern, and must be bounded by "/" or the start/end of the
// pattern.
func globMatch(pattern, name string) (bool, error) {
	if !strings.Contains(pattern, "**") {
		return path.Match(pattern, name)
	}
	if err := validateGlobstarPattern(pattern); err != nil {
		return false, err
	}
	parts := strings.SplitN(pattern, "**", 2)
	prefixPattern, suffixPattern := parts[0], parts[1]
	if prefixPattern != "" {
		prefixEnd := nthSlash(name, strings.Count(prefixPattern, "/"), fromStart)
		if prefixEnd == -1 || len(name) < prefixEnd {
			return false, nil
		}
		ok, err := path.Match(prefixPattern, name[:prefixEnd])
		if err != nil || !ok {
			return false, err
		}
	}
	if suffixPattern != "" {
		suffixStart := nthSlash(name, strings.Count(suffixPattern, "/"), fromEnd)
		if suffixStart == -1 || suffixStart > len(name) {
			return false, nil
		}
		ok, err := path.Match(suffixPattern, name[suffixStart:])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func validateGlobstarPattern(pattern string) error {
	if strings.Count(pattern, "**") > 1 {
		return errInvalidGlobstarCount
	}
	idx := strings.Index(pattern, "**")
	if idx == -1 {
		return nil
	}
	if idx > 0 && pattern[idx-1] != '/' {
		return errInvalidGlobstarBounds
	}
	if idx+2 < len(pattern) && pattern[idx+2] != '/' {
		return errInvalidGlobstarBounds
	}
	return nil
}

type slashDirection bool

const (
	fromStart slashDirection = false
	fromEnd   slashDirection = true
)

// nthSlash locates the Nth "/" in name, counting from either end, and
// returns the byte offset just past it (fromStart) or at it (fromEnd); -1 if
// name doesn't have that many slashes. Replaces the teacher's getPrefixEnd
// and getSuffixStart, which were the same scan mirrored in each direction,
// with one scan parameterized on direction.
func nthSlash(name string, want int, dir slashDirection) int {
	if want == 0 {
		if dir == fromEnd {
			return len(name)
		}
		return 0
	}
	seen := 0
	if dir == fromStart {
		for i, c := range name {
			if c == '/' {
				seen++
				if seen == want {
					return i + 1
				}
			}
		}
		return -1
	}
	for i := range name {
		if name[len(name)-i-1] == '/' {
			seen++
			if seen == want {
				return len(name) - i - 1
			}
		}
	}
	return -1
}
