package setuppyinfer

import "strings"

// MarkerMatcher evaluates a PEP 508 environment marker expression (the part
// of a requirement string after its leading ";") and reports whether the
// current environment satisfies it. Evaluating the expression itself is out
// of scope here — a caller supplies one (e.g. backed by packaging's own
// marker grammar, or a fixed-environment stub for testing); this package
// only implements the filtering contract that consumes it (spec.md §6).
type MarkerMatcher interface {
	Match(marker string) bool
}

// FilterByMarker parses each requirement string for a trailing
// "; <marker>" clause and drops the ones whose marker is present and
// evaluates false under matcher. Requirements with no marker clause, and
// all requirements when matcher is nil, always pass through unchanged.
func FilterByMarker(reqs []string, matcher MarkerMatcher) []string {
	if matcher == nil {
		return reqs
	}
	out := make([]string, 0, len(reqs))
	for _, req := range reqs {
		spec, marker, ok := splitMarker(req)
		if !ok {
			out = append(out, req)
			continue
		}
		if matcher.Match(marker) {
			out = append(out, spec)
		}
	}
	return out
}

// splitMarker splits a requirement string on its first top-level ";". The
// requirement grammar does not permit ";" inside the requirement part
// itself, so a plain index is sufficient.
func splitMarker(req string) (spec, marker string, ok bool) {
	i := strings.IndexByte(req, ';')
	if i == -1 {
		return req, "", false
	}
	return strings.TrimSpace(req[:i]), strings.TrimSpace(req[i+1:]), true
}
