// Package codec implements the per-Field reader/writer pairs of the INI
// Codec (spec.md §4.1): conversions between INI text fragments and the typed
// values used by the Field Schema. Every codec here satisfies the round-trip
// law `from_ini(to_ini(v)) == v` over its value domain.
package codec

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/ini"
)

// DecodeStr is the identity codec.
func DecodeStr(raw string) string { return raw }

// EncodeStr is the identity codec.
func EncodeStr(v string) string { return v }

// DecodeList splits raw on newlines, trims each element, and drops empties.
// Used by both ListNewline and ListNewlineCompat on read.
func DecodeList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// EncodeList renders values one per line, 2-space indented, with a leading
// newline before the first element, per the ListNewline codec.
func EncodeList(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString("\n  ")
		b.WriteString(v)
	}
	return b.String()
}

// EncodeListCompat renders a single scalar as a 1-element list, otherwise
// identical to EncodeList. This is the "accepts a single scalar string or a
// list" write behavior of ListNewlineCompat.
func EncodeListCompat(values ...string) string {
	return EncodeList(values)
}

// DecodeDict parses `key=value` lines, trimming whitespace around `=`.
func DecodeDict(raw string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key != "" {
			out[key] = val
		}
	}
	return out
}

// EncodeDict renders m as `key = value` lines in sorted-key order, one per
// line, matching the ListNewline layout convention.
func EncodeDict(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString("\n  ")
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(m[k])
	}
	return b.String()
}

// DecodeBool parses "true"/"false" case-insensitively. ok is false if raw is
// neither.
func DecodeBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// EncodeBool renders the canonical lowercase form.
func EncodeBool(v bool) string {
	return strconv.FormatBool(v)
}

// DecodeSection reads an entire INI subsection as a mapping from key to a
// newline-split list of values.
func DecodeSection(s *ini.Section) map[string][]string {
	if s == nil {
		return nil
	}
	out := map[string][]string{}
	for k, v := range s.Values {
		out[k] = DecodeList(v)
	}
	return out
}

// EncodeSection renders m as the raw key->value pairs a Section's Values map
// would hold, each value formatted with EncodeList.
func EncodeSection(m map[string][]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = EncodeList(v)
	}
	return out
}
