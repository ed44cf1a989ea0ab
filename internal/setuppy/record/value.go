// Package record defines the typed aggregate that every analyzer in
// setuppy-infer accumulates, along with the Value type used to carry
// results out of the Script Analyzer.
package record

import "sort"

// Value is the result of evaluating an expression in the Script Analyzer:
// either a concrete Literal or the infectious Unresolvable sentinel. It must
// never be confused with a legitimate string, so it is a distinct type
// rather than a tagged string.
type Value struct {
	resolved bool
	data     any
}

// Unresolvable is produced whenever the Script Analyzer cannot statically
// reduce an expression to a constant.
var Unresolvable = Value{}

// Literal wraps a concrete Go value: string, int64, float64, bool, nil,
// []Value, or map[string]Value.
func Literal(v any) Value {
	return Value{resolved: true, data: v}
}

// IsUnresolvable reports whether v is the Unresolvable sentinel.
func (v Value) IsUnresolvable() bool {
	return !v.resolved
}

// Interface returns the wrapped Go value, or nil if v is Unresolvable.
func (v Value) Interface() any {
	return v.data
}

// String returns the wrapped string and true, or ("", false) if v is not a
// resolved string.
func (v Value) String() (string, bool) {
	if !v.resolved {
		return "", false
	}
	s, ok := v.data.(string)
	return s, ok
}

// Bool returns the wrapped bool and true, or (false, false) if v is not a
// resolved bool.
func (v Value) Bool() (bool, bool) {
	if !v.resolved {
		return false, false
	}
	b, ok := v.data.(bool)
	return b, ok
}

// Int returns the wrapped integer and true, or (0, false) if v is not a
// resolved integer.
func (v Value) Int() (int64, bool) {
	if !v.resolved {
		return 0, false
	}
	i, ok := v.data.(int64)
	return i, ok
}

// List returns the wrapped list (or tuple) and true, or (nil, false) if v is
// not a resolved list.
func (v Value) List() ([]Value, bool) {
	if !v.resolved {
		return nil, false
	}
	l, ok := v.data.([]Value)
	return l, ok
}

// Dict returns the wrapped mapping and true, or (nil, false) if v is not a
// resolved dict.
func (v Value) Dict() (map[string]Value, bool) {
	if !v.resolved {
		return nil, false
	}
	d, ok := v.data.(map[string]Value)
	return d, ok
}

// Truthy reports whether v is a resolved, non-empty/non-zero value, mirroring
// the override rule in §4.3: "script overrides INI with truthy values".
// Unresolvable is never truthy.
func (v Value) Truthy() bool {
	if !v.resolved {
		return false
	}
	switch d := v.data.(type) {
	case nil:
		return false
	case string:
		return d != ""
	case bool:
		return d
	case int64:
		return d != 0
	case float64:
		return d != 0
	case []Value:
		return len(d) > 0
	case map[string]Value:
		return len(d) > 0
	default:
		return true
	}
}

// Strings collects every resolved string element out of a resolved list
// value, skipping (but not failing on) Unresolvable or non-string elements.
func (v Value) Strings() []string {
	list, ok := v.List()
	if !ok {
		return nil
	}
	var out []string
	for _, elem := range list {
		if s, ok := elem.String(); ok {
			out = append(out, s)
		}
	}
	return out
}

// SortedKeys returns the keys of a resolved dict value in sorted order, for
// deterministic iteration.
func (v Value) SortedKeys() []string {
	d, ok := v.Dict()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
