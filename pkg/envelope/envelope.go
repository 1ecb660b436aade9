// Package envelope locates values inside loosely shaped JSON responses.
//
// The hosted API wraps the same record arrays in different envelopes
// depending on the endpoint and its version: a bare array, {"data": [...]},
// {"data": {"users": [...]}}, {"results": [...]} and so on. Instead of
// probing each shape inline, callers describe the candidate locations as an
// ordered list of Paths and let a Resolver evaluate them.
package envelope

import (
	"bytes"
	"encoding/json"
	"strings"
)

// HintSegment inside a Path is replaced by each array key hint in turn.
const HintSegment = "{hint}"

// Path is a sequence of object keys walked from the response root. The empty
// Path addresses the root itself.
type Path []string

// ParsePath splits a dotted path ("data.users") into a Path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return strings.Split(s, ".")
}

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return strings.Join(p, ".")
}

func (p Path) hasHint() bool {
	for _, seg := range p {
		if seg == HintSegment {
			return true
		}
	}
	return false
}

func (p Path) withHint(hint string) Path {
	out := make(Path, len(p))
	for i, seg := range p {
		if seg == HintSegment {
			seg = hint
		}
		out[i] = seg
	}
	return out
}

// DefaultListPaths is the probe order for list responses: the root array,
// data.<hint>, <hint>, data, data.data, results.
var DefaultListPaths = []Path{
	{},
	{"data", HintSegment},
	{HintSegment},
	{"data"},
	{"data", "data"},
	{"results"},
}

// Resolver evaluates an ordered list of candidate Paths.
type Resolver struct {
	paths []Path
}

// NewResolver returns a Resolver probing paths in the given order.
// With no paths it uses DefaultListPaths.
func NewResolver(paths ...Path) *Resolver {
	if len(paths) == 0 {
		paths = DefaultListPaths
	}
	return &Resolver{paths: paths}
}

var defaultResolver = NewResolver()

// Unwrap returns the first array found along the resolver's paths, trying
// every hint for a path before moving on to the next path. The second result
// is false when no candidate matched; the slice is then empty, never nil.
//
// Array elements are returned as decoded; primitives pass through untouched.
func (r *Resolver) Unwrap(v any, hints ...string) ([]any, bool) {
	if v == nil {
		return []any{}, false
	}

	for _, p := range r.paths {
		if !p.hasHint() {
			if arr, ok := lookupArray(v, p); ok {
				return arr, true
			}
			continue
		}
		for _, hint := range hints {
			if hint == "" {
				continue
			}
			if arr, ok := lookupArray(v, p.withHint(hint)); ok {
				return arr, true
			}
		}
	}

	return []any{}, false
}

// MatchedPath reports which concrete path Unwrap would use, for diagnostics.
func (r *Resolver) MatchedPath(v any, hints ...string) (Path, bool) {
	for _, p := range r.paths {
		candidates := []Path{p}
		if p.hasHint() {
			candidates = candidates[:0]
			for _, hint := range hints {
				if hint != "" {
					candidates = append(candidates, p.withHint(hint))
				}
			}
		}
		for _, c := range candidates {
			if _, ok := lookupArray(v, c); ok {
				return c, true
			}
		}
	}
	return nil, false
}

// Unwrap runs the default resolver.
func Unwrap(v any, hints ...string) ([]any, bool) {
	return defaultResolver.Unwrap(v, hints...)
}

// Lookup walks p from v. It reports false when a segment is missing, when an
// intermediate value is not an object, or when the final value is null.
func Lookup(v any, p Path) (any, bool) {
	cur := v
	for _, seg := range p {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// First returns the value at the first path that resolves.
func First(v any, paths ...Path) (any, bool) {
	for _, p := range paths {
		if val, ok := Lookup(v, p); ok {
			return val, true
		}
	}
	return nil, false
}

// Object returns the object at the first path that resolves to one.
func Object(v any, paths ...Path) (map[string]any, bool) {
	for _, p := range paths {
		if val, ok := Lookup(v, p); ok {
			if obj, ok := val.(map[string]any); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

func lookupArray(v any, p Path) ([]any, bool) {
	val, ok := Lookup(v, p)
	if !ok {
		return nil, false
	}
	arr, ok := val.([]any)
	return arr, ok
}

// Decode parses a response body into generic JSON values. Numbers are kept
// as json.Number so large ids survive. An empty body decodes to nil.
func Decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
