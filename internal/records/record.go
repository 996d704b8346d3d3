// Package records normalizes patient and appointment payloads whose fields may
// live at several nesting depths depending on which upstream produced them.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is an upstream payload of unknown shape. It is only ever read.
type RawRecord map[string]any

// nestingPrefixes is the fixed order in which nested containers are searched.
var nestingPrefixes = [][]string{
	nil,
	{"details"},
	{"original_json"},
	{"original_json", "details"},
	{"original_json", "original_json", "details"},
}

// Path is a sequence of object keys from the record root.
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// Field is a logical field known under one or more key aliases.
type Field struct {
	Name    string
	Aliases []string
}

// Paths expands the field into its lookup cascade: every alias at the top
// level first, then every alias under each nesting prefix in order.
func (f Field) Paths() []Path {
	paths := make([]Path, 0, len(nestingPrefixes)*len(f.Aliases))
	for _, prefix := range nestingPrefixes {
		for _, alias := range f.Aliases {
			p := make(Path, 0, len(prefix)+1)
			p = append(p, prefix...)
			p = append(p, alias)
			paths = append(paths, p)
		}
	}
	return paths
}

// Lookup returns the first value along paths that is present, non-nil and,
// for strings, not blank.
func Lookup(rec RawRecord, paths []Path) (any, bool) {
	for _, p := range paths {
		if v, ok := at(rec, p); ok {
			return v, true
		}
	}
	return nil, false
}

func at(rec RawRecord, p Path) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	var cur any = map[string]any(rec)
	for _, key := range p {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	if s, ok := cur.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return cur, true
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case RawRecord:
		return obj, true
	default:
		return nil, false
	}
}

// String resolves f to a string, or "" when nothing in the cascade is a scalar.
func String(rec RawRecord, f Field) string {
	for _, p := range f.Paths() {
		v, ok := at(rec, p)
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok {
			return s
		}
	}
	return ""
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
