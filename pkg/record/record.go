// Package record reads fields out of loosely typed JSON objects.
//
// Every accessor takes an ordered list of alias keys and returns the first
// alias that is present and coercible to the requested type. Keys may be
// dotted ("driver.full_name") to reach into nested objects. Accessors never
// fail: when every alias is missing or unusable they return the caller's
// default (or the zero value for numbers).
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is a decoded JSON object.
type Record map[string]any

// From converts a decoded JSON value into a Record. Non-objects yield an
// empty Record.
func From(v any) Record {
	if obj, ok := v.(map[string]any); ok {
		return Record(obj)
	}
	return Record{}
}

// Value returns the first alias that resolves to a non-null value.
func (r Record) Value(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r.lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

func (r Record) lookup(key string) (any, bool) {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(key, ".") {
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

// String returns the first alias coercible to a non-blank string, else def.
func (r Record) String(def string, keys ...string) string {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if s, ok := ToString(v); ok {
			return s
		}
	}
	return def
}

// Float returns the first alias coercible to a finite number, else 0.
func (r Record) Float(keys ...string) float64 {
	return r.FloatOr(0, keys...)
}

// FloatOr is Float with an explicit default.
func (r Record) FloatOr(def float64, keys ...string) float64 {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if f, ok := ToFloat(v); ok {
			return f
		}
	}
	return def
}

// Int returns the first alias coercible to a number, truncated, else 0.
func (r Record) Int(keys ...string) int {
	return r.IntOr(0, keys...)
}

// IntOr is Int with an explicit default.
func (r Record) IntOr(def int, keys ...string) int {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if f, ok := ToFloat(v); ok {
			return Truncate(f)
		}
	}
	return def
}

// Bool returns the first alias coercible to a boolean, else false.
func (r Record) Bool(keys ...string) bool {
	for _, key := range keys {
		v, ok := r.lookup(key)
		if !ok {
			continue
		}
		if b, ok := ToBool(v); ok {
			return b
		}
	}
	return false
}

// Slice returns the first alias holding an array, else an empty slice.
func (r Record) Slice(keys ...string) []any {
	for _, key := range keys {
		if v, ok := r.lookup(key); ok {
			if arr, ok := v.([]any); ok {
				return arr
			}
		}
	}
	return []any{}
}

// Object returns the first alias holding an object, else an empty Record.
func (r Record) Object(keys ...string) Record {
	for _, key := range keys {
		if v, ok := r.lookup(key); ok {
			if obj, ok := v.(map[string]any); ok {
				return Record(obj)
			}
		}
	}
	return Record{}
}

// ToString coerces scalars to a trimmed string. Blank strings, objects and
// arrays are not coercible.
func ToString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// Truncate converts a finite float to int, saturating at the int range
// instead of wrapping.
func Truncate(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ToFloat coerces numbers and numeric strings ("4.5", "1,200") to a finite
// float64. NaN and infinities are rejected.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToBool coerces booleans, "true"/"false"/"1"/"0" strings and numbers.
func ToBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		if f, ok := ToFloat(x); ok {
			return f != 0, true
		}
		return false, false
	}
}
