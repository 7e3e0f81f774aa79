package ingestion

import (
	"reflect"
	"sort"
)

// maxExtractDepth bounds wrapper-object descent. Payloads nested deeper than
// this are treated as unextractable.
const maxExtractDepth = 3

// valueKeys are the property names tried, in order, when a wrapper object
// carries its scalar under a conventional key.
var valueKeys = []string{"value", "data", "text", "content", "input"}

// ExtractScalar recovers the scalar value from an arbitrarily wrapped
// multipart field. Scalars pass through unchanged; wrapper objects are
// probed for a value property, a data property, a fields array, the known
// value-like keys, and finally the first property in key order. Returns nil
// when nothing extractable is found. Never panics: reference cycles are cut
// by an identity-visited set and depth is capped.
func ExtractScalar(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if isScalar(v) {
		return v
	}
	visited := map[uintptr]struct{}{}
	return extract(v, 0, visited)
}

func extract(v interface{}, depth int, visited map[uintptr]struct{}) interface{} {
	if v == nil || depth > maxExtractDepth {
		return nil
	}
	if isScalar(v) {
		return v
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	ptr := reflect.ValueOf(obj).Pointer()
	if _, seen := visited[ptr]; seen {
		return nil
	}
	visited[ptr] = struct{}{}

	if inner, ok := obj["value"]; ok {
		if isScalar(inner) {
			return inner
		}
	}
	if inner, ok := obj["data"]; ok {
		if isScalar(inner) {
			return inner
		}
	}
	if fields, ok := obj["fields"]; ok {
		if arr, ok := fields.([]interface{}); ok && len(arr) > 0 {
			if first, ok := arr[0].(map[string]interface{}); ok {
				if inner, ok := first["value"]; ok && isScalar(inner) {
					return inner
				}
			}
		}
		return nil
	}
	for _, key := range valueKeys {
		if inner, ok := obj[key]; ok && isScalar(inner) {
			return inner
		}
	}

	// Fall back to the first property in key order. Go maps are unordered,
	// so sort for a deterministic pick.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	first := obj[keys[0]]
	if isScalar(first) {
		return first
	}
	if sub, ok := first.(map[string]interface{}); ok {
		if inner := extract(sub, depth+1, visited); inner != nil {
			return inner
		}
	}
	return nil
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, float64, float32, int, int32, int64, bool:
		return true
	}
	return false
}
