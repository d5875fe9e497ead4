// Package ident replaces opaque database identifiers with their string form
// so documents can always be JSON-encoded.
package ident

import "github.com/google/uuid"

// Normalize returns a structurally identical copy of v where every uuid.UUID
// is replaced by its canonical string. Maps and slices are walked at any
// depth; other values pass through unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case *uuid.UUID:
		if val == nil {
			return nil
		}
		return val.String()
	case map[string]any:
		return NormalizeMap(val)
	case []map[string]any:
		if val == nil {
			return val
		}
		out := make([]map[string]any, len(val))
		for i, m := range val {
			out[i] = NormalizeMap(m)
		}
		return out
	case []any:
		if val == nil {
			return val
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []uuid.UUID:
		if val == nil {
			return val
		}
		out := make([]string, len(val))
		for i, id := range val {
			out[i] = id.String()
		}
		return out
	default:
		return v
	}
}

// NormalizeMap is Normalize for a single document. A nil map stays nil.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = Normalize(item)
	}
	return out
}
