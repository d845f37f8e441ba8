// context.go — ordered, immutable key-value fields carried by diagnostics.
//
// Fields are kept as an append-only slice so rendering order is deterministic
// (map iteration is not). Builders always allocate a fresh backing array.
package xgxtrap

// Field is a single key-value pair attached to a diagnostic error.
type Field struct {
	Key string
	Val any
}

type fields []Field

var emptyFields = make(fields, 0)

// ctxCloneAppend returns a NEW slice holding dst followed by add. With
// nothing to add it returns dst itself; fields are never mutated in place.
func ctxCloneAppend(dst fields, add ...Field) fields {
	if len(add) == 0 {
		if len(dst) == 0 {
			return emptyFields
		}
		return dst
	}
	out := make(fields, len(dst)+len(add))
	copy(out, dst)
	copy(out[len(dst):], add)
	return out
}

// ctxFromKV reads (key, value) pairs left to right. A pair whose key is not a
// string is dropped whole so later pairs stay aligned; a trailing key gets a
// nil value.
func ctxFromKV(kv ...any) fields {
	if len(kv) == 0 {
		return emptyFields
	}
	out := make(fields, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		out = append(out, Field{Key: k, Val: v})
	}
	if len(out) == 0 {
		return emptyFields
	}
	return out
}

// ctxToMap builds a NEW, non-nil map; later duplicates overwrite earlier
// ones and empty keys are skipped.
func ctxToMap(fs fields) map[string]any {
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		if f.Key == "" {
			continue
		}
		m[f.Key] = f.Val
	}
	return m
}
