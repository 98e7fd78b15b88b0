package record

import "reflect"

// First resolves a raw cell value to one scalar.
//
// nil yields nil. A Cell or []any yields its first non-nil candidate, or nil
// when every candidate is nil. Any other value, []byte included, is already
// a scalar and is returned unchanged. Typed nil pointers count as nil.
func First(v any) (out any) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	switch t := v.(type) {
	case nil:
		return nil
	case Cell:
		return firstOf(t)
	case []any:
		return firstOf(t)
	default:
		if isNilPointer(v) {
			return nil
		}
		return v
	}
}

func firstOf(candidates []any) any {
	for _, c := range candidates {
		if c == nil || isNilPointer(c) {
			continue
		}
		return c
	}
	return nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
