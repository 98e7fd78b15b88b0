// Package coerce converts raw database cell values into the canonical forms
// the checkpoint engine and the presenter work with.
//
// Every coercer follows the same contract: it returns the converted value and
// a boolean that is false when the input is absent or cannot be converted.
// None of them return errors or panic on odd input.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Text returns the trimmed string form of a scalar. Blank and nil inputs are
// reported as absent.
func Text(v any) (string, bool) {
	s, ok := rawText(v)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// rawText renders a scalar without trimming.
func rawText(v any) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()

	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(time.RFC3339), true
	case *time.Time:
		if t == nil {
			return "", false
		}
		return t.Format(time.RFC3339), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
