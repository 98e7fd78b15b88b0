package coerce

import (
	"strconv"
	"strings"
)

// falsyTokens are the string forms a pending status code may take when it
// does not parse as an integer.
var falsyTokens = map[string]struct{}{
	"0":     {},
	"False": {},
	"false": {},
}

// Updatable reports whether a status code marks a record as still pending.
// Status 0 means the submission never completed, so the record can be fixed.
// Numeric zero (and boolean false) qualifies; otherwise the trimmed string
// form must be one of "0", "False" or "false". nil is never updatable.
func Updatable(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return !t
	case int:
		return t == 0
	case int8:
		return t == 0
	case int16:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case uint:
		return t == 0
	case uint8:
		return t == 0
	case uint16:
		return t == 0
	case uint32:
		return t == 0
	case uint64:
		return t == 0
	case float32:
		return t == 0
	case float64:
		return t == 0
	}

	s, ok := rawText(v)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n == 0
	}
	_, falsy := falsyTokens[s]
	return falsy
}
