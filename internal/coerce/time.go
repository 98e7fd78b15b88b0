package coerce

import (
	"strings"
	"time"
)

// DisplayLayout renders timestamps as "05.03.2024 • 10:20:30".
const DisplayLayout = "02.01.2006 • 15:04:05"

// isoLayouts cover the ISO-8601 shapes the data source emits. Fractional
// seconds are accepted after the seconds field even when not in the layout.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// fallbackLayouts are tried after ISO parsing fails.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
}

// ParseTime converts a date-like value into a time. It accepts native times,
// ISO-8601 strings (a trailing "Z" is read as UTC) and the fallback layouts
// YYYY-MM-DD HH:MM:SS, YYYY-MM-DD, DD/MM/YYYY HH:MM:SS and DD/MM/YYYY, the
// day and month of the last two with or without a leading zero.
// Strings without an offset are read as UTC.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}

	s, ok := Text(v)
	if !ok {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayTime renders a date-like value with DisplayLayout. When the value
// cannot be parsed its raw string form is returned instead. nil and blank
// values are absent.
func DisplayTime(v any) (string, bool) {
	if t, ok := ParseTime(v); ok {
		return t.Format(DisplayLayout), true
	}
	return rawOrAbsent(v)
}

func rawOrAbsent(v any) (string, bool) {
	s, ok := rawText(v)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
