package record

import (
	"slices"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/coerce"
)

// DefaultTimestampColumns is the preference order used when the caller does
// not name its own timestamp columns.
var DefaultTimestampColumns = []string{
	"esdcreated",
	"esucreated",
	"createdat",
	"createdon",
	"createddate",
	"creationdate",
	"date",
	"timestamp",
	"created",
}

var timestampHints = []string{"created", "date", "time", "timestamp"}

// TimestampColumn picks the column SortByTimestamp would order by.
// Preferred names are matched case-insensitively in order; when none is
// present the first column whose name contains a timestamp hint wins.
func TimestampColumn(rs *ResultSet, preferred []string) (string, bool) {
	if len(preferred) == 0 {
		preferred = DefaultTimestampColumns
	}
	for _, key := range preferred {
		if col, ok := rs.LookupFold(key); ok {
			return col, true
		}
	}
	for _, col := range rs.Names() {
		lc := strings.ToLower(col)
		for _, hint := range timestampHints {
			if strings.Contains(lc, hint) {
				return col, true
			}
		}
	}
	return "", false
}

// SortByTimestamp returns a copy of rs ordered oldest first by the best
// available timestamp column. Unparseable timestamps sort last and ties keep
// their original order. Without a usable column the order is unchanged.
// The input is never modified.
func SortByTimestamp(rs *ResultSet, preferred []string) *ResultSet {
	if rs.Empty() {
		return rs
	}
	out := &ResultSet{
		Columns: rs.Columns,
		Rows:    slices.Clone(rs.Rows),
	}
	col, ok := TimestampColumn(rs, preferred)
	if !ok {
		return out
	}

	type keyed struct {
		row Row
		at  time.Time
		ok  bool
	}
	keys := make([]keyed, len(out.Rows))
	for i, row := range out.Rows {
		at, ok := coerce.ParseTime(row.Value(col))
		keys[i] = keyed{row: row, at: at, ok: ok}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return a.at.Compare(b.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})
	for i, k := range keys {
		out.Rows[i] = k.row
	}
	return out
}
