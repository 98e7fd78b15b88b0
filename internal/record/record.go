// Package record models query results whose column names may repeat and
// resolves the single value a checkpoint or display field should read.
package record

import "strings"

// Cell holds every candidate value a row produced under one column name.
// A query that selects the same column name twice yields a Cell with two
// candidates, in select order.
type Cell []any

// Row maps column names to cells. Rows are read-only once built.
type Row struct {
	names []string
	cells map[string]Cell
}

// ResultSet is an ordered sequence of rows sharing one column list.
type ResultSet struct {
	// Columns is the column list as the driver reported it, duplicates included.
	Columns []string
	Rows    []Row
}

// NewResultSet builds a result set from driver columns and row values.
// Values beyond len(columns) are ignored; missing values read as nil.
func NewResultSet(columns []string, values [][]any) *ResultSet {
	rs := &ResultSet{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(values)),
	}
	for _, vals := range values {
		rs.Rows = append(rs.Rows, NewRow(columns, vals))
	}
	return rs
}

// NewRow builds a row, folding repeated column names into one Cell.
func NewRow(columns []string, values []any) Row {
	row := Row{cells: make(map[string]Cell, len(columns))}
	for i, name := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if _, seen := row.cells[name]; !seen {
			row.names = append(row.names, name)
		}
		row.cells[name] = append(row.cells[name], v)
	}
	return row
}

// Len returns the number of rows. A nil result set has no rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Empty reports whether the result set has no rows.
func (rs *ResultSet) Empty() bool {
	return rs.Len() == 0
}

// Names returns the distinct column names in first-seen order.
func (rs *ResultSet) Names() []string {
	if rs == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(rs.Columns))
	names := make([]string, 0, len(rs.Columns))
	for _, c := range rs.Columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		names = append(names, c)
	}
	return names
}

// LookupFold finds a column by case-insensitive name and returns the name
// as the result set spells it.
func (rs *ResultSet) LookupFold(name string) (string, bool) {
	for _, c := range rs.Names() {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Names returns the row's distinct column names in first-seen order.
func (r Row) Names() []string {
	return append([]string(nil), r.names...)
}

// Has reports whether the row carries the column at all.
func (r Row) Has(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Cell returns the raw candidates for a column.
func (r Row) Cell(name string) (Cell, bool) {
	c, ok := r.cells[name]
	return c, ok
}

// Value returns the resolved scalar for a column, or nil.
func (r Row) Value(name string) any {
	c, ok := r.cells[name]
	if !ok {
		return nil
	}
	return First(c)
}

// Compact returns a copy of the row without nil or blank candidates.
// Columns left with no candidates are dropped.
func (r Row) Compact() Row {
	out := Row{cells: make(map[string]Cell, len(r.cells))}
	for _, name := range r.names {
		var kept Cell
		for _, v := range r.cells[name] {
			if isBlank(v) {
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			continue
		}
		out.names = append(out.names, name)
		out.cells[name] = kept
	}
	return out
}

// Map returns the resolved value of every column.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for _, name := range r.names {
		m[name] = First(r.cells[name])
	}
	return m
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
