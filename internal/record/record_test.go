package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	t.Parallel()

	var nilTime *time.Time
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"scalar", "x", "x"},
		{"int", 7, 7},
		{"cell first non-nil", Cell{nil, "a", "b"}, "a"},
		{"cell all nil", Cell{nil, nil}, nil},
		{"empty cell", Cell{}, nil},
		{"slice", []any{nil, 3}, 3},
		{"typed nil pointer", nilTime, nil},
		{"cell with typed nil", Cell{nilTime, "z"}, "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, First(tt.in))
		})
	}

	b := []byte("raw")
	assert.Equal(t, b, First(b), "byte slices are scalars")
}

func TestNewResultSet_DuplicateColumns(t *testing.T) {
	t.Parallel()

	rs := NewResultSet([]string{"ID", "Status", "ID"}, [][]any{{nil, 0, "GID-1"}})
	require.Equal(t, 1, rs.Len())

	row := rs.Rows[0]
	assert.Equal(t, []string{"ID", "Status"}, row.Names())
	cell, ok := row.Cell("ID")
	require.True(t, ok)
	assert.Equal(t, Cell{nil, "GID-1"}, cell)
	assert.Equal(t, "GID-1", row.Value("ID"))
	assert.Nil(t, row.Value("Missing"))
	assert.Equal(t, []string{"ID", "Status"}, rs.Names())
	assert.Equal(t, []string{"ID", "Status", "ID"}, rs.Columns)
}

func TestNewRow_ShortValues(t *testing.T) {
	t.Parallel()

	row := NewRow([]string{"A", "B"}, []any{1})
	assert.True(t, row.Has("B"))
	assert.Nil(t, row.Value("B"))
}

func TestRow_Compact(t *testing.T) {
	t.Parallel()

	row := NewRow([]string{"A", "B", "C", "B"}, []any{nil, "  ", "c", "b2"})
	c := row.Compact()

	assert.Equal(t, []string{"B", "C"}, c.Names())
	assert.Equal(t, "b2", c.Value("B"))
	assert.False(t, c.Has("A"))
	assert.True(t, row.Has("A"), "compact must not modify the source row")
}

func TestResultSet_LookupFold(t *testing.T) {
	t.Parallel()

	rs := NewResultSet([]string{"ESDCreated", "Status"}, nil)
	col, ok := rs.LookupFold("esdcreated")
	require.True(t, ok)
	assert.Equal(t, "ESDCreated", col)

	_, ok = rs.LookupFold("missing")
	assert.False(t, ok)

	var empty *ResultSet
	assert.True(t, empty.Empty())
	assert.Nil(t, empty.Names())
}

func ids(rs *ResultSet) []any {
	out := make([]any, 0, rs.Len())
	for _, r := range rs.Rows {
		out = append(out, r.Value("ID"))
	}
	return out
}

func TestSortByTimestamp(t *testing.T) {
	t.Parallel()

	t.Run("preferred column oldest first", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "ESDCreated"}, [][]any{
			{1, "2024-03-05 10:00:00"},
			{2, "2024-01-01T08:00:00Z"},
			{3, "not a date"},
			{4, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		})
		sorted := SortByTimestamp(rs, []string{"ESDCreated", "ESUCreated"})
		assert.Equal(t, []any{4, 2, 1, 3}, ids(sorted))
		assert.Equal(t, []any{1, 2, 3, 4}, ids(rs), "input must not be reordered")
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "esdcreated"}, [][]any{
			{1, "2024-02-01"}, {2, "2024-01-01"},
		})
		assert.Equal(t, []any{2, 1}, ids(SortByTimestamp(rs, []string{"ESDCreated"})))
	})

	t.Run("priority order wins over column order", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "ModifiedDate", "ESDCreated"}, [][]any{
			{1, "2020-01-01", "2024-02-01"},
			{2, "2021-01-01", "2024-01-01"},
		})
		assert.Equal(t, []any{2, 1}, ids(SortByTimestamp(rs, nil)))
	})

	t.Run("auto detect", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "LastUpdateTime"}, [][]any{
			{1, "2024-02-01"}, {2, "2024-01-01"},
		})
		col, ok := TimestampColumn(rs, nil)
		require.True(t, ok)
		assert.Equal(t, "LastUpdateTime", col)
		assert.Equal(t, []any{2, 1}, ids(SortByTimestamp(rs, nil)))
	})

	t.Run("unparseable ties keep order", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "Created"}, [][]any{
			{1, nil}, {2, "x"}, {3, "2024-01-01"}, {4, ""},
		})
		assert.Equal(t, []any{3, 1, 2, 4}, ids(SortByTimestamp(rs, nil)))
	})

	t.Run("no usable column", func(t *testing.T) {
		rs := NewResultSet([]string{"ID", "Name"}, [][]any{{2, "b"}, {1, "a"}})
		_, ok := TimestampColumn(rs, nil)
		assert.False(t, ok)
		assert.Equal(t, []any{2, 1}, ids(SortByTimestamp(rs, nil)))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, SortByTimestamp(nil, nil))
	})
}
