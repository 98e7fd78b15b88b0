package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

func intPtr(n int) *int { return &n }

func TestExtractCandidates(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet(
		[]string{"document", "STATUS", "ESDCreated"},
		[][]any{
			{"B-2", int64(0), "2024-03-06 08:00:00"},
			{" A-1 ", "1", "2024-03-05 08:00:00"},
			{"B-2", int64(1), "2024-03-07 08:00:00"},
			{"", 0, "2024-03-01 08:00:00"},
			{nil, 0, "2024-03-01 08:00:00"},
			{"C-3", "pending", "not a date"},
			{"D-4", nil, "2024-03-08 08:00:00"},
		},
	)

	want := []Candidate{
		{Document: "A-1", Status: intPtr(1)},
		{Document: "B-2", Status: intPtr(0)},
		{Document: "D-4"},
		{Document: "C-3"},
	}
	if diff := cmp.Diff(want, ExtractCandidates(rs)); diff != "" {
		t.Errorf("ExtractCandidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCandidates_ColumnPriority(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet([]string{"Code", "ADCode"}, [][]any{{"code-col", "adcode-col"}})
	got := ExtractCandidates(rs)
	assert.Equal(t, []Candidate{{Document: "adcode-col"}}, got, "adcode wins and a missing status column leaves status nil")
}

func TestExtractCandidates_NoDocumentColumn(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExtractCandidates(nil))
	assert.Nil(t, ExtractCandidates(record.NewResultSet([]string{"Status"}, [][]any{{0}})))
}

func TestFilterCandidates(t *testing.T) {
	t.Parallel()

	all := []Candidate{{Document: "INV-100"}, {Document: "INV-200"}, {Document: "CRN-300"}}

	assert.Equal(t, all, FilterCandidates(all, ""))
	assert.ElementsMatch(t, all[:2], FilterCandidates(all, "INV"))
	assert.Equal(t, []Candidate{{Document: "INV-100"}}, FilterCandidates(all, "I1"))
	assert.Empty(t, FilterCandidates(all, "ZZZ"))
}

func TestCandidate_Pending(t *testing.T) {
	t.Parallel()

	assert.True(t, Candidate{Status: intPtr(0)}.Pending())
	assert.False(t, Candidate{Status: intPtr(1)}.Pending())
	assert.False(t, Candidate{}.Pending())
}
