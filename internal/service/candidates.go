package service

import (
	"strconv"

	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/docfix/internal/coerce"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// documentColumns are tried in order, case-insensitively, to find the
// document code in the discovery result.
var documentColumns = []string{"adcode", "ad_code", "document", "doc", "code"}

const statusColumn = "status"

// Candidate is a document the discovery statement reported as fixable.
type Candidate struct {
	Document string `json:"document" yaml:"document"`
	// Status is nil when the column is missing or not an integer.
	Status *int `json:"status" yaml:"status"`
}

// Pending reports whether the candidate still carries status 0.
func (c Candidate) Pending() bool {
	return c.Status != nil && *c.Status == 0
}

// ExtractCandidates turns a discovery result into a deduplicated candidate
// list, oldest first. Rows without a document code are skipped.
func ExtractCandidates(rs *record.ResultSet) []Candidate {
	if rs.Empty() {
		return nil
	}
	sorted := record.SortByTimestamp(rs, present.SortColumns)

	var docCol string
	for _, name := range documentColumns {
		if col, ok := sorted.LookupFold(name); ok {
			docCol = col
			break
		}
	}
	if docCol == "" {
		return nil
	}
	statusCol, hasStatus := sorted.LookupFold(statusColumn)

	seen := make(map[string]struct{}, sorted.Len())
	out := make([]Candidate, 0, sorted.Len())
	for _, row := range sorted.Rows {
		doc, ok := coerce.Text(row.Value(docCol))
		if !ok {
			continue
		}
		if _, dup := seen[doc]; dup {
			continue
		}
		seen[doc] = struct{}{}

		c := Candidate{Document: doc}
		if hasStatus {
			c.Status = parseStatus(row.Value(statusCol))
		}
		out = append(out, c)
	}
	return out
}

func parseStatus(v any) *int {
	s, ok := coerce.Text(v)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

type candidateSource []Candidate

func (c candidateSource) String(i int) string { return c[i].Document }
func (c candidateSource) Len() int            { return len(c) }

// FilterCandidates keeps the candidates whose document fuzzily matches
// query, best match first. An empty query returns the list unchanged.
func FilterCandidates(candidates []Candidate, query string) []Candidate {
	if query == "" {
		return candidates
	}
	matches := fuzzy.FindFrom(query, candidateSource(candidates))
	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = candidates[m.Index]
	}
	return out
}
