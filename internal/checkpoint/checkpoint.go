// Package checkpoint evaluates the business-rule checkpoints that decide
// whether a document record may be fixed.
//
// Evaluation is a fixed three-step sequence:
//
//  1. cardinality: the lookup must return exactly one row;
//  2. submission: the status text must say the document already reached the
//     tax authority;
//  3. updatable: the status code must still be pending (0).
//
// Steps 2 and 3 only run when step 1 passed. The record's identifier is
// surfaced only when all three pass.
package checkpoint

import (
	"log/slog"
	"strings"

	"github.com/hugo-lorenzo-mato/docfix/internal/coerce"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// Column names the engine reads.
const (
	ColumnStatus     = "Status"
	ColumnStatusText = "StatusText"
	ColumnID         = "fDocumentGID"
)

// SubmittedMarkers are the status text phrasings that mean the document was
// already accepted upstream. Matching is a case-insensitive substring test.
var SubmittedMarkers = []string{
	"has already been sent to ECOS.",
	"Successfully submitted to IAPR",
}

// Verdict messages.
const (
	MsgNoRecord        = "Checkpoint 1/3 Fail: No record found"
	MsgMultipleRecords = "Checkpoint 1/3 Fail: Multiple records found"
	MsgSingleRecord    = "Checkpoint 1/3 Passed: Exactly one record found"
	MsgSubmitted       = "Checkpoint 2/3 Passed: Record has already been sent to ECOS"
	MsgNotSubmitted    = "Checkpoint 2/3 Fail: Record has not been sent to ECOS yet"
	MsgUpdatable       = "Checkpoint 3/3 Passed: Record is updatable"
	MsgHealthy         = "Checkpoint 3/3 Fail: Record is healthy (no update required)"
)

// Verdict is the outcome of one checkpoint.
type Verdict struct {
	Passed  bool   `json:"pass"`
	Message string `json:"message"`
}

// Evaluation is the outcome of a full checkpoint run.
type Evaluation struct {
	Cardinality Verdict `json:"cp1"`
	Submission  Verdict `json:"cp2"`
	Updatable   Verdict `json:"cp3"`
	AllPass     bool    `json:"all_pass"`
	// ID is the derived identifier. It is set only when AllPass holds and
	// the identifier column resolved to a value.
	ID string `json:"unique_id,omitempty"`
}

// HasID reports whether a derived identifier was produced.
func (e Evaluation) HasID() bool {
	return e.ID != ""
}

// Verdicts returns the three verdicts in checkpoint order.
func (e Evaluation) Verdicts() []Verdict {
	return []Verdict{e.Cardinality, e.Submission, e.Updatable}
}

// Engine runs checkpoints. The zero value is usable and logs nothing.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine that reports each verdict at debug level.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Evaluate runs all three checkpoints against rs.
func (e *Engine) Evaluate(rs *record.ResultSet) Evaluation {
	var res Evaluation

	row, cardinality := checkCardinality(rs)
	res.Cardinality = e.report(1, cardinality)
	if !cardinality.Passed {
		return res
	}

	res.Submission = e.report(2, checkSubmission(row))

	updatable, id := checkUpdatable(row)
	res.Updatable = e.report(3, updatable)

	res.AllPass = res.Cardinality.Passed && res.Submission.Passed && res.Updatable.Passed
	if res.AllPass {
		res.ID = id
	}
	return res
}

// EvaluateUpdatable runs only the cardinality and updatable checkpoints and
// returns the identifier when both pass. It is meant for callers that do not
// care about the submission text.
func (e *Engine) EvaluateUpdatable(rs *record.ResultSet) (string, bool) {
	row, cardinality := checkCardinality(rs)
	e.report(1, cardinality)
	if !cardinality.Passed {
		return "", false
	}
	updatable, id := checkUpdatable(row)
	e.report(3, updatable)
	if !updatable.Passed || id == "" {
		return "", false
	}
	return id, true
}

// Evaluate runs all checkpoints with a silent engine.
func Evaluate(rs *record.ResultSet) Evaluation {
	var e Engine
	return e.Evaluate(rs)
}

func (e *Engine) report(step int, v Verdict) Verdict {
	if e == nil || e.logger == nil {
		return v
	}
	e.logger.Debug("checkpoint evaluated",
		slog.Int("checkpoint", step),
		slog.Bool("pass", v.Passed),
		slog.String("message", v.Message),
	)
	return v
}

func checkCardinality(rs *record.ResultSet) (record.Row, Verdict) {
	switch rs.Len() {
	case 0:
		return record.Row{}, Verdict{Message: MsgNoRecord}
	case 1:
		return rs.Rows[0], Verdict{Passed: true, Message: MsgSingleRecord}
	default:
		return record.Row{}, Verdict{Message: MsgMultipleRecords}
	}
}

func checkSubmission(row record.Row) Verdict {
	text, _ := coerce.Text(row.Value(ColumnStatusText))
	text = strings.ToLower(text)
	for _, marker := range SubmittedMarkers {
		if strings.Contains(text, strings.ToLower(marker)) {
			return Verdict{Passed: true, Message: MsgSubmitted}
		}
	}
	return Verdict{Message: MsgNotSubmitted}
}

func checkUpdatable(row record.Row) (Verdict, string) {
	if !coerce.Updatable(row.Value(ColumnStatus)) {
		return Verdict{Message: MsgHealthy}, ""
	}
	id, _ := coerce.Text(row.Value(ColumnID))
	return Verdict{Passed: true, Message: MsgUpdatable}, id
}
