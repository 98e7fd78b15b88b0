// Package fix decides which corrective update a looked-up document needs and
// applies it.
package fix

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/docfix/internal/checkpoint"
	"github.com/hugo-lorenzo-mato/docfix/internal/coerce"
	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
)

// Outcome messages.
const (
	MsgCompletedFmt = "Update completed successfully (affected: %d)."
	MsgFailed       = "Update failed. Please try again."
	MsgNotPossible  = "Fix is not possible for the current result."
)

// Defaults for Config.
const (
	DefaultWrongDayError = "Aade Validation Error: IssueDate is invalid, it must be equal with current date"
	DefaultWrongDayHint  = "να γίνει ενημέρωση offline συναλλαγών"
)

// Config selects the statements and the special-case trigger.
type Config struct {
	// Statement is the default update, run when every checkpoint passed.
	Statement string
	// WrongDayStatement is run instead when the status text equals
	// WrongDayError, regardless of the submission checkpoint.
	WrongDayStatement string
	WrongDayError     string
	// WrongDayHint is appended to the success message of the special case.
	WrongDayHint string
}

// DefaultConfig returns the production statement names and texts.
func DefaultConfig() Config {
	return Config{
		Statement:         core.StatementSet,
		WrongDayStatement: core.StatementWrongDayFix,
		WrongDayError:     DefaultWrongDayError,
		WrongDayHint:      DefaultWrongDayHint,
	}
}

// Plan is the update a record qualifies for.
type Plan struct {
	Statement string `json:"statement" yaml:"statement"`
	UniqueID  string `json:"unique_id" yaml:"unique_id"`
	Special   bool   `json:"special" yaml:"special"`
	Hint      string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Outcome reports one fix attempt.
type Outcome struct {
	AttemptID string `json:"attempt_id" yaml:"attempt_id"`
	Attempted bool   `json:"attempted" yaml:"attempted"`
	Success   bool   `json:"success" yaml:"success"`
	Message   string `json:"message" yaml:"message"`
	Statement string `json:"statement,omitempty" yaml:"statement,omitempty"`
	Affected  int64  `json:"affected" yaml:"affected"`
	// Record is the refreshed card after a successful update, or the input
	// card otherwise.
	Record *present.DisplayRecord `json:"record,omitempty" yaml:"record,omitempty"`
}

// Refresher re-runs the lookup pipeline for a search term.
type Refresher interface {
	Lookup(ctx context.Context, document string) *present.DisplayRecord
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, document string) *present.DisplayRecord

// Lookup calls f.
func (f RefresherFunc) Lookup(ctx context.Context, document string) *present.DisplayRecord {
	return f(ctx, document)
}

// Fixer applies fix plans through an update executor.
type Fixer struct {
	updates core.UpdateExecutor
	refresh Refresher
	cfg     Config
	logger  *slog.Logger
	newID   func() string
}

// New creates a fixer. refresh may be nil, in which case outcomes carry the
// input card unchanged.
func New(updates core.UpdateExecutor, refresh Refresher, cfg Config, logger *slog.Logger) *Fixer {
	def := DefaultConfig()
	if cfg.Statement == "" {
		cfg.Statement = def.Statement
	}
	if cfg.WrongDayStatement == "" {
		cfg.WrongDayStatement = def.WrongDayStatement
	}
	if cfg.WrongDayError == "" {
		cfg.WrongDayError = def.WrongDayError
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fixer{
		updates: updates,
		refresh: refresh,
		cfg:     cfg,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Decide returns the update rec qualifies for. The special case needs the
// cardinality and updatable checkpoints plus an exact status text match; the
// default update needs every checkpoint. Both need an identifier.
func (f *Fixer) Decide(rec *present.DisplayRecord) (Plan, bool) {
	if rec == nil {
		return Plan{}, false
	}
	eval := rec.Evaluation()

	if eval.Cardinality.Passed && eval.Updatable.Passed &&
		strings.TrimSpace(rec.StatusText) == strings.TrimSpace(f.cfg.WrongDayError) {
		if id := identifier(rec); id != "" {
			return Plan{
				Statement: f.cfg.WrongDayStatement,
				UniqueID:  id,
				Special:   true,
				Hint:      f.cfg.WrongDayHint,
			}, true
		}
	}

	if eval.AllPass && eval.HasID() {
		return Plan{Statement: f.cfg.Statement, UniqueID: eval.ID}, true
	}
	return Plan{}, false
}

// DecideAndApply runs the update rec qualifies for and, on success, reloads
// the card for searchTerm. Update errors count as zero affected rows.
func (f *Fixer) DecideAndApply(ctx context.Context, rec *present.DisplayRecord, searchTerm string) Outcome {
	out := Outcome{AttemptID: f.newID(), Record: rec}
	log := f.logger.With(
		slog.String("attempt_id", out.AttemptID),
		slog.String("document", searchTerm),
	)

	plan, ok := f.Decide(rec)
	if !ok {
		out.Message = MsgNotPossible
		log.Info("fix not possible")
		return out
	}

	out.Attempted = true
	out.Statement = plan.Statement
	affected, err := f.updates.Execute(ctx, plan.Statement, map[string]any{
		core.ParamUniqueID: plan.UniqueID,
	})
	if err != nil {
		log.Error("fix update failed",
			slog.String("statement", plan.Statement),
			slog.String("error", err.Error()),
		)
		affected = 0
	}
	out.Affected = affected

	if affected <= 0 {
		out.Message = MsgFailed
		log.Warn("fix affected no rows", slog.String("statement", plan.Statement))
		return out
	}

	out.Success = true
	out.Message = fmt.Sprintf(MsgCompletedFmt, affected)
	if plan.Special && plan.Hint != "" {
		out.Message += " — " + plan.Hint
	}
	log.Info("fix applied",
		slog.String("statement", plan.Statement),
		slog.Int64("affected", affected),
	)

	if f.refresh != nil {
		if refreshed := f.refresh.Lookup(ctx, searchTerm); refreshed != nil {
			out.Record = refreshed
		}
	}
	return out
}

// identifier reads the record id from the card's row. The evaluation only
// carries it when every checkpoint passed.
func identifier(rec *present.DisplayRecord) string {
	if id := rec.Evaluation().ID; id != "" {
		return id
	}
	id, _ := coerce.Text(rec.Row().Value(checkpoint.ColumnID))
	return id
}
