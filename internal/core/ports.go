package core

import (
	"context"

	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// Statement names known to the application. The SQL behind each name is an
// external resource resolved by the store.
const (
	StatementCheck       = "check"
	StatementSet         = "set"
	StatementAuto        = "auto"
	StatementWrongDayFix = "update_wrong_login_day"
	ParamDocument        = "document"
	ParamUniqueID        = "unique_id"
)

// QueryExecutor runs a named read statement.
type QueryExecutor interface {
	// Query returns every row the statement produced. Duplicate column names
	// are preserved in the result set.
	Query(ctx context.Context, statement string, params map[string]any) (*record.ResultSet, error)
}

// UpdateExecutor runs a named write statement.
type UpdateExecutor interface {
	// Execute runs the statement in its own transaction and returns the
	// number of rows it changed.
	Execute(ctx context.Context, statement string, params map[string]any) (int64, error)
}

// Store is a data source able to serve both reads and writes.
type Store interface {
	QueryExecutor
	UpdateExecutor
	Ping(ctx context.Context) error
	Close() error
}
