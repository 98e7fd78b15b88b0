// Package sqlstore runs named SQL statements against SQL Server or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// DefaultQueryTimeout bounds a single statement when Options leave it unset.
const DefaultQueryTimeout = 30 * time.Second

// Options configures a Store.
type Options struct {
	Connection   Connection
	QueryTimeout time.Duration
	MaxOpenConns int
	Retry        *RetryPolicy
	Statements   *Registry
	Logger       *slog.Logger
}

// Store implements core.Store over database/sql.
type Store struct {
	db         *sql.DB
	statements *Registry
	timeout    time.Duration
	retry      *RetryPolicy
	target     string
	logger     *slog.Logger
}

// Open connects to the database and verifies the connection, retrying
// unreachable servers according to opts.Retry.
func Open(ctx context.Context, opts Options) (*Store, error) {
	dsn, err := opts.Connection.DataSourceName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(opts.Connection.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	s := newStore(db, opts)
	if err := s.connect(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("connecting to %s: %w (close error: %v)", s.target, err, closeErr)
		}
		return nil, fmt.Errorf("connecting to %s: %w", s.target, err)
	}
	s.logger.Info("database connected", slog.String("target", s.target))
	return s, nil
}

// New wraps an already open database.
func New(db *sql.DB, opts Options) *Store {
	return newStore(db, opts)
}

func newStore(db *sql.DB, opts Options) *Store {
	s := &Store{
		db:         db,
		statements: opts.Statements,
		timeout:    opts.QueryTimeout,
		retry:      opts.Retry,
		target:     opts.Connection.Target(),
		logger:     opts.Logger,
	}
	if s.statements == nil {
		s.statements = NewRegistry("", opts.Logger)
	}
	if s.timeout <= 0 {
		s.timeout = DefaultQueryTimeout
	}
	if s.retry == nil {
		s.retry = DefaultRetryPolicy()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Store) connect(ctx context.Context) error {
	return s.retry.Execute(ctx, s.Ping, func(attempt int, err error, delay time.Duration) {
		s.logger.Warn("database unreachable, retrying",
			slog.String("target", s.target),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
	})
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return core.ErrUnavailable("database unreachable").WithCause(err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Query runs a read statement. Column names are kept as the driver reports
// them, so repeated names fold into multi-candidate cells.
func (s *Store) Query(ctx context.Context, statement string, params map[string]any) (*record.ResultSet, error) {
	query, err := s.statements.Get(statement)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, namedArgs(params)...)
	if err != nil {
		return nil, statementError(statement, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, statementError(statement, err)
	}

	var values [][]any
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, statementError(statement, err)
		}
		values = append(values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, statementError(statement, err)
	}

	s.logger.Debug("statement queried",
		slog.String("statement", statement),
		slog.Int("rows", len(values)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return record.NewResultSet(columns, values), nil
}

// Execute runs a write statement in its own transaction and returns the
// number of rows it changed. Nothing is committed on error.
func (s *Store) Execute(ctx context.Context, statement string, params map[string]any) (int64, error) {
	query, err := s.statements.Get(statement)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, statementError(statement, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, namedArgs(params)...)
	if err != nil {
		return 0, statementError(statement, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, statementError(statement, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, statementError(statement, err)
	}

	s.logger.Debug("statement executed",
		slog.String("statement", statement),
		slog.Int64("affected", affected),
	)
	return affected, nil
}

// namedArgs binds params by name in a stable order.
func namedArgs(params map[string]any) []any {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, sql.Named(k, params[k]))
	}
	return args
}

func statementError(statement string, err error) error {
	return core.ErrExecution(core.CodeStatementFailed, fmt.Sprintf("statement %s failed", statement)).
		WithCause(err).
		WithDetail("statement", statement)
}

var _ core.Store = (*Store)(nil)
