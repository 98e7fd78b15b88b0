package testutil

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

// MockStore implements core.Store for testing.
type MockStore struct {
	results     map[string]*record.ResultSet
	affected    map[string]int64
	queryFunc   func(context.Context, string, map[string]any) (*record.ResultSet, error)
	executeFunc func(context.Context, string, map[string]any) (int64, error)
	pingErr     error
	closed      bool
	calls       []MockCall
	mu          sync.Mutex
}

// MockCall records a call to the mock.
type MockCall struct {
	Method    string
	Statement string
	Params    map[string]any
	Timestamp time.Time
}

// NewMockStore creates a mock store with no canned results.
func NewMockStore() *MockStore {
	return &MockStore{
		results:  make(map[string]*record.ResultSet),
		affected: make(map[string]int64),
		calls:    make([]MockCall, 0),
	}
}

// Query returns the canned result for statement, or an empty result set.
func (m *MockStore) Query(ctx context.Context, statement string, params map[string]any) (*record.ResultSet, error) {
	m.recordCall("Query", statement, params)
	if m.queryFunc != nil {
		return m.queryFunc(ctx, statement, params)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rs, ok := m.results[statement]; ok {
		return rs, nil
	}
	return record.NewResultSet(nil, nil), nil
}

// Execute returns the canned affected count for statement.
func (m *MockStore) Execute(ctx context.Context, statement string, params map[string]any) (int64, error) {
	m.recordCall("Execute", statement, params)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, statement, params)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.affected[statement], nil
}

// Ping returns the configured ping error.
func (m *MockStore) Ping(ctx context.Context) error {
	m.recordCall("Ping", "", nil)
	return m.pingErr
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WithResult sets the result returned for a read statement.
func (m *MockStore) WithResult(statement string, rs *record.ResultSet) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[statement] = rs
	return m
}

// WithAffected sets the affected-row count returned for a write statement.
func (m *MockStore) WithAffected(statement string, n int64) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.affected[statement] = n
	return m
}

// WithQueryFunc sets a custom query function.
func (m *MockStore) WithQueryFunc(fn func(context.Context, string, map[string]any) (*record.ResultSet, error)) *MockStore {
	m.queryFunc = fn
	return m
}

// WithExecuteFunc sets a custom execute function.
func (m *MockStore) WithExecuteFunc(fn func(context.Context, string, map[string]any) (int64, error)) *MockStore {
	m.executeFunc = fn
	return m
}

// WithQueryError makes every query fail with err.
func (m *MockStore) WithQueryError(err error) *MockStore {
	m.queryFunc = func(context.Context, string, map[string]any) (*record.ResultSet, error) {
		return nil, err
	}
	return m
}

// WithExecuteError makes every update fail with err.
func (m *MockStore) WithExecuteError(err error) *MockStore {
	m.executeFunc = func(context.Context, string, map[string]any) (int64, error) {
		return 0, err
	}
	return m
}

// WithPingError sets the error Ping returns.
func (m *MockStore) WithPingError(err error) *MockStore {
	m.pingErr = err
	return m
}

// Calls returns recorded calls.
func (m *MockStore) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// CallCount returns the number of calls to a method.
func (m *MockStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// LastCall returns the most recent call to method.
func (m *MockStore) LastCall(method string) (MockCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return m.calls[i], true
		}
	}
	return MockCall{}, false
}

// Reset clears call history.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make([]MockCall, 0)
}

func (m *MockStore) recordCall(method, statement string, params map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Statement: statement,
		Params:    maps.Clone(params),
		Timestamp: time.Now(),
	})
}

var _ core.Store = (*MockStore)(nil)
