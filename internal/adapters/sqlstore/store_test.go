package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/docfix/internal/checkpoint"
	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/testutil"
)

var pngQR = append([]byte("\x89PNG\r\n\x1a\n"), 1, 2, 3)

func openFixture(t *testing.T, registry *Registry, docs ...testutil.SeedDocument) (*Store, string) {
	t.Helper()
	path := testutil.SQLiteFixture(t, docs...)
	s, err := Open(context.Background(), Options{
		Connection:   Connection{Driver: DriverSQLite, Path: path},
		QueryTimeout: 5 * time.Second,
		Retry:        &RetryPolicy{MaxAttempts: 1},
		Statements:   registry,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func pendingDoc(gid, code, created string) testutil.SeedDocument {
	return testutil.SeedDocument{
		GID:        gid,
		ADCode:     code,
		Created:    created,
		User:       "jdoe",
		Status:     0,
		StatusText: testutil.SubmittedText,
		QRCode:     pngQR,
	}
}

func TestStore_QueryCheck(t *testing.T) {
	s, _ := openFixture(t, nil, pendingDoc("GID-1", "DOC-1", "2024-03-05 10:20:30"))

	rs, err := s.Query(context.Background(), core.StatementCheck, map[string]any{core.ParamDocument: "DOC-1"})
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	count := 0
	for _, c := range rs.Columns {
		if c == checkpoint.ColumnID {
			count++
		}
	}
	assert.Equal(t, 2, count, "the identifier column is selected from both tables")

	row := rs.Rows[0]
	cell, ok := row.Cell(checkpoint.ColumnID)
	require.True(t, ok)
	assert.Len(t, cell, 2)
	assert.Equal(t, "GID-1", row.Value(checkpoint.ColumnID))
	assert.Equal(t, int64(0), row.Value(checkpoint.ColumnStatus))
	assert.Equal(t, pngQR, row.Value("QRCode"))

	eval := checkpoint.Evaluate(rs)
	assert.True(t, eval.AllPass)
	assert.Equal(t, "GID-1", eval.ID)
}

func TestStore_QueryNoMatch(t *testing.T) {
	s, _ := openFixture(t, nil)

	rs, err := s.Query(context.Background(), core.StatementCheck, map[string]any{core.ParamDocument: "missing"})
	require.NoError(t, err)
	assert.True(t, rs.Empty())
	assert.NotEmpty(t, rs.Columns)
}

func TestStore_QueryAuto(t *testing.T) {
	s, _ := openFixture(t, nil,
		pendingDoc("GID-2", "DOC-2", "2024-03-06"),
		pendingDoc("GID-1", "DOC-1", "2024-03-05"),
	)

	rs, err := s.Query(context.Background(), core.StatementAuto, nil)
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "DOC-1", rs.Rows[0].Value("ADCode"))
}

func TestStore_ExecuteSet(t *testing.T) {
	s, path := openFixture(t, nil, pendingDoc("GID-1", "DOC-1", "2024-03-05"))
	ctx := context.Background()
	params := map[string]any{core.ParamUniqueID: "GID-1"}

	affected, err := s.Execute(ctx, core.StatementSet, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, int64(1), testutil.QuerySQLite(t, path, "SELECT Status FROM ESFIDocumentECOS WHERE fDocumentGID = ?", "GID-1"))

	affected, err = s.Execute(ctx, core.StatementSet, params)
	require.NoError(t, err)
	assert.Zero(t, affected, "a completed record is not updated twice")
}

func TestStore_ExecuteWrongDayFix(t *testing.T) {
	doc := pendingDoc("GID-1", "DOC-1", "2024-03-05")
	doc.StatusText = testutil.WrongDayText
	s, path := openFixture(t, nil, doc)

	affected, err := s.Execute(context.Background(), core.StatementWrongDayFix, map[string]any{core.ParamUniqueID: "GID-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Nil(t, testutil.QuerySQLite(t, path, "SELECT StatusText FROM ESFIDocumentECOS WHERE fDocumentGID = ?", "GID-1"))
	assert.NotNil(t, testutil.QuerySQLite(t, path, "SELECT IssueDate FROM ESFIDocumentECOS WHERE fDocumentGID = ?", "GID-1"))
}

func TestStore_ExecuteFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	testutil.TempFile(t, dir, "broken.sql", "UPDATE ESFIDocumentECOS SET Status = 1; UPDATE missing_table SET x = 1")
	s, path := openFixture(t, NewRegistry(dir, nil), pendingDoc("GID-1", "DOC-1", "2024-03-05"))

	_, err := s.Execute(context.Background(), "broken", nil)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatExecution))
	assert.Equal(t, int64(0), testutil.QuerySQLite(t, path, "SELECT Status FROM ESFIDocumentECOS"))
}

func TestStore_UnknownStatement(t *testing.T) {
	s, _ := openFixture(t, nil)

	_, err := s.Query(context.Background(), "nope", nil)
	assert.True(t, core.IsCategory(err, core.ErrCatNotFound))

	_, err = s.Execute(context.Background(), "../set", nil)
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestStore_PingAndClose(t *testing.T) {
	s, _ := openFixture(t, nil)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	err := s.Ping(context.Background())
	assert.True(t, core.IsRetryable(err))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), Options{Connection: Connection{Driver: "oracle"}})
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "erp.db")
	_, err = Open(context.Background(), Options{
		Connection: Connection{Driver: DriverSQLite, Path: missing},
		Retry:      &RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond},
	})
	assert.Error(t, err)
}

func TestRegistry_OverrideAndNames(t *testing.T) {
	dir := t.TempDir()
	testutil.TempFile(t, dir, "check.sql", "SELECT @document AS echo")
	testutil.TempFile(t, dir, "extra.sql", "SELECT 1")
	testutil.TempFile(t, dir, "notes.txt", "ignored")
	r := NewRegistry(dir, nil)

	text, err := r.Get(core.StatementCheck)
	require.NoError(t, err)
	assert.Equal(t, "SELECT @document AS echo", text)

	text, err = r.Get(core.StatementSet)
	require.NoError(t, err)
	assert.Contains(t, text, "@unique_id")

	assert.Equal(t, []string{"auto", "check", "extra", "set", "update_wrong_login_day"}, r.Names())

	s, _ := openFixture(t, r)
	rs, err := s.Query(context.Background(), core.StatementCheck, map[string]any{core.ParamDocument: "DOC-9"})
	require.NoError(t, err)
	assert.Equal(t, "DOC-9", rs.Rows[0].Value("echo"))
}

func TestRegistry_CacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := testutil.TempFile(t, dir, "extra.sql", "SELECT 1")
	r := NewRegistry(dir, nil)

	text, err := r.Get("extra")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o644))

	cached, err := r.Get("extra")
	require.NoError(t, err)
	assert.Equal(t, text, cached)

	r.Invalidate("extra")
	fresh, err := r.Get("extra")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", fresh)
}

func TestRegistry_Watch(t *testing.T) {
	dir := t.TempDir()
	path := testutil.TempFile(t, dir, "extra.sql", "SELECT 1")
	r := NewRegistry(dir, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, r.Watch(ctx))
	defer r.Close()
	require.NoError(t, r.Watch(ctx), "watching twice is a no-op")

	_, err := r.Get("extra")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o644))

	assert.Eventually(t, func() bool {
		text, err := r.Get("extra")
		return err == nil && text == "SELECT 2"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRegistry_WatchNeedsDir(t *testing.T) {
	err := NewRegistry("", nil).Watch(context.Background())
	assert.True(t, core.IsCategory(err, core.ErrCatConfig))
	assert.NoError(t, NewRegistry("", nil).Close())
}
