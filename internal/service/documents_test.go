package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/present"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
	"github.com/hugo-lorenzo-mato/docfix/internal/testutil"
)

func newService(store *testutil.MockStore) *DocumentService {
	return NewDocumentService(store, Options{})
}

func TestLookup_Fixable(t *testing.T) {
	store := testutil.NewMockStore().WithResult(core.StatementCheck, testutil.FixableResult("DOC-1"))
	svc := newService(store)

	rec := svc.Lookup(context.Background(), "DOC-1")

	require.True(t, rec.Found)
	assert.True(t, rec.CanFix)
	assert.Equal(t, testutil.DefaultGID, rec.IDToUpdate)

	call, ok := store.LastCall("Query")
	require.True(t, ok)
	assert.Equal(t, core.StatementCheck, call.Statement)
	assert.Equal(t, "DOC-1", call.Params[core.ParamDocument])

	m := svc.Metrics().GetServiceMetrics()
	assert.Equal(t, 1, m.Lookups)
	assert.Equal(t, 1, m.LookupsFound)
}

func TestLookup_QueryErrorMeansNoRecords(t *testing.T) {
	store := testutil.NewMockStore().WithQueryError(testutil.ErrTest)
	svc := newService(store)

	rec := svc.Lookup(context.Background(), "DOC-1")

	assert.False(t, rec.Found)
	assert.False(t, rec.CanFix)
	assert.Equal(t, present.MsgNoRecords, rec.StatusMessage)
	assert.Equal(t, 1, svc.Metrics().GetServiceMetrics().LookupErrors)

	sm, ok := svc.Metrics().GetStatementMetrics(core.StatementCheck)
	require.True(t, ok)
	assert.Equal(t, 1, sm.Errors)
}

func TestSearch_Validation(t *testing.T) {
	store := testutil.NewMockStore()
	svc := newService(store)

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
	assert.Zero(t, store.CallCount("Query"))

	rec, err := svc.Search(context.Background(), "  DOC-1 ")
	require.NoError(t, err)
	assert.Equal(t, "DOC-1", rec.Document)
	call, _ := store.LastCall("Query")
	assert.Equal(t, "DOC-1", call.Params[core.ParamDocument])
}

func TestUpdatable(t *testing.T) {
	pending := testutil.DocumentResult("DOC-1",
		testutil.DocumentRow("DOC-1", 0, testutil.PendingText, testutil.DefaultCreated))
	svc := newService(testutil.NewMockStore().WithResult(core.StatementCheck, pending))

	res, err := svc.Updatable(context.Background(), "DOC-1")
	require.NoError(t, err)
	assert.True(t, res.Updatable, "the submission text is not checked")
	assert.Equal(t, testutil.DefaultGID, res.ID)

	done := testutil.DocumentResult("DOC-1",
		testutil.DocumentRow("DOC-1", 1, testutil.SubmittedText, testutil.DefaultCreated))
	svc = newService(testutil.NewMockStore().WithResult(core.StatementCheck, done))
	res, err = svc.Updatable(context.Background(), "DOC-1")
	require.NoError(t, err)
	assert.False(t, res.Updatable)
	assert.Empty(t, res.ID)

	svc = newService(testutil.NewMockStore().WithQueryError(testutil.ErrTest))
	res, err = svc.Updatable(context.Background(), "DOC-1")
	require.NoError(t, err)
	assert.False(t, res.Updatable)

	_, err = svc.Updatable(context.Background(), "")
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestFix_DefaultUpdate(t *testing.T) {
	fixed := false
	store := testutil.NewMockStore().
		WithQueryFunc(func(_ context.Context, _ string, _ map[string]any) (*record.ResultSet, error) {
			status := 0
			if fixed {
				status = 1
			}
			return testutil.DocumentResult("DOC-1",
				testutil.DocumentRow("DOC-1", status, testutil.SubmittedText, testutil.DefaultCreated)), nil
		}).
		WithExecuteFunc(func(_ context.Context, _ string, _ map[string]any) (int64, error) {
			fixed = true
			return 1, nil
		})
	svc := newService(store)

	out, err := svc.Fix(context.Background(), "DOC-1")
	require.NoError(t, err)

	assert.True(t, out.Attempted)
	assert.True(t, out.Success)
	assert.Equal(t, "Update completed successfully (affected: 1).", out.Message)
	assert.Equal(t, core.StatementSet, out.Statement)
	assert.NotEmpty(t, out.AttemptID)

	call, ok := store.LastCall("Execute")
	require.True(t, ok)
	assert.Equal(t, core.StatementSet, call.Statement)
	assert.Equal(t, testutil.DefaultGID, call.Params[core.ParamUniqueID])

	require.NotNil(t, out.Record)
	assert.False(t, out.Record.CanFix, "the refreshed card reflects the update")
	assert.Equal(t, 2, store.CallCount("Query"))

	m := svc.Metrics().GetServiceMetrics()
	assert.Equal(t, 1, m.FixesAttempted)
	assert.Equal(t, 1, m.FixesSucceeded)
	assert.Equal(t, int64(1), m.RowsAffected)
}

func TestFix_WrongDayUpdate(t *testing.T) {
	rs := testutil.DocumentResult("DOC-1",
		testutil.DocumentRow("DOC-1", 0, testutil.WrongDayText, testutil.DefaultCreated))
	store := testutil.NewMockStore().
		WithResult(core.StatementCheck, rs).
		WithAffected(core.StatementWrongDayFix, 1)
	svc := newService(store)

	out, err := svc.Fix(context.Background(), "DOC-1")
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, core.StatementWrongDayFix, out.Statement)
	assert.True(t, strings.HasSuffix(out.Message, fix.DefaultWrongDayHint))
}

func TestFix_NotPossible(t *testing.T) {
	rs := testutil.DocumentResult("DOC-1",
		testutil.DocumentRow("DOC-1", 1, testutil.SubmittedText, testutil.DefaultCreated))
	store := testutil.NewMockStore().WithResult(core.StatementCheck, rs)
	svc := newService(store)

	out, err := svc.Fix(context.Background(), "DOC-1")
	require.NoError(t, err)

	assert.False(t, out.Attempted)
	assert.Equal(t, fix.MsgNotPossible, out.Message)
	assert.Zero(t, store.CallCount("Execute"))
	assert.Equal(t, 1, svc.Metrics().GetServiceMetrics().FixesRejected)
}

func TestFix_UpdateFailure(t *testing.T) {
	store := testutil.NewMockStore().
		WithResult(core.StatementCheck, testutil.FixableResult("DOC-1")).
		WithExecuteError(testutil.ErrTest)
	svc := newService(store)

	out, err := svc.Fix(context.Background(), "DOC-1")
	require.NoError(t, err)
	assert.True(t, out.Attempted)
	assert.False(t, out.Success)
	assert.Equal(t, fix.MsgFailed, out.Message)
	assert.Equal(t, 1, store.CallCount("Query"), "no refresh after a failed update")

	sm, ok := svc.Metrics().GetStatementMetrics(core.StatementSet)
	require.True(t, ok)
	assert.Equal(t, 1, sm.Errors)
}

func TestFix_CustomStatement(t *testing.T) {
	store := testutil.NewMockStore().
		WithResult(core.StatementCheck, testutil.FixableResult("DOC-1")).
		WithAffected("set_v2", 1)
	cfg := fix.DefaultConfig()
	cfg.Statement = "set_v2"
	svc := NewDocumentService(store, Options{Fix: cfg})

	out, err := svc.Fix(context.Background(), "DOC-1")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "set_v2", out.Statement)
}

func TestPlan_DoesNotExecute(t *testing.T) {
	store := testutil.NewMockStore().WithResult(core.StatementCheck, testutil.FixableResult("DOC-1"))
	svc := newService(store)

	rec, plan, ok, err := svc.Plan(context.Background(), "DOC-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.CanFix)
	assert.Equal(t, fix.Plan{Statement: core.StatementSet, UniqueID: testutil.DefaultGID}, plan)
	assert.Zero(t, store.CallCount("Execute"))

	_, _, _, err = svc.Plan(context.Background(), "")
	assert.Error(t, err)
}

func TestCandidates(t *testing.T) {
	rs := testutil.CandidateResult(
		[]string{"2024-03-06", "2024-03-05", "2024-03-07"},
		[]string{"INV-200", "INV-100", "CRN-300"},
		[]any{0, 0, "x"},
	)
	store := testutil.NewMockStore().WithResult(core.StatementAuto, rs)
	svc := newService(store)

	got, err := svc.Candidates(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "INV-100", got[0].Document)
	assert.Nil(t, got[2].Status)

	got, err = svc.Candidates(context.Background(), " CRN ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CRN-300", got[0].Document)

	store.WithQueryError(testutil.ErrTest)
	_, err = svc.Candidates(context.Background(), "")
	assert.ErrorIs(t, err, testutil.ErrTest)
}

func TestOverview(t *testing.T) {
	store := testutil.NewMockStore().
		WithResult(core.StatementCheck, testutil.FixableResult("DOC-1")).
		WithResult(core.StatementAuto, testutil.CandidateResult(nil, []string{"DOC-1"}, []any{0}))
	svc := newService(store)

	ov, err := svc.Overview(context.Background(), "DOC-1")
	require.NoError(t, err)
	require.NotNil(t, ov.Record)
	assert.True(t, ov.Record.CanFix)
	require.Len(t, ov.Candidates, 1)
	assert.True(t, ov.Candidates[0].Pending())

	ov, err = svc.Overview(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, ov.Record)
	assert.Len(t, ov.Candidates, 1)
}

func TestOverview_CandidateFailureKeepsRecord(t *testing.T) {
	store := testutil.NewMockStore().
		WithQueryFunc(func(_ context.Context, statement string, _ map[string]any) (*record.ResultSet, error) {
			if statement == core.StatementAuto {
				return nil, errors.New("auto failed")
			}
			return testutil.FixableResult("DOC-1"), nil
		})
	svc := newService(store)

	ov, err := svc.Overview(context.Background(), "DOC-1")
	require.NoError(t, err)
	require.NotNil(t, ov.Record)
	assert.True(t, ov.Record.Found)
	assert.NotNil(t, ov.Candidates)
	assert.Empty(t, ov.Candidates)
}

func TestHealth(t *testing.T) {
	assert.NoError(t, newService(testutil.NewMockStore()).Health(context.Background()))

	err := newService(testutil.NewMockStore().WithPingError(testutil.ErrTest)).Health(context.Background())
	assert.ErrorIs(t, err, testutil.ErrTest)
}
