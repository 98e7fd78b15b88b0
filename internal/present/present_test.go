package present

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/docfix/internal/checkpoint"
	"github.com/hugo-lorenzo-mato/docfix/internal/record"
)

var fullColumns = []string{
	"fDocumentGID", "ADCode", "Status", "StatusText", "UID", "AuthenticationCode",
	"MarkID", "ESUCreated", "ESDCreated", "ProviderName", "InvoiceURL", "QRCode",
	"CurrencyNetValue", "CurrencyVATValue", "CurrencyTotalValue",
	"fCashAccountTypeCode", "AuthorizationID", "Remarks",
}

var png = append([]byte("\x89PNG\r\n\x1a\n"), "payload"...)

func fullRow(gid string, status any, statusText, created string) []any {
	return []any{
		gid, "DOC-1", status, statusText, " uid-1 ", "AUTH-9",
		"400001234", "jdoe", created, "Provider SA", "provider.gr/inv/1", png,
		"1234.5", 296.28, "1530.78",
		PaymentCreditCard, "AUTHZ-77", "left over",
	}
}

func fieldByLabel(t *testing.T, fields []Field, label string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Label == label {
			return f
		}
	}
	t.Fatalf("field %q not found in %+v", label, fields)
	return Field{}
}

func TestBuild_NoRecords(t *testing.T) {
	t.Parallel()

	p := New(nil, nil)
	for _, rs := range []*record.ResultSet{nil, record.NewResultSet(fullColumns, nil)} {
		rec := p.Build(rs, "DOC-404")
		assert.False(t, rec.Found)
		assert.False(t, rec.CanFix)
		assert.Equal(t, "DOC-404", rec.Document)
		assert.Equal(t, MsgNoRecords, rec.StatusMessage)
		assert.Empty(t, rec.Checkpoints)
	}
}

func TestBuild_FixableRecord(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet(fullColumns, [][]any{
		fullRow("GID-1", "0", "Successfully submitted to IAPR", "2024-03-05T10:20:30Z"),
	})
	rec := New(nil, nil).Build(rs, "DOC-1")

	require.True(t, rec.Found)
	assert.False(t, rec.Multiple)
	assert.Equal(t, 1, rec.ResultCount)
	assert.True(t, rec.CanFix)
	assert.Equal(t, "GID-1", rec.IDToUpdate)
	assert.Empty(t, rec.StatusMessage)
	require.Len(t, rec.Checkpoints, 3)
	for i, cp := range rec.Checkpoints {
		assert.True(t, cp.Pass, "checkpoint %d", i+1)
	}

	assert.Equal(t, "Document", rec.BasicInfo[0].Label)
	assert.Equal(t, "DOC-1", rec.BasicInfo[0].Value)
	assert.Equal(t, StatusFailed, fieldByLabel(t, rec.BasicInfo, "Status").Value)
	assert.Equal(t, "GID-1", fieldByLabel(t, rec.BasicInfo, "GID").Value)
	assert.Equal(t, "uid-1", fieldByLabel(t, rec.BasicInfo, "UID").Value)
	assert.Equal(t, "AUTH-9", fieldByLabel(t, rec.BasicInfo, "AuthenticationCode").Value)
	assert.Equal(t, "MarkID", rec.BasicInfo[len(rec.BasicInfo)-1].Label)

	assert.Equal(t, "jdoe", fieldByLabel(t, rec.UserInfo, "User").Value)
	assert.Equal(t, "05.03.2024 • 10:20:30", fieldByLabel(t, rec.UserInfo, "Date").Value)
	require.NotNil(t, rec.UserDate)
	assert.Equal(t, DateBadge{Day: "05", Month: "MAR"}, *rec.UserDate)

	link := fieldByLabel(t, rec.ProviderInfo, "Invoice Link")
	assert.True(t, link.IsLink)
	assert.Equal(t, "provider.gr/inv/1", link.Value)
	assert.Equal(t, "https://provider.gr/inv/1", link.Href)
	assert.True(t, fieldByLabel(t, rec.ProviderInfo, "QR Code").IsQR)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png), rec.QRDataURL)

	assert.Equal(t, "1.234,50", fieldByLabel(t, rec.PriceInfo, "Net Amount").Value)
	assert.Equal(t, "296,28", fieldByLabel(t, rec.PriceInfo, "VAT Amount").Value)
	assert.Equal(t, "1.530,78", fieldByLabel(t, rec.PriceInfo, "Total").Value)

	require.NotNil(t, rec.Payment)
	assert.Equal(t, Payment{Code: PaymentCreditCard, Display: "Credit Card", Icon: "fa-credit-card", AuthID: "AUTHZ-77"}, *rec.Payment)

	assert.Contains(t, rec.ShownKeys, "AuthorizationID")
	assert.Contains(t, rec.ShownKeys, "CurrencyNetValue")
	assert.NotContains(t, rec.ShownKeys, "Remarks")
	assert.NotContains(t, rec.ShownKeys, "StatusText", "the status text is not a card field")
	assert.Equal(t, []string{"ADCode", "StatusText", "Remarks"}, rec.Leftovers())
	assert.Equal(t, "Successfully submitted to IAPR", rec.StatusText)
	assert.True(t, rec.Evaluation().AllPass)
}

func TestBuild_MultipleRecords(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet(fullColumns, [][]any{
		fullRow("GID-NEW", 0, "Successfully submitted to IAPR", "2024-05-01 09:00:00"),
		fullRow("GID-OLD", 0, "Successfully submitted to IAPR", "2024-01-01 09:00:00"),
	})
	rec := New(nil, nil).Build(rs, "DOC-1")

	assert.True(t, rec.Found)
	assert.True(t, rec.Multiple)
	assert.Equal(t, 2, rec.ResultCount)
	assert.False(t, rec.CanFix)
	assert.Empty(t, rec.IDToUpdate)
	assert.Equal(t, "GID-OLD", fieldByLabel(t, rec.BasicInfo, "GID").Value, "the oldest row is shown")
	assert.Equal(t, checkpoint.MsgMultipleRecords, rec.StatusMessage)
	assert.Equal(t, checkpoint.MsgMultipleRecords, rec.Checkpoints[0].Message)
	assert.False(t, rec.Checkpoints[1].Pass)
	assert.False(t, rec.Checkpoints[2].Pass)
}

func TestBuild_FirstFailureBecomesStatus(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet(fullColumns, [][]any{
		fullRow("GID-1", 1, "Pending", "2024-03-05"),
	})
	rec := New(nil, nil).Build(rs, "DOC-1")

	assert.False(t, rec.CanFix)
	assert.Equal(t, checkpoint.MsgNotSubmitted, rec.StatusMessage)
	assert.Equal(t, StatusSubmitted, fieldByLabel(t, rec.BasicInfo, "Status").Value)
}

func TestBuild_FallbacksAndNotes(t *testing.T) {
	t.Parallel()

	cols := []string{"fDocumentGID", "Status", "StatusText", "ESDCreated", "ADNetValue", "CurrencyVATValue", "TotalValue", "fCashAccountTypeCode", "AuthorizationID", "QRCode"}
	rs := record.NewResultSet(cols, [][]any{
		{"GID-1", 0, "Successfully submitted to IAPR", "garbled", "10", "2.4", nil, PaymentCash, "AUTHZ-1", "not an image"},
	})
	rec := New(nil, nil).Build(rs, "DOC-1")

	assert.True(t, rec.CanFix)
	lines := strings.Split(rec.StatusMessage, "\n")
	assert.Equal(t, []string{MsgMissingUser, MsgPriceFallback}, lines)

	net := fieldByLabel(t, rec.PriceInfo, "Net Amount")
	assert.Equal(t, "ADNetValue", net.Key)
	assert.Equal(t, "10,00", net.Value)
	total := fieldByLabel(t, rec.PriceInfo, "Total")
	assert.Equal(t, "CurrencyTotalValue", total.Key, "missing amounts keep the primary key")
	assert.Empty(t, total.Value)

	assert.Equal(t, "garbled", fieldByLabel(t, rec.UserInfo, "Date").Value)
	assert.Nil(t, rec.UserDate)
	assert.Empty(t, rec.QRDataURL)

	require.NotNil(t, rec.Payment)
	assert.Equal(t, "Cash Payment", rec.Payment.Display)
	assert.Empty(t, rec.Payment.AuthID, "authorization ids only apply to card payments")
	assert.NotContains(t, rec.ShownKeys, "AuthorizationID")
}

func TestBuild_UnknownPayment(t *testing.T) {
	t.Parallel()

	rs := record.NewResultSet([]string{"fDocumentGID", "fCashAccountTypeCode"}, [][]any{{"GID-1", "XYZ"}})
	rec := New(nil, nil).Build(rs, "DOC-1")

	require.NotNil(t, rec.Payment)
	assert.Equal(t, "Unknown Payment Method (XYZ)", rec.Payment.Display)
	assert.Equal(t, "fa-circle-question", rec.Payment.Icon)
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{1, StatusSubmitted, true},
		{"true", StatusSubmitted, true},
		{int64(0), StatusFailed, true},
		{"False", StatusFailed, true},
		{"7", "7", true},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := StatusLabel(tt.in)
		assert.Equal(t, tt.ok, ok, "StatusLabel(%#v)", tt.in)
		assert.Equal(t, tt.want, got, "StatusLabel(%#v)", tt.in)
	}
}

func TestAddStatus(t *testing.T) {
	t.Parallel()

	var rec DisplayRecord
	rec.AddStatus("a")
	rec.AddStatus("b")
	assert.Equal(t, "a\nb", rec.StatusMessage)
}
