package testutil

import "github.com/hugo-lorenzo-mato/docfix/internal/record"

// Status texts seen in real lookups.
const (
	SubmittedText  = "Successfully submitted to IAPR"
	WrongDayText   = "Aade Validation Error: IssueDate is invalid, it must be equal with current date"
	PendingText    = "Pending transmission"
	DefaultGID     = "6F9619FF-8B86-D011-B42D-00CF4FC964FF"
	DefaultCreated = "2024-03-05T10:20:30Z"
)

// DocumentColumns is the column list of a typical check lookup. The
// identifier column appears twice, as the joined source tables both carry it.
var DocumentColumns = []string{
	"fDocumentGID", "ADCode", "Status", "StatusText", "ESUCreated", "ESDCreated",
	"ProviderName", "InvoiceURL", "CurrencyNetValue", "CurrencyVATValue",
	"CurrencyTotalValue", "fCashAccountTypeCode", "fDocumentGID",
}

// DocumentRow returns the values of one check row for DocumentColumns.
func DocumentRow(document string, status any, statusText, created string) []any {
	return []any{
		nil, document, status, statusText, "jdoe", created,
		"Provider SA", "provider.gr/inv/" + document, "100.00", "24.00",
		"124.00", "ΜΕΤ", DefaultGID,
	}
}

// DocumentResult builds a check result set with one row per status pair.
func DocumentResult(document string, rows ...[]any) *record.ResultSet {
	return record.NewResultSet(DocumentColumns, rows)
}

// FixableResult is a single submitted, still pending record.
func FixableResult(document string) *record.ResultSet {
	return DocumentResult(document, DocumentRow(document, 0, SubmittedText, DefaultCreated))
}

// CandidateResult builds an auto statement result from document/status pairs.
func CandidateResult(created []string, docs []string, statuses []any) *record.ResultSet {
	values := make([][]any, len(docs))
	for i := range docs {
		var at any
		if i < len(created) {
			at = created[i]
		}
		values[i] = []any{docs[i], statuses[i], at}
	}
	return record.NewResultSet([]string{"ADCode", "Status", "ESDCreated"}, values)
}
