package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// ECOSSchema is a SQLite rendition of the two ERP tables the statements read.
const ECOSSchema = `
CREATE TABLE ESFIDocumentTrade (
    GID TEXT PRIMARY KEY,
    ADCode TEXT NOT NULL,
    ESDCreated TEXT,
    ESUCreated TEXT,
    fCashAccountTypeCode TEXT,
    AuthorizationID TEXT,
    CurrencyNetValue REAL,
    CurrencyVATValue REAL,
    CurrencyTotalValue REAL
);
CREATE TABLE ESFIDocumentECOS (
    fDocumentGID TEXT PRIMARY KEY,
    Status INTEGER NOT NULL DEFAULT 0,
    StatusText TEXT,
    UID TEXT,
    AuthenticationCode TEXT,
    MarkID TEXT,
    ProviderName TEXT,
    InvoiceURL TEXT,
    QRCode BLOB,
    IssueDate TEXT,
    ESDModified TEXT
);
`

// SeedDocument is one document row plus its transmission row.
type SeedDocument struct {
	GID        string
	ADCode     string
	Created    string
	User       string
	Status     int
	StatusText string
	QRCode     []byte
}

// SQLiteFixture creates a SQLite database in a temp dir, loads ECOSSchema
// and inserts docs. It returns the database path.
func SQLiteFixture(t *testing.T, docs ...SeedDocument) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "erp.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ECOSSchema); err != nil {
		t.Fatalf("creating fixture schema: %v", err)
	}
	for _, d := range docs {
		if _, err := db.Exec(
			`INSERT INTO ESFIDocumentTrade (GID, ADCode, ESDCreated, ESUCreated, fCashAccountTypeCode, CurrencyNetValue, CurrencyVATValue, CurrencyTotalValue)
			 VALUES (?, ?, ?, ?, 'ΜΕΤ', 100, 24, 124)`,
			d.GID, d.ADCode, d.Created, d.User,
		); err != nil {
			t.Fatalf("seeding document %s: %v", d.ADCode, err)
		}
		if _, err := db.Exec(
			`INSERT INTO ESFIDocumentECOS (fDocumentGID, Status, StatusText, UID, MarkID, ProviderName, InvoiceURL, QRCode)
			 VALUES (?, ?, ?, 'uid-' || ?, '4000012', 'Provider SA', 'provider.gr/' || ?, ?)`,
			d.GID, d.Status, d.StatusText, d.ADCode, d.ADCode, d.QRCode,
		); err != nil {
			t.Fatalf("seeding transmission %s: %v", d.ADCode, err)
		}
	}
	return path
}

// QuerySQLite runs a single-value query against a fixture database.
func QuerySQLite(t *testing.T, path, query string, args ...any) any {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer db.Close()

	var v any
	if err := db.QueryRow(query, args...).Scan(&v); err != nil {
		t.Fatalf("querying fixture: %v", err)
	}
	return v
}
