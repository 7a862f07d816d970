package catalog

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestStore creates a file-backed SQLite database with the catalog
// schema and a Store over it. It uses t.Cleanup to release resources.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

// loadFixture reads testdata/fixture.yaml into a new Catalog.
func loadFixture(tb testing.TB) *Catalog {
	tb.Helper()
	f, err := os.Open(filepath.Join("testdata", "fixture.yaml"))
	if err != nil {
		tb.Fatalf("failed to open fixture: %v", err)
	}
	defer func() { _ = f.Close() }()

	snapshot, err := ReadSnapshot(f, FormatYAML)
	if err != nil {
		tb.Fatalf("ReadSnapshot() error = %v", err)
	}
	return snapshot.Catalog()
}
