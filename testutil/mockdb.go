package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with an empty
// workspaceKV table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	createWorkspaceKV(t, db)
	return db
}

// CreateTestDB creates an in-memory database holding the sample sessions
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)
	for _, row := range SampleRows() {
		InsertRow(t, db, row.Key, row.Value)
	}
	return db
}

// InsertRow inserts or replaces a workspaceKV row
func InsertRow(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT OR REPLACE INTO workspaceKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("insert %s: %v", key, err)
	}
}

// createWorkspaceKV creates the table the flux SQLite registry reads
func createWorkspaceKV(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS workspaceKV (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("create workspaceKV: %v", err)
	}
}
