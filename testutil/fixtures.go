package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Row is one workspaceKV entry
type Row struct {
	Key   string
	Value string
}

// SampleRows returns two stored sessions, an order key that lists beta
// first and one malformed row
func SampleRows() []Row {
	return []Row{
		{
			Key: "session:alpha",
			Value: `{"title":"Alpha","messages":[` +
				`{"id":1,"role":"user","content":"first question"},` +
				`{"id":2,"role":"ai","content":"first answer"},` +
				`{"id":3,"role":"user","content":"second question"},` +
				`{"id":4,"role":"ai","content":"second answer"}],` +
				`"chapters":[{"id":1,"title":"1. Start","startIndex":2,"superPrompt":"Alpha summary"}]}`,
		},
		{
			Key: "session:beta",
			Value: `{"title":"Beta","messages":[` +
				`{"id":10,"role":"user","content":"hello"},` +
				`{"id":11,"role":"assistant","content":"hi"}]}`,
		},
		{
			Key:   "session:broken",
			Value: `{not json`,
		},
		{
			Key:   "meta:order",
			Value: `["beta","alpha","missing"]`,
		},
	}
}

// CreateSQLiteFixture writes the sample rows to a new database file
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(dbPath), err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open %s: %v", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	createWorkspaceKV(t, db)
	for _, row := range SampleRows() {
		InsertRow(t, db, row.Key, row.Value)
	}
}

// SampleCatalog is a small catalog document with two sessions
const SampleCatalog = `sessions:
  - id: gamma
    title: Gamma
    messages:
      - id: 1
        role: user
        content: "gamma question"
      - id: 2
        role: ai
        content: "gamma answer"
    chapters:
      - id: 1
        title: "1. Only"
        startIndex: 1
        superPrompt: "Gamma summary"
  - id: delta
    title: Delta
    messages:
      - role: user
        content: "no id here"
      - role: ai
        content: "nor here"
`

// CreateCatalogFixture writes content to dir/catalog.yaml and returns its path
func CreateCatalogFixture(t *testing.T, dir, content string) string {
	return WriteFile(t, dir, "catalog.yaml", content)
}

// CreateConfigFixture writes content to dir/config.toml and returns its path
func CreateConfigFixture(t *testing.T, dir, content string) string {
	return WriteFile(t, dir, "config.toml", content)
}
