package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Sessions live in a single key/value table. Keys are "session:<id>" with
// a JSON RawSession value, plus SessionOrderKey.
const (
	workspaceKVSchema = `CREATE TABLE IF NOT EXISTS workspaceKV (key TEXT PRIMARY KEY, value TEXT)`
	selectKVLike      = `SELECT key, value FROM workspaceKV WHERE key LIKE ? AND value IS NOT NULL ORDER BY key`
	selectKV          = `SELECT value FROM workspaceKV WHERE key = ?`
	upsertKV          = `INSERT OR REPLACE INTO workspaceKV (key, value) VALUES (?, ?)`
)

// KeyValuePair is one workspaceKV row
type KeyValuePair struct {
	Key   string
	Value string
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// OpenDatabase opens an existing database read-only. A missing or
// unreadable file fails here rather than on the first query, and no file
// is ever created.
func OpenDatabase(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return openSQLite(path, "file:"+path+"?mode=ro", "")
}

// OpenWritableDatabase opens or creates a database and makes sure the
// workspaceKV table exists
func OpenWritableDatabase(path string) (*sql.DB, error) {
	return openSQLite(path, path, workspaceKVSchema)
}

func openSQLite(path, dsn, schema string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	if schema == "" {
		err = db.Ping()
	} else {
		_, err = db.Exec(schema)
	}
	if err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

// QueryWorkspaceKV returns the non-NULL rows whose key matches a LIKE
// pattern, sorted by key
func QueryWorkspaceKV(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	rows, err := db.Query(selectKVLike, pattern)
	if err != nil {
		return nil, fmt.Errorf("query workspaceKV %q: %w", pattern, err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		if err := rows.Scan(&pair.Key, &pair.Value); err != nil {
			return nil, fmt.Errorf("scan workspaceKV row: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// GetWorkspaceKV reads a single key. It reports false when the key is
// absent or its value is NULL.
func GetWorkspaceKV(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	switch err := db.QueryRow(selectKV, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value.String, value.Valid, nil
}

// PutWorkspaceKV inserts or replaces a key, inside a transaction when db
// is a *sql.Tx
func PutWorkspaceKV(db execer, key, value string) error {
	if _, err := db.Exec(upsertKV, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
