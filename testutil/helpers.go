// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir returns a fresh directory that is removed when the test ends
func CreateTempDir(t testing.TB) string {
	t.Helper()
	return t.TempDir()
}

// WriteFile writes content to dir/name, creating missing parent
// directories, and returns the full path
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
