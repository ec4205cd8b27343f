// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"os"
	"testing"

	"github.com/aldenvik/dagbok/internal/kvstore"
)

// TestSQLiteStore creates a temporary SQLite-backed store that is
// automatically cleaned up.
func TestSQLiteStore(t *testing.T) *kvstore.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagbok-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := kvstore.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestFSStore creates a store rooted in a temporary directory.
func TestFSStore(t *testing.T) *kvstore.FS {
	t.Helper()
	store, err := kvstore.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}
