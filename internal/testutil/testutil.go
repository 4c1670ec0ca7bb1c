// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/synexim/linen/internal/kvstore"
	"github.com/synexim/linen/internal/notestore"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite key-value store that is automatically
// cleaned up.
func TestDB(t *testing.T) *kvstore.DB {
	t.Helper()
	db, err := kvstore.Open(filepath.Join(t.TempDir(), "linen-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a loaded note store backed by an in-memory provider.
func TestStore(t *testing.T) *notestore.Store {
	t.Helper()
	store := notestore.New(kvstore.NewMemory(), Logger())
	store.Load()
	t.Cleanup(store.Close)
	return store
}
