package kvstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/synexim/linen/internal/apperr"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linen-test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testProvider(t *testing.T, p Provider) {
	t.Helper()

	if _, err := p.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get missing key: err = %v, want ErrNotFound", err)
	}

	if err := p.Set("notes", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := p.Get("notes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Get = %q", got)
	}

	// Overwrite: last write wins.
	if err := p.Set("notes", []byte(`[]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = p.Get("notes")
	if string(got) != `[]` {
		t.Errorf("after overwrite: %q", got)
	}

	if err := p.Delete("notes"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := p.Get("notes"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	// Deleting an absent key is fine.
	if err := p.Delete("notes"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestSQLiteProvider(t *testing.T) {
	testProvider(t, openTestDB(t))
}

func TestMemoryProvider(t *testing.T) {
	testProvider(t, NewMemory())
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Set("settings", []byte(`{"fontSize":"large"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	got, err := db2.Get("settings")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"fontSize":"large"}` {
		t.Errorf("got %q", got)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	_ = m.Set("k", []byte("abc"))
	got, _ := m.Get("k")
	got[0] = 'z'
	again, _ := m.Get("k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}
