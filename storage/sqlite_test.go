package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	swfcore "github.com/user-none/eflash/api"
)

var _ swfcore.StorageBackend = (*SQLite)(nil)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	// The parent directory does not exist yet; OpenSQLite creates it.
	path := filepath.Join(t.TempDir(), "shared_objects", "movie.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("empty store should have no objects")
	}

	if err := store.Put("save1", []byte{0xde, 0xad}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	data, ok := store.Get("save1")
	if !ok {
		t.Fatalf("stored object not found")
	}
	if !bytes.Equal(data, []byte{0xde, 0xad}) {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	store := openTestStore(t)

	store.Put("obj", []byte("old"))
	if err := store.Put("obj", []byte("new")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ := store.Get("obj")
	if string(data) != "new" {
		t.Fatalf("expected new, got %q", data)
	}
}

func TestSQLiteRemove(t *testing.T) {
	store := openTestStore(t)

	store.Put("obj", []byte("x"))
	if err := store.Remove("obj"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := store.Get("obj"); ok {
		t.Fatalf("removed object still present")
	}
}

func TestSQLiteKeysSorted(t *testing.T) {
	store := openTestStore(t)

	store.Put("charlie", []byte("c"))
	store.Put("alpha", []byte("a"))
	store.Put("bravo", []byte("b"))

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Put("progress", []byte("level 3")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	data, ok := reopened.Get("progress")
	if !ok {
		t.Fatalf("object lost across reopen")
	}
	if string(data) != "level 3" {
		t.Fatalf("expected level 3, got %q", data)
	}
}

func TestSQLiteCreatesParentDirs(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a", "b", "movie.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent directory not created: %v", err)
	}
}
