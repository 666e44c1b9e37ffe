package storage

import (
	"bytes"
	"testing"

	swfcore "github.com/user-none/eflash/api"
)

var _ swfcore.StorageBackend = (*Memory)(nil)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get("missing"); ok {
		t.Fatalf("empty store should have no objects")
	}

	if err := m.Put("save1", []byte{1, 2, 3}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	data, ok := m.Get("save1")
	if !ok {
		t.Fatalf("stored object not found")
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestMemoryCopies(t *testing.T) {
	m := NewMemory()

	src := []byte{1, 2, 3}
	m.Put("obj", src)
	src[0] = 99

	data, _ := m.Get("obj")
	if data[0] != 1 {
		t.Fatalf("store must not alias the caller's slice")
	}

	// Mutating the returned slice must not affect the store either.
	data[1] = 99
	again, _ := m.Get("obj")
	if again[1] != 2 {
		t.Fatalf("returned slices must be independent copies")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	m.Put("obj", []byte("old"))
	m.Put("obj", []byte("new"))

	data, _ := m.Get("obj")
	if string(data) != "new" {
		t.Fatalf("expected new, got %q", data)
	}
}

func TestMemoryRemove(t *testing.T) {
	m := NewMemory()
	m.Put("obj", []byte("x"))
	if err := m.Remove("obj"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := m.Get("obj"); ok {
		t.Fatalf("removed object still present")
	}
	// Removing a missing object is not an error.
	if err := m.Remove("obj"); err != nil {
		t.Fatalf("double remove failed: %v", err)
	}
}

func TestMemoryKeysSorted(t *testing.T) {
	m := NewMemory()
	m.Put("charlie", nil)
	m.Put("alpha", nil)
	m.Put("bravo", nil)

	keys, err := m.Keys()
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
