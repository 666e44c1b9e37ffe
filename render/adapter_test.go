package render

import (
	"errors"
	"testing"

	swfcore "github.com/user-none/eflash/api"
)

// fakeBackend records lifecycle calls so the tests can check the adapter
// drives it correctly.
type fakeBackend struct {
	buildErr error
	builds   int
	releases int
	flushes  int
	built    bool
}

func (b *fakeBackend) API() API { return APISoftware }

func (b *fakeBackend) Build(width, height int) error {
	b.builds++
	if b.buildErr != nil {
		return b.buildErr
	}
	b.built = true
	return nil
}

func (b *fakeBackend) Release() {
	b.releases++
	b.built = false
}

func (b *fakeBackend) Target() swfcore.RenderTarget { return nil }

func (b *fakeBackend) Flush() error {
	b.flushes++
	return nil
}

func (b *fakeBackend) Frame() (pix []byte, stride int) { return nil, 0 }

func TestAdapterBuild(t *testing.T) {
	a := NewAdapter()
	if a.Built() {
		t.Fatalf("new adapter should be unbuilt")
	}
	if a.Generation() != 0 {
		t.Fatalf("expected generation 0, got %d", a.Generation())
	}
	if _, ok := a.Current(); ok {
		t.Fatalf("unbuilt adapter should have no surface")
	}

	be := &fakeBackend{}
	s, err := a.Build(be, 550, 400)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !a.Built() {
		t.Fatalf("adapter should be built")
	}
	if a.Generation() != 1 || s.Generation() != 1 {
		t.Fatalf("expected generation 1, got adapter %d surface %d", a.Generation(), s.Generation())
	}
	if w, h := s.Size(); w != 550 || h != 400 {
		t.Fatalf("expected 550x400, got %dx%d", w, h)
	}
	if !a.Fresh(s) {
		t.Fatalf("just-built surface should be fresh")
	}
	cur, ok := a.Current()
	if !ok || cur != s {
		t.Fatalf("Current should return the built surface")
	}
}

func TestAdapterDoubleBuild(t *testing.T) {
	a := NewAdapter()
	if _, err := a.Build(&fakeBackend{}, 100, 100); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := a.Build(&fakeBackend{}, 100, 100); !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("expected ErrAlreadyBuilt, got %v", err)
	}
	if a.Generation() != 1 {
		t.Fatalf("failed build must not advance the generation, got %d", a.Generation())
	}
}

func TestAdapterInvalidate(t *testing.T) {
	a := NewAdapter()
	be := &fakeBackend{}
	s, err := a.Build(be, 100, 100)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	a.Invalidate()
	if a.Built() {
		t.Fatalf("adapter should not be built after invalidate")
	}
	if a.Fresh(s) {
		t.Fatalf("surface should be stale after invalidate")
	}
	if _, ok := a.Current(); ok {
		t.Fatalf("no surface should be live after invalidate")
	}
	if be.flushes != 1 {
		t.Fatalf("invalidate should drain the backend once, got %d flushes", be.flushes)
	}
	if be.releases != 1 {
		t.Fatalf("invalidate should release the backend once, got %d releases", be.releases)
	}
}

func TestAdapterGenerationIncrements(t *testing.T) {
	a := NewAdapter()

	s1, err := a.Build(&fakeBackend{}, 100, 100)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	a.Invalidate()
	s2, err := a.Build(&fakeBackend{}, 100, 100)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	if s1.Generation() != 1 || s2.Generation() != 2 {
		t.Fatalf("expected generations 1 and 2, got %d and %d", s1.Generation(), s2.Generation())
	}
	if a.Fresh(s1) {
		t.Fatalf("old-generation surface must never be fresh again")
	}
	if !a.Fresh(s2) {
		t.Fatalf("rebuilt surface should be fresh")
	}
}

func TestAdapterBuildFailure(t *testing.T) {
	a := NewAdapter()
	be := &fakeBackend{buildErr: errors.New("device lost")}

	if _, err := a.Build(be, 100, 100); err == nil {
		t.Fatalf("expected build error")
	}
	if be.releases != 1 {
		t.Fatalf("failed build should release the backend, got %d releases", be.releases)
	}
	if a.Built() {
		t.Fatalf("adapter should remain unbuilt after a failed build")
	}
	if a.Generation() != 0 {
		t.Fatalf("failed build must not advance the generation, got %d", a.Generation())
	}

	// Still rebuildable with a working backend.
	if _, err := a.Build(&fakeBackend{}, 100, 100); err != nil {
		t.Fatalf("rebuild after failure failed: %v", err)
	}
	if a.Generation() != 1 {
		t.Fatalf("expected generation 1 after recovery, got %d", a.Generation())
	}
}

func TestAdapterFreshNil(t *testing.T) {
	a := NewAdapter()
	if a.Fresh(nil) {
		t.Fatalf("nil surface must not be fresh")
	}
}

func TestRegisteredPreferenceOrder(t *testing.T) {
	apis := Registered()
	for i := 1; i < len(apis); i++ {
		if apis[i] > apis[i-1] {
			t.Fatalf("expected most capable first, got %v", apis)
		}
	}
	if !Supported(APISoftware) {
		t.Fatalf("software backend should always be registered")
	}
}
