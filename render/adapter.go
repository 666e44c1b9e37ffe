package render

import (
	"fmt"

	swfcore "github.com/user-none/eflash/api"
)

type adapterState int

const (
	adapterUnbuilt adapterState = iota
	adapterBuilt
	adapterInvalidated
)

// Adapter owns the render surface across host context generations. It is
// a three-state machine: Unbuilt -> Built(gen) -> Invalidated -> Built
// (gen+1) and so on. The generation counter strictly increases for the
// lifetime of the adapter.
type Adapter struct {
	state   adapterState
	backend Backend
	gen     uint64
	surface *Surface
}

// NewAdapter returns an unbuilt adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Build constructs a surface of the given size on backend. Valid only
// from the Unbuilt or Invalidated states; a live surface must be
// invalidated first. On failure the backend is released and the adapter
// stays rebuildable.
func (a *Adapter) Build(backend Backend, width, height int) (*Surface, error) {
	if a.state == adapterBuilt {
		return nil, ErrAlreadyBuilt
	}

	if err := backend.Build(width, height); err != nil {
		backend.Release()
		return nil, fmt.Errorf("render: build %s backend: %w", backend.API(), err)
	}

	a.gen++
	a.backend = backend
	a.surface = &Surface{
		gen:     a.gen,
		backend: backend,
		width:   width,
		height:  height,
	}
	a.state = adapterBuilt
	return a.surface, nil
}

// Invalidate releases all resources tied to the current generation and
// marks any outstanding surface stale. Callable at any time, including
// mid-frame; in-flight backend work is given one bounded flush to drain.
func (a *Adapter) Invalidate() {
	if a.backend != nil {
		// Drain, then release. A flush error here means the work is
		// being discarded with the context, which is fine.
		_ = a.backend.Flush()
		a.backend.Release()
		a.backend = nil
	}
	a.surface = nil
	a.state = adapterInvalidated
}

// Generation returns the current generation counter. Zero until the
// first Build.
func (a *Adapter) Generation() uint64 {
	return a.gen
}

// Current returns the live surface, or ok=false when unbuilt or
// invalidated.
func (a *Adapter) Current() (*Surface, bool) {
	if a.state != adapterBuilt {
		return nil, false
	}
	return a.surface, true
}

// Fresh reports whether s is the live surface of the current generation.
// Rendering through a surface for which Fresh is false is refused.
func (a *Adapter) Fresh(s *Surface) bool {
	return s != nil && a.state == adapterBuilt && s.gen == a.gen
}

// Built reports whether a surface is live.
func (a *Adapter) Built() bool {
	return a.state == adapterBuilt
}

// Surface wraps the host GPU objects for exactly one generation. It is
// created by Adapter.Build and becomes stale on Invalidate; stale
// surfaces must not be drawn through.
type Surface struct {
	gen     uint64
	backend Backend
	width   int
	height  int
}

// Generation returns the generation this surface belongs to.
func (s *Surface) Generation() uint64 {
	return s.gen
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Target returns the player-facing render target.
func (s *Surface) Target() swfcore.RenderTarget {
	return s.backend.Target()
}

// Flush waits for outstanding draw work. Must be called before the host
// presents the surface.
func (s *Surface) Flush() error {
	return s.backend.Flush()
}

// Frame returns the completed software frame, or nil for hardware
// backends.
func (s *Surface) Frame() (pix []byte, stride int) {
	return s.backend.Frame()
}
