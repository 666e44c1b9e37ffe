package render

import (
	"fmt"
	"sort"

	swfcore "github.com/user-none/eflash/api"
)

// Backend is one concrete rendering implementation. A backend holds no
// resources until Build and holds none again after Release; every
// resource acquired by Build is released by Release with no partial
// paths in between.
type Backend interface {
	// API returns the backend family.
	API() API

	// Build allocates all rendering resources for a movie of the given
	// size. Calling Build on a built backend is a programming error.
	Build(width, height int) error

	// Release frees everything Build allocated. Safe to call at any
	// time, including after a failed Build or mid-frame abort.
	Release()

	// Target returns the player-facing render target. Only valid while
	// built.
	Target() swfcore.RenderTarget

	// Flush blocks until outstanding draw work for the current frame has
	// completed. Bounded; backends must not wait on future work.
	Flush() error

	// Frame returns the completed frame as XRGB8888 pixels plus row
	// stride, or nil for hardware backends presented through the host
	// context.
	Frame() (pix []byte, stride int)
}

// Constructor builds a Backend from the host-supplied context object.
// Software backends ignore the context; hardware backends require their
// matching context type.
type Constructor func(hostCtx any) (Backend, error)

var registry = map[API]Constructor{}

// Register makes a backend constructor available for selection. Called
// from init in each backend file; later registrations replace earlier
// ones, which lets tests install fakes.
func Register(api API, ctor Constructor) {
	registry[api] = ctor
}

// Registered returns the available APIs in preference order, most capable
// first: Vulkan, OpenGL, Software.
func Registered() []API {
	apis := make([]API, 0, len(registry))
	for api := range registry {
		apis = append(apis, api)
	}
	sort.Slice(apis, func(i, j int) bool { return apis[i] > apis[j] })
	return apis
}

// Supported reports whether a backend is registered for api.
func Supported(api API) bool {
	_, ok := registry[api]
	return ok
}

// New constructs the backend for api from the host context.
func New(api API, hostCtx any) (Backend, error) {
	ctor, ok := registry[api]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, api)
	}
	return ctor(hostCtx)
}
