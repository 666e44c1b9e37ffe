// Package render negotiates and adapts the GPU surface the player draws
// into. The host frontend owns the underlying context; this package wraps
// it for exactly one generation at a time and refuses stale handles.
package render

import "errors"

// API identifies a graphics backend family.
type API int

const (
	APISoftware API = iota
	APIOpenGL
	APIVulkan
)

// String returns the backend name.
func (a API) String() string {
	switch a {
	case APISoftware:
		return "software"
	case APIOpenGL:
		return "opengl"
	case APIVulkan:
		return "vulkan"
	}
	return "unknown"
}

// PixelFormat identifies the framebuffer pixel layout.
type PixelFormat int

const (
	// PixelXRGB8888 is 32-bit XRGB, the only format the bridge outputs.
	PixelXRGB8888 PixelFormat = iota
	PixelRGB565
)

// String returns the pixel format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelXRGB8888:
		return "xrgb8888"
	case PixelRGB565:
		return "rgb565"
	}
	return "unknown"
}

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or its host context is missing.
	ErrBackendNotAvailable = errors.New("render: backend not available")

	// ErrAlreadyBuilt is returned by Adapter.Build while a surface is
	// live; the caller must Invalidate first.
	ErrAlreadyBuilt = errors.New("render: surface already built")
)
