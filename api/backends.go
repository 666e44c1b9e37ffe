package swfcore

// RenderTarget is the surface a Player draws into. The concrete type
// depends on the negotiated graphics API; engines type-assert the
// capability interfaces below for the backend they were built against.
type RenderTarget interface {
	// Size returns the target dimensions in pixels.
	Size() (width, height int)
}

// SoftwareTarget is a CPU framebuffer target. Pixels are XRGB8888.
type SoftwareTarget interface {
	RenderTarget

	// WritePixels copies one full frame into the target. pix holds
	// stride bytes per row and Size().height rows.
	WritePixels(pix []byte, stride int)
}

// GLTarget exposes a host OpenGL context for hardware rendering.
type GLTarget interface {
	RenderTarget

	// ProcAddress resolves a GL entry point by name.
	ProcAddress(name string) uintptr

	// Framebuffer returns the GL framebuffer object to draw into.
	Framebuffer() uintptr
}

// VulkanTarget exposes host Vulkan objects for hardware rendering.
// All handles are owned by the host and valid only for the current
// surface generation.
type VulkanTarget interface {
	RenderTarget

	// Device returns the VkDevice handle.
	Device() uintptr

	// Queue returns the VkQueue handle and its family index.
	Queue() (handle uintptr, family uint32)

	// Image returns the VkImage to render into.
	Image() uintptr
}

// StorageBackend persists a movie's local shared objects.
type StorageBackend interface {
	// Get returns the stored value for name, or ok=false if absent.
	Get(name string) (data []byte, ok bool)

	// Put stores value under name, replacing any existing value.
	Put(name string, data []byte) error

	// Remove deletes the value under name. Removing an absent name is
	// not an error.
	Remove(name string) error

	// Keys lists all stored names.
	Keys() ([]string, error)
}

// Logger receives engine and bridge diagnostics. charmbracelet/log and
// the host frontend's log callback adapter both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
