package render

import (
	"errors"
	"fmt"

	swfcore "github.com/user-none/eflash/api"
)

func init() {
	Register(APIVulkan, newVulkanBackend)
}

// VulkanContext is the host-supplied Vulkan context. Handle allocation
// and synchronization stay with the host: the backend asks the host to
// create and destroy the render image and to fence queue work, so every
// object it acquires has exactly one release path.
type VulkanContext struct {
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
	QueueFamily    uint32

	// CreateImage allocates a host-owned VkImage of the given size for
	// the movie to render into.
	CreateImage func(width, height int) (uintptr, error)

	// DestroyImage releases an image from CreateImage.
	DestroyImage func(image uintptr)

	// WaitIdle blocks until queue work submitted so far has completed.
	// Must be bounded; it never waits on work submitted after the call.
	WaitIdle func() error
}

type vulkanBackend struct {
	ctx    *VulkanContext
	image  uintptr
	width  int
	height int
	built  bool
}

func newVulkanBackend(hostCtx any) (Backend, error) {
	ctx, ok := hostCtx.(*VulkanContext)
	if !ok || ctx == nil {
		return nil, fmt.Errorf("%w: vulkan requires a *VulkanContext", ErrBackendNotAvailable)
	}
	if ctx.Device == 0 || ctx.Queue == 0 || ctx.CreateImage == nil || ctx.DestroyImage == nil || ctx.WaitIdle == nil {
		return nil, fmt.Errorf("%w: incomplete vulkan context from host", ErrBackendNotAvailable)
	}
	return &vulkanBackend{ctx: ctx}, nil
}

func (b *vulkanBackend) API() API {
	return APIVulkan
}

func (b *vulkanBackend) Build(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("render: invalid vulkan surface size")
	}

	image, err := b.ctx.CreateImage(width, height)
	if err != nil {
		return fmt.Errorf("render: create vulkan image: %w", err)
	}

	b.image = image
	b.width = width
	b.height = height
	b.built = true
	return nil
}

func (b *vulkanBackend) Release() {
	if b.image != 0 {
		b.ctx.DestroyImage(b.image)
		b.image = 0
	}
	b.built = false
}

func (b *vulkanBackend) Target() swfcore.RenderTarget {
	return (*vulkanTarget)(b)
}

func (b *vulkanBackend) Flush() error {
	if !b.built {
		return nil
	}
	return b.ctx.WaitIdle()
}

func (b *vulkanBackend) Frame() (pix []byte, stride int) {
	// Presented by the host from the shared image.
	return nil, 0
}

type vulkanTarget vulkanBackend

func (t *vulkanTarget) Size() (width, height int) {
	return t.width, t.height
}

func (t *vulkanTarget) Device() uintptr {
	return t.ctx.Device
}

func (t *vulkanTarget) Queue() (handle uintptr, family uint32) {
	return t.ctx.Queue, t.ctx.QueueFamily
}

func (t *vulkanTarget) Image() uintptr {
	return t.image
}

var _ swfcore.VulkanTarget = (*vulkanTarget)(nil)
