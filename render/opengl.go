package render

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"

	swfcore "github.com/user-none/eflash/api"
)

func init() {
	Register(APIOpenGL, newGLBackend)
}

// GLContext is the host-supplied OpenGL context. The host owns the
// underlying context and framebuffer; both are valid only until the host
// signals context loss.
type GLContext struct {
	// GetProcAddress resolves a GL entry point by name, returning zero
	// when unavailable.
	GetProcAddress func(name string) uintptr

	// Framebuffer is the GL framebuffer object the movie is drawn into.
	// Zero targets the default framebuffer.
	Framebuffer uintptr
}

// glBackend adapts a host OpenGL context. The player issues its own draw
// calls through the target's proc loader; the backend's job is scoping
// the framebuffer binding and fencing frame completion.
type glBackend struct {
	ctx    *GLContext
	width  int
	height int
	built  bool

	glViewport uintptr
	glFinish   uintptr
}

func newGLBackend(hostCtx any) (Backend, error) {
	ctx, ok := hostCtx.(*GLContext)
	if !ok || ctx == nil || ctx.GetProcAddress == nil {
		return nil, fmt.Errorf("%w: opengl requires a *GLContext with a proc loader", ErrBackendNotAvailable)
	}
	return &glBackend{ctx: ctx}, nil
}

func (b *glBackend) API() API {
	return APIOpenGL
}

func (b *glBackend) Build(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("render: invalid gl surface size")
	}

	b.glViewport = b.ctx.GetProcAddress("glViewport")
	b.glFinish = b.ctx.GetProcAddress("glFinish")
	if b.glViewport == 0 || b.glFinish == 0 {
		b.Release()
		return errors.New("render: host gl context is missing required entry points")
	}

	purego.SyscallN(b.glViewport, 0, 0, uintptr(width), uintptr(height))

	b.width = width
	b.height = height
	b.built = true
	return nil
}

func (b *glBackend) Release() {
	// All GL objects are host-owned; dropping the cached proc pointers
	// is the whole teardown.
	b.glViewport = 0
	b.glFinish = 0
	b.built = false
}

func (b *glBackend) Target() swfcore.RenderTarget {
	return (*glTarget)(b)
}

func (b *glBackend) Flush() error {
	if !b.built {
		return nil
	}
	purego.SyscallN(b.glFinish)
	return nil
}

func (b *glBackend) Frame() (pix []byte, stride int) {
	// Presented by the host through the shared context.
	return nil, 0
}

type glTarget glBackend

func (t *glTarget) Size() (width, height int) {
	return t.width, t.height
}

func (t *glTarget) ProcAddress(name string) uintptr {
	return t.ctx.GetProcAddress(name)
}

func (t *glTarget) Framebuffer() uintptr {
	return t.ctx.Framebuffer
}

var _ swfcore.GLTarget = (*glTarget)(nil)
