package render

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	swfcore "github.com/user-none/eflash/api"
)

func init() {
	Register(APISoftware, newSoftwareBackend)
}

// SoftwareContext optionally sizes the presented frame. When nil, or when
// the output size matches the movie, frames are presented at movie
// resolution and the frontend handles scaling.
type SoftwareContext struct {
	// OutputWidth and OutputHeight are the host viewport dimensions.
	OutputWidth  int
	OutputHeight int

	// Letterbox preserves the movie aspect ratio with black bars instead
	// of stretching to the output size.
	Letterbox bool
}

// softwareBackend renders through a CPU framebuffer. The player writes
// XRGB8888 pixels at movie resolution; Frame scales into the host
// viewport when one was requested.
type softwareBackend struct {
	ctx    *SoftwareContext
	movie  *image.RGBA // player-written frame at movie size
	output *image.RGBA // scaled frame, nil when presenting at movie size
	built  bool
	dirty  bool
}

func newSoftwareBackend(hostCtx any) (Backend, error) {
	switch ctx := hostCtx.(type) {
	case nil:
		return &softwareBackend{}, nil
	case *SoftwareContext:
		return &softwareBackend{ctx: ctx}, nil
	default:
		return nil, errors.New("render: software backend requires a *SoftwareContext or nil host context")
	}
}

func (b *softwareBackend) API() API {
	return APISoftware
}

func (b *softwareBackend) Build(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("render: invalid software surface size")
	}
	b.movie = image.NewRGBA(image.Rect(0, 0, width, height))
	if b.ctx != nil && b.ctx.OutputWidth > 0 && b.ctx.OutputHeight > 0 &&
		(b.ctx.OutputWidth != width || b.ctx.OutputHeight != height) {
		b.output = image.NewRGBA(image.Rect(0, 0, b.ctx.OutputWidth, b.ctx.OutputHeight))
	} else {
		b.output = nil
	}
	b.built = true
	b.dirty = false
	return nil
}

func (b *softwareBackend) Release() {
	b.movie = nil
	b.output = nil
	b.built = false
	b.dirty = false
}

func (b *softwareBackend) Target() swfcore.RenderTarget {
	return (*softwareTarget)(b)
}

func (b *softwareBackend) Flush() error {
	// CPU rendering completes synchronously.
	return nil
}

func (b *softwareBackend) Frame() (pix []byte, stride int) {
	if !b.built {
		return nil, 0
	}
	if b.output == nil {
		return b.movie.Pix, b.movie.Stride
	}
	if b.dirty {
		b.scaleIntoOutput()
		b.dirty = false
	}
	return b.output.Pix, b.output.Stride
}

// scaleIntoOutput scales the movie frame into the output buffer,
// letterboxing when configured.
func (b *softwareBackend) scaleIntoOutput() {
	dst := b.output.Bounds()
	if b.ctx.Letterbox {
		mw, mh := b.movie.Bounds().Dx(), b.movie.Bounds().Dy()
		ow, oh := dst.Dx(), dst.Dy()

		scaleX := float64(ow) / float64(mw)
		scaleY := float64(oh) / float64(mh)
		scale := scaleX
		if scaleY < scaleX {
			scale = scaleY
		}
		sw := int(float64(mw) * scale)
		sh := int(float64(mh) * scale)
		x0 := (ow - sw) / 2
		y0 := (oh - sh) / 2

		// Clear the bars, then scale into the centered rect.
		for i := range b.output.Pix {
			b.output.Pix[i] = 0
		}
		dst = image.Rect(x0, y0, x0+sw, y0+sh)
	}
	draw.ApproxBiLinear.Scale(b.output, dst, b.movie, b.movie.Bounds(), draw.Src, nil)
}

// softwareTarget is the player-facing view of the backend.
type softwareTarget softwareBackend

func (t *softwareTarget) Size() (width, height int) {
	if t.movie == nil {
		return 0, 0
	}
	return t.movie.Bounds().Dx(), t.movie.Bounds().Dy()
}

func (t *softwareTarget) WritePixels(pix []byte, stride int) {
	if t.movie == nil || stride <= 0 {
		return
	}
	h := t.movie.Bounds().Dy()
	rowBytes := t.movie.Bounds().Dx() * 4
	for y := 0; y < h; y++ {
		src := y * stride
		if src+rowBytes > len(pix) {
			break
		}
		copy(t.movie.Pix[y*t.movie.Stride:y*t.movie.Stride+rowBytes], pix[src:src+rowBytes])
	}
	t.dirty = true
}

var _ swfcore.SoftwareTarget = (*softwareTarget)(nil)
