package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// FrameRenderer owns the ebiten offscreen buffer and draws bridge
// software frames with aspect-ratio-preserving scaling.
type FrameRenderer struct {
	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// NewFrameRenderer creates an empty renderer. The offscreen buffer is
// allocated lazily at the first frame's size.
func NewFrameRenderer() *FrameRenderer {
	return &FrameRenderer{}
}

// Draw renders one frame of pixel data to the screen, centered and
// scaled to fit.
func (r *FrameRenderer) Draw(screen *ebiten.Image, pixels []byte, stride, width, height int) {
	if width == 0 || height == 0 || stride == 0 {
		return
	}

	requiredLen := stride * height
	if len(pixels) < requiredLen {
		return
	}

	if r.offscreen == nil || r.offscreen.Bounds().Dx() != width || r.offscreen.Bounds().Dy() != height {
		r.offscreen = ebiten.NewImage(width, height)
	}

	if stride == width*4 {
		r.offscreen.WritePixels(pixels[:requiredLen])
	} else {
		// Repack padded rows; WritePixels wants tight rows.
		tight := make([]byte, width*height*4)
		for y := 0; y < height; y++ {
			copy(tight[y*width*4:(y+1)*width*4], pixels[y*stride:y*stride+width*4])
		}
		r.offscreen.WritePixels(tight)
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	scaleX := float64(screenW) / float64(width)
	scaleY := float64(screenH) / float64(height)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX := (float64(screenW) - float64(width)*scale) / 2
	offsetY := (float64(screenH) - float64(height)*scale) / 2

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	r.drawOpts.Filter = ebiten.FilterLinear
	screen.DrawImage(r.offscreen, &r.drawOpts)
}
