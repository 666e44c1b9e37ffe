package core

import (
	swfcore "github.com/user-none/eflash/api"
)

// Joypad button IDs in host port events.
const (
	JoypadB = iota
	JoypadY
	JoypadSelect
	JoypadStart
	JoypadUp
	JoypadDown
	JoypadLeft
	JoypadRight
	JoypadA
	JoypadX
	JoypadL
	JoypadR
)

// pointerMax is the magnitude of normalized pointer coordinates: hosts
// report absolute pointer position in [-pointerMax, pointerMax] across
// the full surface.
const pointerMax = 0x7fff

// PortEvent is one host input-port event. A pump call receives the
// frame's events as an ephemeral snapshot, consumed by the mapper and
// discarded.
type PortEvent interface {
	isPortEvent()
}

// MouseEvent is a relative mouse report: movement deltas plus current
// button and wheel state.
type MouseEvent struct {
	DX, DY              int16
	Left, Right, Middle bool
	WheelUp, WheelDown  bool
}

// PointerEvent is an absolute pointer report in normalized coordinates
// over the full host surface.
type PointerEvent struct {
	X, Y    int16
	Pressed bool
}

// KeyboardEvent is a host key transition.
type KeyboardEvent struct {
	Code swfcore.Key
	Down bool
	Char rune
}

// JoypadEvent is a host gamepad button transition.
type JoypadEvent struct {
	Button int
	Down   bool
}

func (MouseEvent) isPortEvent()    {}
func (PointerEvent) isPortEvent()  {}
func (KeyboardEvent) isPortEvent() {}
func (JoypadEvent) isPortEvent()   {}

// Viewport describes where the movie appears within the host surface,
// after letterboxing. Pointer coordinates are scaled through it so the
// mapping preserves aspect ratio.
type Viewport struct {
	X, Y          int // movie origin within the surface
	Width, Height int // movie extent within the surface
	MovieW        int // movie stage size
	MovieH        int
	SurfaceW      int // full host surface size
	SurfaceH      int
}

// mouseState accumulates pointer position across frames. Relative mouse
// deltas integrate into it and absolute pointer events overwrite it; the
// position is part of the bridge state captured in save states.
type mouseState struct {
	x, y                int
	left, right, middle bool
}

// clamp keeps the position on the stage.
func (m *mouseState) clamp(w, h int) {
	if m.x < 0 {
		m.x = 0
	}
	if m.y < 0 {
		m.y = 0
	}
	if m.x > w {
		m.x = w
	}
	if m.y > h {
		m.y = h
	}
}

// joypadKeys maps gamepad buttons onto the nearest supported key class.
// Buttons without a sensible mapping are absent and silently dropped.
var joypadKeys = map[int]swfcore.Key{
	JoypadUp:    swfcore.KeyUp,
	JoypadDown:  swfcore.KeyDown,
	JoypadLeft:  swfcore.KeyLeft,
	JoypadRight: swfcore.KeyRight,
	JoypadA:     swfcore.KeyEnter,
	JoypadStart: swfcore.KeyEnter,
	JoypadB:     swfcore.KeySpace,
}

// mapEvents translates host port events into player events, preserving
// order. Translation is pure per event; the only carried state is the
// pointer accumulator in ms. Unmapped host inputs are dropped.
func mapEvents(events []PortEvent, vp Viewport, ms *mouseState) []swfcore.Event {
	out := make([]swfcore.Event, 0, len(events))

	for _, ev := range events {
		switch e := ev.(type) {
		case MouseEvent:
			out = append(out, mapMouse(e, vp, ms)...)
		case PointerEvent:
			out = append(out, mapPointer(e, vp, ms)...)
		case KeyboardEvent:
			if e.Down {
				out = append(out, swfcore.KeyPress{Code: e.Code, Char: e.Char})
			} else {
				out = append(out, swfcore.KeyRelease{Code: e.Code})
			}
		case JoypadEvent:
			key, ok := joypadKeys[e.Button]
			if !ok {
				continue
			}
			if e.Down {
				out = append(out, swfcore.KeyPress{Code: key})
			} else {
				out = append(out, swfcore.KeyRelease{Code: key})
			}
		}
	}

	return out
}

func mapMouse(e MouseEvent, vp Viewport, ms *mouseState) []swfcore.Event {
	var out []swfcore.Event

	if e.DX != 0 || e.DY != 0 {
		// Deltas arrive in surface pixels; scale into movie space.
		ms.x += scaleDelta(int(e.DX), vp.MovieW, vp.Width)
		ms.y += scaleDelta(int(e.DY), vp.MovieH, vp.Height)
		ms.clamp(vp.MovieW, vp.MovieH)
		out = append(out, swfcore.MouseMove{X: ms.x, Y: ms.y})
	}

	out = append(out, buttonEdges(e, ms)...)

	if e.WheelUp {
		out = append(out, swfcore.MouseWheel{Lines: 1})
	} else if e.WheelDown {
		out = append(out, swfcore.MouseWheel{Lines: -1})
	}

	return out
}

func mapPointer(e PointerEvent, vp Viewport, ms *mouseState) []swfcore.Event {
	var out []swfcore.Event

	// Normalized surface coordinates -> surface pixels -> movie pixels
	// through the letterboxed viewport.
	sx := (int(e.X) + pointerMax) * vp.SurfaceW / (2 * pointerMax)
	sy := (int(e.Y) + pointerMax) * vp.SurfaceH / (2 * pointerMax)

	x, y := ms.x, ms.y
	if vp.Width > 0 && vp.Height > 0 {
		x = (sx - vp.X) * vp.MovieW / vp.Width
		y = (sy - vp.Y) * vp.MovieH / vp.Height
	}

	if x != ms.x || y != ms.y {
		ms.x, ms.y = x, y
		ms.clamp(vp.MovieW, vp.MovieH)
		out = append(out, swfcore.MouseMove{X: ms.x, Y: ms.y})
	}

	if e.Pressed != ms.left {
		ms.left = e.Pressed
		if e.Pressed {
			out = append(out, swfcore.MouseDown{X: ms.x, Y: ms.y, Button: swfcore.MouseButtonLeft})
		} else {
			out = append(out, swfcore.MouseUp{X: ms.x, Y: ms.y, Button: swfcore.MouseButtonLeft})
		}
	}

	return out
}

// buttonEdges emits Down/Up events only on state changes, so holding a
// button across frames does not repeat events.
func buttonEdges(e MouseEvent, ms *mouseState) []swfcore.Event {
	var out []swfcore.Event

	edge := func(now bool, held *bool, btn swfcore.MouseButton) {
		if now == *held {
			return
		}
		*held = now
		if now {
			out = append(out, swfcore.MouseDown{X: ms.x, Y: ms.y, Button: btn})
		} else {
			out = append(out, swfcore.MouseUp{X: ms.x, Y: ms.y, Button: btn})
		}
	}

	edge(e.Left, &ms.left, swfcore.MouseButtonLeft)
	edge(e.Right, &ms.right, swfcore.MouseButtonRight)
	edge(e.Middle, &ms.middle, swfcore.MouseButtonMiddle)

	return out
}

func scaleDelta(d, movie, view int) int {
	if view <= 0 {
		return d
	}
	return d * movie / view
}
