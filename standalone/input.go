package standalone

import (
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	swfcore "github.com/user-none/eflash/api"
	"github.com/user-none/eflash/core"
)

// keyMap translates the ebiten keys Flash content commonly reads.
// Unmapped keys are dropped.
var keyMap = map[ebiten.Key]swfcore.Key{
	ebiten.KeyArrowUp:    swfcore.KeyUp,
	ebiten.KeyArrowDown:  swfcore.KeyDown,
	ebiten.KeyArrowLeft:  swfcore.KeyLeft,
	ebiten.KeyArrowRight: swfcore.KeyRight,
	ebiten.KeyEnter:      swfcore.KeyEnter,
	ebiten.KeySpace:      swfcore.KeySpace,
	ebiten.KeyShift:      swfcore.KeyShift,
	ebiten.KeyControl:    swfcore.KeyControl,
	ebiten.KeyEscape:     swfcore.KeyEscape,
	ebiten.KeyBackspace:  swfcore.KeyBackspace,
	ebiten.KeyTab:        swfcore.KeyTab,
}

func mapKey(k ebiten.Key) (swfcore.Key, bool) {
	if code, ok := keyMap[k]; ok {
		return code, true
	}
	if k >= ebiten.KeyA && k <= ebiten.KeyZ {
		return swfcore.KeyA + swfcore.Key(k-ebiten.KeyA), true
	}
	if k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9 {
		return swfcore.Key0 + swfcore.Key(k-ebiten.KeyDigit0), true
	}
	return swfcore.KeyUnknown, false
}

// InputPoller converts ebiten keyboard and mouse state into the port
// events the bridge consumes, one batch per frame.
type InputPoller struct {
	lastX, lastY    int
	haveCursor      bool
	pressedKeys     []ebiten.Key
	releasedKeys    []ebiten.Key
	chars           []rune
	clipboardInited bool
}

// NewInputPoller creates a poller with no cursor history.
func NewInputPoller() *InputPoller {
	return &InputPoller{}
}

// Poll gathers this frame's input. Hotkeys consumed by the harness
// itself (F-keys) are not forwarded.
func (p *InputPoller) Poll() []core.PortEvent {
	var events []core.PortEvent

	if ev, ok := p.pollMouse(); ok {
		events = append(events, ev)
	}

	p.pressedKeys = inpututil.AppendJustPressedKeys(p.pressedKeys[:0])
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	charIdx := 0
	for _, k := range p.pressedKeys {
		code, ok := mapKey(k)
		if !ok {
			continue
		}
		ev := core.KeyboardEvent{Code: code, Down: true}
		if charIdx < len(p.chars) {
			ev.Char = p.chars[charIdx]
			charIdx++
		}
		events = append(events, ev)
	}

	p.releasedKeys = inpututil.AppendJustReleasedKeys(p.releasedKeys[:0])
	for _, k := range p.releasedKeys {
		if code, ok := mapKey(k); ok {
			events = append(events, core.KeyboardEvent{Code: code})
		}
	}

	if text := p.pollPaste(); text != "" {
		for _, r := range text {
			events = append(events, core.KeyboardEvent{Code: swfcore.KeyUnknown, Down: true, Char: r})
		}
	}

	return events
}

// pollMouse reports the cursor as a relative mouse event. ok=false when
// nothing changed this frame.
func (p *InputPoller) pollMouse() (core.MouseEvent, bool) {
	x, y := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()

	ev := core.MouseEvent{
		Left:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Middle:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		WheelUp:   wheelY > 0,
		WheelDown: wheelY < 0,
	}
	if p.haveCursor {
		ev.DX = int16(x - p.lastX)
		ev.DY = int16(y - p.lastY)
	}
	p.lastX, p.lastY = x, y
	p.haveCursor = true

	// Always forward button state so the bridge sees releases; skip only
	// completely idle frames.
	if ev.DX == 0 && ev.DY == 0 && !ev.Left && !ev.Right && !ev.Middle &&
		!ev.WheelUp && !ev.WheelDown &&
		!inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) &&
		!inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) &&
		!inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		return ev, false
	}
	return ev, true
}

// pollPaste returns clipboard text when the paste shortcut was pressed
// this frame.
func (p *InputPoller) pollPaste() string {
	var modPressed bool
	if runtime.GOOS == "darwin" {
		modPressed = ebiten.IsKeyPressed(ebiten.KeyMeta)
	} else {
		modPressed = ebiten.IsKeyPressed(ebiten.KeyControl)
	}
	if !modPressed || !inpututil.IsKeyJustPressed(ebiten.KeyV) {
		return ""
	}

	if !p.clipboardInited {
		if err := clipboard.Init(); err != nil {
			return ""
		}
		p.clipboardInited = true
	}
	return string(clipboard.Read(clipboard.FmtText))
}
