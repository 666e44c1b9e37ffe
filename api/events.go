package swfcore

// MouseButton identifies a pointer button in player events.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Key is a player keyboard code. The set mirrors the keys Flash content
// commonly reads; hosts map their own key vocabulary onto it.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeySpace
	KeyShift
	KeyControl
	KeyEscape
	KeyBackspace
	KeyTab
	KeyA // KeyA..KeyZ are contiguous
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0 // Key0..Key9 are contiguous
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Event is one input event in the player's vocabulary. Coordinates are in
// movie space (pixels relative to the stage origin).
type Event interface {
	isEvent()
}

// MouseMove reports the pointer position after movement.
type MouseMove struct {
	X, Y int
}

// MouseDown reports a button press at a position.
type MouseDown struct {
	X, Y   int
	Button MouseButton
}

// MouseUp reports a button release at a position.
type MouseUp struct {
	X, Y   int
	Button MouseButton
}

// MouseWheel reports scroll movement in lines. Positive is up.
type MouseWheel struct {
	Lines float64
}

// KeyPress reports a key press. Char is the typed character, or zero
// when the key produces none.
type KeyPress struct {
	Code Key
	Char rune
}

// KeyRelease reports a key release.
type KeyRelease struct {
	Code Key
}

func (MouseMove) isEvent()  {}
func (MouseDown) isEvent()  {}
func (MouseUp) isEvent()    {}
func (MouseWheel) isEvent() {}
func (KeyPress) isEvent()   {}
func (KeyRelease) isEvent() {}
