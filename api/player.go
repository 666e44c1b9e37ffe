// Package swfcore defines the contract between the eflash bridge and a
// Flash execution engine. The bridge treats the engine as opaque: it
// creates a Player through a Factory, drives it once per host frame, and
// never inspects its internals.
package swfcore

import (
	"errors"
	"time"
)

// Errors a Factory or Player may return. The bridge maps these onto its
// own error taxonomy, so engines should wrap or return them directly.
var (
	// ErrMalformedMovie indicates the movie bytes could not be parsed.
	ErrMalformedMovie = errors.New("swfcore: malformed movie")

	// ErrUnsupportedFeature indicates the movie parsed but requires an
	// engine feature that is not implemented.
	ErrUnsupportedFeature = errors.New("swfcore: unsupported feature")

	// ErrNotSerializable is returned by Serialize when the player is in a
	// transient state that cannot be captured, such as a pending network
	// fetch. The caller may retry on a later frame.
	ErrNotSerializable = errors.New("swfcore: state not serializable")
)

// MovieInfo describes the loaded movie header.
type MovieInfo struct {
	// Width and Height are the stage dimensions in pixels.
	Width  int
	Height int

	// FrameRate is the movie's declared frame rate in frames per second.
	FrameRate float64

	// Version is the SWF file version.
	Version int
}

// Player is one loaded movie running inside the execution engine.
// All methods are called from the host's frame thread only.
type Player interface {
	// Info returns the movie header information. Valid for the lifetime
	// of the player.
	Info() MovieInfo

	// Advance runs script execution and scene updates for one fixed time
	// step. Engines must not block on network or asset fetches; partial
	// readiness is reported by advancing with whatever is loaded.
	Advance(delta time.Duration) error

	// Render draws the current scene into the target. The target is only
	// valid for the duration of the call.
	Render(target RenderTarget) error

	// HandleEvent delivers one input event. Events arrive in the order
	// the host produced them.
	HandleEvent(ev Event)

	// DrainAudio moves up to len(buf) mixed stereo int16 samples into buf
	// and returns the number of samples written. Samples are produced in
	// order and never duplicated across calls.
	DrainAudio(buf []int16) int

	// Close releases all engine resources for this movie.
	Close()
}

// SaveStater is implemented by players whose complete state can be
// captured and restored. Content may opt out of state saving, in which
// case the engine simply does not implement this interface for that
// movie, or Serialize returns ErrNotSerializable for transient conditions.
type SaveStater interface {
	// Serialize captures the complete player state.
	Serialize() ([]byte, error)

	// Deserialize restores player state from previously serialized data.
	// After a successful call, Advance and Render behave exactly as if
	// the player had run to the captured point natively.
	Deserialize(data []byte) error
}

// Config carries bridge-negotiated settings into player creation.
type Config struct {
	// SampleRate is the negotiated audio output rate in Hz.
	SampleRate int

	// Autoplay starts the movie immediately upon load.
	Autoplay bool

	// Letterbox controls bar rendering when the viewport aspect ratio
	// does not match the movie. One of "off", "fullscreen", "on".
	Letterbox string

	// MaxExecutionDuration bounds a single script execution slice.
	// Zero means no limit.
	MaxExecutionDuration time.Duration

	// LoadBehavior controls how the root movie's data is consumed while
	// loading. One of "streaming", "blocking", "delayed". Engines that
	// load entirely from memory may ignore it.
	LoadBehavior string

	// Storage persists the movie's local shared objects. Nil disables
	// persistence; the engine should fall back to in-memory storage.
	Storage StorageBackend

	// Log receives engine diagnostics. Nil discards them.
	Log Logger
}

// Factory creates players from raw movie bytes.
type Factory interface {
	// Create parses movie and constructs a player. Returns
	// ErrMalformedMovie or ErrUnsupportedFeature (possibly wrapped) on
	// failure.
	Create(movie []byte, cfg Config) (Player, error)

	// SampleRateRange returns the inclusive range of audio sample rates
	// the engine can mix at.
	SampleRateRange() (min, max int)
}
