package retro

import (
	"github.com/user-none/eflash/core"
	"github.com/user-none/eflash/render"
)

// Environment is the host frontend seen from the core side. A frontend
// implements it once and hands it to SetEnvironment before Init.
type Environment interface {
	// Capabilities declares what the frontend can drive: graphics APIs,
	// pixel formats, audio rates, save-state persistence.
	Capabilities() core.HostCapabilities

	// Video presents one finished software frame. Hardware-rendered
	// sessions never call it; those present through the host context.
	Video(pix []byte, width, height, stride int)

	// AudioBatch consumes stereo int16 samples and returns how many were
	// accepted.
	AudioBatch(samples []int16) int

	// PollInput returns this frame's input events. The slice is consumed
	// before the next poll.
	PollInput() []core.PortEvent
}

// VariableProvider is implemented by frontends that expose core options.
// Keys carry the core.VariablePrefix.
type VariableProvider interface {
	// Variable returns the current value for a key, or ok=false when the
	// frontend does not set it.
	Variable(key string) (value string, ok bool)

	// VariablesUpdated reports whether any variable changed since the
	// last call, and clears the flag.
	VariablesUpdated() bool
}

// Log levels for LogSink.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogSink is implemented by frontends that want core diagnostics routed
// through their own logging.
type LogSink interface {
	Log(level Level, msg string)
}

// GeometryNotifier is implemented by frontends that resize their output
// to the loaded movie.
type GeometryNotifier interface {
	SetGeometry(width, height int, aspectRatio float64)
}

// HardwareContextProvider is implemented by frontends that can supply a
// live graphics context. Software rendering works without it.
type HardwareContextProvider interface {
	// HardwareContext returns the context object for an API, typed per
	// backend (render.GLContext, render.VulkanContext,
	// render.SoftwareContext). ok=false defers surface construction until
	// ContextReset.
	HardwareContext(api render.API) (ctx any, ok bool)
}

// SaveDirectoryProvider is implemented by frontends that give the core a
// directory for persistent data. Without it shared objects stay
// in-memory for the session.
type SaveDirectoryProvider interface {
	SaveDirectory() (dir string, ok bool)
}

// Variable describes one core option for frontends that present an
// options UI.
type Variable struct {
	Key         string // full key including prefix
	Description string // label plus pipe-separated values, default first
}

// Variables lists the options the core reads back through
// VariableProvider.
func Variables() []Variable {
	return []Variable{
		{Key: core.VariablePrefix + "autoplay", Description: "Autoplay; true|false"},
		{Key: core.VariablePrefix + "letterbox", Description: "Letterbox; fullscreen|on|off"},
		{Key: core.VariablePrefix + "max_execution_duration", Description: "Max script execution (seconds); 15|30|60"},
		{Key: core.VariablePrefix + "sample_rate", Description: "Audio sample rate; 48000|44100"},
		{Key: core.VariablePrefix + "frame_rate", Description: "Frame rate override; 0|30|60"},
		{Key: core.VariablePrefix + "load_behavior", Description: "Load behavior; streaming|blocking|delayed"},
	}
}
