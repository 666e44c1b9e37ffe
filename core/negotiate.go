package core

import (
	"fmt"

	"github.com/user-none/eflash/render"
)

// HostCapabilities is the capability set the host frontend declares
// before content load.
type HostCapabilities struct {
	// GraphicsAPIs lists the graphics APIs the host can supply a context
	// for, in no particular order.
	GraphicsAPIs []render.API

	// PixelFormats lists the framebuffer formats the host accepts.
	// Empty means XRGB8888.
	PixelFormats []render.PixelFormat

	// MinSampleRate and MaxSampleRate bound the audio output rates the
	// host can play. Both zero means any rate.
	MinSampleRate int
	MaxSampleRate int

	// SupportsSaveStates reports whether the host persists save states
	// at all.
	SupportsSaveStates bool

	// FrameRate pins the fixed-step frame rate. Zero lets the bridge use
	// the movie's declared rate.
	FrameRate float64
}

// Environment is the agreed configuration for one session generation.
// Immutable once negotiated; replaced wholesale only by a host-driven
// context reset.
type Environment struct {
	GraphicsAPI render.API
	PixelFormat render.PixelFormat
	SampleRate  int

	// FrameRate is the host-pinned fixed-step rate, or zero to use the
	// movie's declared rate once content loads.
	FrameRate float64

	SupportsSaveStates bool
}

// apiPreference is the selection order, most capable first.
var apiPreference = []render.API{render.APIVulkan, render.APIOpenGL, render.APISoftware}

// preferredRates are tried first inside the negotiated overlap.
var preferredRates = []int{48000, 44100}

// negotiate picks the agreed environment from the host capabilities and
// the player's sample rate range. preferredRate is the configured audio
// rate, tried before the built-in preferences. graphicsCandidates
// returns every drivable host API in preference order, so
// device-creation failure can fall down the list later without
// re-negotiating audio.
func negotiate(caps HostCapabilities, playerMin, playerMax, preferredRate int) (Environment, []render.API, error) {
	candidates := graphicsCandidates(caps)
	if len(candidates) == 0 {
		return Environment{}, nil, fmt.Errorf("%w: host offered %v", ErrNoCompatibleGraphicsAPI, caps.GraphicsAPIs)
	}

	format, err := pickPixelFormat(caps)
	if err != nil {
		return Environment{}, nil, err
	}

	rate, err := pickSampleRate(caps, playerMin, playerMax, preferredRate)
	if err != nil {
		return Environment{}, nil, err
	}

	env := Environment{
		GraphicsAPI:        candidates[0],
		PixelFormat:        format,
		SampleRate:         rate,
		FrameRate:          caps.FrameRate,
		SupportsSaveStates: caps.SupportsSaveStates,
	}
	return env, candidates, nil
}

func graphicsCandidates(caps HostCapabilities) []render.API {
	offered := func(api render.API) bool {
		for _, a := range caps.GraphicsAPIs {
			if a == api {
				return true
			}
		}
		return false
	}

	var candidates []render.API
	for _, api := range apiPreference {
		if offered(api) && render.Supported(api) {
			candidates = append(candidates, api)
		}
	}
	return candidates
}

func pickPixelFormat(caps HostCapabilities) (render.PixelFormat, error) {
	if len(caps.PixelFormats) == 0 {
		return render.PixelXRGB8888, nil
	}
	for _, f := range caps.PixelFormats {
		if f == render.PixelXRGB8888 {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: host offered %v", ErrNoCompatiblePixelFormat, caps.PixelFormats)
}

func pickSampleRate(caps HostCapabilities, playerMin, playerMax, preferred int) (int, error) {
	hostMin, hostMax := caps.MinSampleRate, caps.MaxSampleRate
	if hostMin == 0 && hostMax == 0 {
		hostMin, hostMax = 1, 1<<31-1
	}

	lo := hostMin
	if playerMin > lo {
		lo = playerMin
	}
	hi := hostMax
	if playerMax < hi {
		hi = playerMax
	}
	if lo > hi {
		return 0, fmt.Errorf("%w: host [%d, %d], player [%d, %d]",
			ErrAudioRangeUnsatisfiable, hostMin, hostMax, playerMin, playerMax)
	}

	if preferred >= lo && preferred <= hi {
		return preferred, nil
	}
	for _, rate := range preferredRates {
		if rate >= lo && rate <= hi {
			return rate, nil
		}
	}
	return hi, nil
}
