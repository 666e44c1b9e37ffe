// Package core implements the bridge between a frame-pumped host
// frontend and an opaque Flash execution engine: environment
// negotiation, the lifecycle state machine, the per-frame pump, the
// save-state codec and input mapping.
package core

import (
	"errors"
	"fmt"
	"time"

	swfcore "github.com/user-none/eflash/api"
	"github.com/user-none/eflash/render"
)

// ContextProvider resolves the host-supplied context object for a
// graphics API. ok=false means the host has not made one available yet;
// for hardware APIs the bridge then defers surface construction until
// the host signals a context reset.
type ContextProvider func(api render.API) (hostCtx any, ok bool)

// audioBufFrames caps the per-pump audio drain buffer, in samples.
const audioBufFrames = 8192

// Bridge owns the lifecycle of one loaded movie: the negotiated
// environment, the player handle, the render adapter and the frame
// counters. All methods are called from the host's frame thread; the
// bridge does no internal threading.
type Bridge struct {
	factory  swfcore.Factory
	log      swfcore.Logger
	contexts ContextProvider
	storage  swfcore.StorageBackend
	cfg      Config

	state      State
	env        Environment
	candidates []render.API
	caps       HostCapabilities

	adapter        *render.Adapter
	surface        *render.Surface
	rebuildPending bool
	contextLost    bool

	player swfcore.Player
	saver  swfcore.SaveStater
	movie  swfcore.MovieInfo

	frameRate  float64
	frameDelta time.Duration
	frameCount uint64
	elapsed    time.Duration
	mouse      mouseState
	frameErr   error
	audioBuf   []int16
}

// NewBridge creates an uninitialized bridge for the given engine factory.
func NewBridge(factory swfcore.Factory) *Bridge {
	return &Bridge{
		factory: factory,
		log:     noopLogger{},
		cfg:     DefaultConfig(),
		adapter: render.NewAdapter(),
	}
}

// SetLogger routes bridge diagnostics. A nil logger discards them.
func (b *Bridge) SetLogger(log swfcore.Logger) {
	if log == nil {
		log = noopLogger{}
	}
	b.log = log
}

// SetConfig replaces the bridge options. Takes effect on the next
// content load.
func (b *Bridge) SetConfig(cfg Config) {
	b.cfg = cfg
}

// Config returns the current bridge options.
func (b *Bridge) Config() Config {
	return b.cfg
}

// SetContextProvider installs the host graphics context lookup.
func (b *Bridge) SetContextProvider(p ContextProvider) {
	b.contexts = p
}

// SetStorage installs the shared-object storage backend handed to the
// player on content load.
func (b *Bridge) SetStorage(s swfcore.StorageBackend) {
	b.storage = s
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	return b.state
}

// Env returns the negotiated environment. ok=false before negotiation.
func (b *Bridge) Env() (Environment, bool) {
	return b.env, b.state != StateUninitialized && b.state != StateTornDown
}

// Movie returns the loaded movie header. ok=false without content.
func (b *Bridge) Movie() (swfcore.MovieInfo, bool) {
	return b.movie, b.player != nil
}

// FrameRate returns the effective fixed-step rate. Zero without content.
func (b *Bridge) FrameRate() float64 {
	return b.frameRate
}

// FrameCount returns the number of frames advanced since load or reset.
func (b *Bridge) FrameCount() uint64 {
	return b.frameCount
}

// Negotiate agrees an environment with the host. Valid from
// Uninitialized, or from EnvironmentNegotiated to renegotiate before
// content load.
func (b *Bridge) Negotiate(caps HostCapabilities) error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateUninitialized, StateEnvironmentNegotiated:
	default:
		return fmt.Errorf("%w: negotiate in %s", ErrInvalidState, b.state)
	}

	pmin, pmax := b.factory.SampleRateRange()
	env, candidates, err := negotiate(caps, pmin, pmax, b.cfg.SampleRate)
	if err != nil {
		return err
	}

	b.env = env
	b.candidates = candidates
	b.caps = caps
	b.state = StateEnvironmentNegotiated
	b.log.Infof("negotiated environment: %s, %s, %d Hz", env.GraphicsAPI, env.PixelFormat, env.SampleRate)
	return nil
}

// LoadContent creates a player for the movie bytes. Valid only from
// EnvironmentNegotiated; on failure the state is unchanged.
func (b *Bridge) LoadContent(data []byte) error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateEnvironmentNegotiated:
	default:
		return fmt.Errorf("%w: load content in %s", ErrInvalidState, b.state)
	}

	if len(data) == 0 {
		return fmt.Errorf("%w: empty content", ErrMalformedContent)
	}

	player, err := b.factory.Create(data, swfcore.Config{
		SampleRate:           b.env.SampleRate,
		Autoplay:             b.cfg.Autoplay,
		Letterbox:            b.cfg.Letterbox,
		MaxExecutionDuration: b.cfg.MaxExecutionDuration,
		LoadBehavior:         b.cfg.LoadBehavior,
		Storage:              b.storage,
		Log:                  b.log,
	})
	if err != nil {
		return wrapLoadError(err)
	}

	b.player = player
	b.saver = nil
	if s, ok := player.(swfcore.SaveStater); ok {
		b.saver = s
	}
	b.movie = player.Info()
	b.frameRate = b.resolveFrameRate()
	b.frameDelta = time.Duration(float64(time.Second) / b.frameRate)
	b.frameCount = 0
	b.elapsed = 0
	b.mouse = mouseState{}
	b.frameErr = nil
	b.audioBuf = make([]int16, audioBufFrames)

	// Surface construction may defer until the host provides a hardware
	// context; the movie still loads and logic ticks run without a draw.
	b.tryBuildSurface()

	b.state = StateContentLoaded
	b.log.Infof("loaded movie: %dx%d, %.2f fps, swf v%d",
		b.movie.Width, b.movie.Height, b.frameRate, b.movie.Version)
	return nil
}

// Run starts frame pump admission. Valid from ContentLoaded or Running.
func (b *Bridge) Run() error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateContentLoaded, StateRunning:
		b.state = StateRunning
		return nil
	default:
		return fmt.Errorf("%w: run in %s", ErrInvalidState, b.state)
	}
}

// Suspend pauses frame pump admission. Valid only from Running.
func (b *Bridge) Suspend() error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateRunning:
		b.state = StateSuspended
		return nil
	default:
		return fmt.Errorf("%w: suspend in %s", ErrInvalidState, b.state)
	}
}

// Resume restarts frame pump admission. Valid only from Suspended.
func (b *Bridge) Resume() error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateSuspended:
		b.state = StateRunning
		return nil
	default:
		return fmt.Errorf("%w: resume in %s", ErrInvalidState, b.state)
	}
}

// Reset tears down the player and render surface and returns to
// EnvironmentNegotiated, reusing the existing environment. Clears an
// Errored condition. Valid from every state with an environment.
func (b *Bridge) Reset() error {
	switch b.state {
	case StateTornDown:
		return ErrTornDown
	case StateUninitialized:
		return ErrNotNegotiated
	}

	b.closePlayer()
	b.adapter.Invalidate()
	b.surface = nil
	b.rebuildPending = false
	b.contextLost = false
	b.frameErr = nil
	b.frameCount = 0
	b.elapsed = 0
	b.mouse = mouseState{}
	b.state = StateEnvironmentNegotiated
	return nil
}

// Teardown releases all owned resources. Terminal; every later call on
// the bridge fails with ErrTornDown.
func (b *Bridge) Teardown() error {
	if b.state == StateTornDown {
		return ErrTornDown
	}
	b.closePlayer()
	b.adapter.Invalidate()
	b.surface = nil
	b.rebuildPending = false
	b.state = StateTornDown
	return nil
}

// OnContextLost handles the host invalidating its graphics context. The
// current surface becomes stale immediately; pumps run logic-only until
// OnContextReset rebuilds. No rebuild is attempted before the reset
// signal, even for backends that could run without a host context.
func (b *Bridge) OnContextLost() {
	if b.state == StateTornDown {
		return
	}
	b.adapter.Invalidate()
	b.surface = nil
	b.contextLost = true
	b.rebuildPending = b.player != nil
}

// OnContextReset handles the host providing a fresh graphics context.
// Rebuilds the surface with the same negotiated environment; on failure
// the bridge stays on logic-only ticks and retries each pump.
func (b *Bridge) OnContextReset() {
	if b.state == StateTornDown {
		return
	}
	b.adapter.Invalidate()
	b.surface = nil
	b.contextLost = false
	if b.player != nil {
		b.rebuildPending = true
		b.tryBuildSurface()
	}
}

// Frame returns the current presentable software frame. ok=false for
// hardware backends, which present through the host context, and while
// no surface is live.
func (b *Bridge) Frame() (pix []byte, stride, width, height int, ok bool) {
	if !b.adapter.Fresh(b.surface) {
		return nil, 0, 0, 0, false
	}
	pix, stride = b.surface.Frame()
	if pix == nil {
		return nil, 0, 0, 0, false
	}
	w, h := b.surface.Size()
	return pix, stride, w, h, true
}

// tryBuildSurface builds the render surface for the preferred remaining
// candidate API, falling down the candidate list when device creation
// fails. Missing hardware contexts defer the build; real failures demote
// the API. Never fails the caller: an unbuilt surface just means
// logic-only ticks.
func (b *Bridge) tryBuildSurface() {
	for len(b.candidates) > 0 {
		api := b.candidates[0]

		ctx, ok := b.hostContext(api)
		if !ok {
			// Hardware context not available yet. Wait for the reset
			// signal rather than silently downgrading the session.
			b.rebuildPending = true
			return
		}

		backend, err := render.New(api, ctx)
		if err == nil {
			var surface *render.Surface
			surface, err = b.adapter.Build(backend, b.movie.Width, b.movie.Height)
			if err == nil {
				b.surface = surface
				b.rebuildPending = false
				b.env.GraphicsAPI = api
				return
			}
		}

		b.log.Warnf("%s device creation failed, falling back: %v", api, err)
		b.candidates = b.candidates[1:]
		if len(b.candidates) > 0 {
			b.env.GraphicsAPI = b.candidates[0]
		}
	}

	b.rebuildPending = true
	b.log.Errorf("no graphics backend could be built; continuing without rendering")
}

// hostContext resolves the host context for an API. Software runs with
// or without one.
func (b *Bridge) hostContext(api render.API) (any, bool) {
	if b.contexts != nil {
		if ctx, ok := b.contexts(api); ok {
			return ctx, true
		}
	}
	if api == render.APISoftware {
		return nil, true
	}
	return nil, false
}

// viewport computes where the movie sits inside the current surface,
// honoring the letterbox option. Without a surface the movie maps onto
// itself so input keeps working during logic-only ticks.
func (b *Bridge) viewport() Viewport {
	vp := Viewport{
		Width: b.movie.Width, Height: b.movie.Height,
		MovieW: b.movie.Width, MovieH: b.movie.Height,
		SurfaceW: b.movie.Width, SurfaceH: b.movie.Height,
	}
	if !b.adapter.Fresh(b.surface) {
		return vp
	}

	sw, sh := b.surface.Size()
	vp.SurfaceW, vp.SurfaceH = sw, sh

	if b.cfg.Letterbox == LetterboxOff || b.movie.Width == 0 || b.movie.Height == 0 {
		vp.X, vp.Y, vp.Width, vp.Height = 0, 0, sw, sh
		return vp
	}

	scaleX := float64(sw) / float64(b.movie.Width)
	scaleY := float64(sh) / float64(b.movie.Height)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	vp.Width = int(float64(b.movie.Width) * scale)
	vp.Height = int(float64(b.movie.Height) * scale)
	vp.X = (sw - vp.Width) / 2
	vp.Y = (sh - vp.Height) / 2
	return vp
}

func (b *Bridge) resolveFrameRate() float64 {
	if b.cfg.FrameRate > 0 {
		return b.cfg.FrameRate
	}
	if b.env.FrameRate > 0 {
		return b.env.FrameRate
	}
	if b.movie.FrameRate > 0 {
		return b.movie.FrameRate
	}
	return 30
}

func (b *Bridge) closePlayer() {
	if b.player != nil {
		b.player.Close()
		b.player = nil
		b.saver = nil
		b.movie = swfcore.MovieInfo{}
	}
}

func wrapLoadError(err error) error {
	switch {
	case errors.Is(err, swfcore.ErrUnsupportedFeature):
		return fmt.Errorf("%w: %v", ErrUnsupportedFeature, err)
	case errors.Is(err, swfcore.ErrMalformedMovie):
		return fmt.Errorf("%w: %v", ErrMalformedContent, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
}

// noopLogger discards diagnostics when no host log sink is attached.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
