// Package standalone is an ebiten frontend for the bridge: it opens a
// window, drives one frame pump per tick, and plays a single movie
// without any frontend beyond the window itself.
package standalone

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"

	swfcore "github.com/user-none/eflash/api"
	"github.com/user-none/eflash/core"
	"github.com/user-none/eflash/render"
	"github.com/user-none/eflash/retro"
	"github.com/user-none/eflash/storage"
)

const (
	rewindBufferMB  = 64
	rewindFrameStep = 6
	stateSlot       = 1
)

// App implements ebiten.Game on one side and the retro host environment
// on the other. All bridge calls happen on ebiten's update thread.
type App struct {
	renderer *FrameRenderer
	audio    *AudioPlayer
	poller   *InputPoller

	movieName string
	events    []core.PortEvent

	// Latest presented frame. The bridge owns the pixel memory; it stays
	// valid until the next pump on this same thread.
	framePix    []byte
	frameStride int
	frameW      int
	frameH      int

	vars        map[string]string
	varsChanged bool

	rewind         *RewindBuffer
	rewindHold     int
	rewindDisabled bool

	paused bool
}

// Run plays one movie in a window. An empty moviePath opens a file
// picker. configPath optionally points at a yaml config file.
func Run(factory swfcore.Factory, moviePath, configPath string) error {
	if moviePath == "" {
		var err error
		moviePath, err = dialog.File().
			Filter("Flash movies", "swf", "zip", "7z", "rar", "gz").
			Title("Open movie").Load()
		if err != nil {
			return fmt.Errorf("no movie selected: %w", err)
		}
	}

	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}

	app := &App{
		renderer: NewFrameRenderer(),
		poller:   NewInputPoller(),
		vars:     configVariables(cfg),
	}

	retro.RegisterFactory(factory, retro.SystemInfo{
		CoreName:    "eflash",
		CoreVersion: Version,
		Extensions:  []string{"swf"},
	})
	retro.SetEnvironment(app)
	if err := retro.Init(); err != nil {
		return err
	}
	defer retro.Deinit()

	if err := retro.LoadGame(moviePath, nil); err != nil {
		return err
	}
	app.movieName = filepath.Base(moviePath)

	av := retro.GetAVInfo()
	audio, err := NewAudioPlayer(av.SampleRate)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}
	app.audio = audio

	ebiten.SetWindowTitle("eflash")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(av.FrameRate + 0.5))

	err = ebiten.RunGame(app)
	if audio != nil {
		audio.Close()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game. One call is one bridge frame.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		a.paused = !a.paused
		if a.paused {
			retro.Pause()
		} else {
			retro.Resume()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		if err := retro.Reset(); err != nil {
			return err
		}
		if a.rewind != nil {
			a.rewind.Reset()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := saveState(a.movieName, stateSlot); err != nil {
			log.Printf("Save state failed: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		if err := loadState(a.movieName, stateSlot); err != nil {
			log.Printf("Load state failed: %v", err)
		} else {
			if a.audio != nil {
				a.audio.ClearQueue()
			}
			if a.rewind != nil {
				a.rewind.Reset()
			}
		}
	}

	if a.paused {
		return nil
	}

	// Hold F6 to rewind instead of running this frame.
	if ebiten.IsKeyPressed(ebiten.KeyF6) && a.rewind != nil {
		a.rewindHold++
		steps := rewindItemsForHoldDuration(a.rewindHold)
		if steps > 0 && a.rewind.Rewind(retro.Unserialize, steps) {
			if a.audio != nil {
				a.audio.ClearQueue()
			}
		}
		return nil
	}
	a.rewindHold = 0

	a.events = a.poller.Poll()
	if err := retro.Run(); err != nil {
		return err
	}

	a.captureRewind()
	return nil
}

// captureRewind snapshots the session for the rewind buffer, sizing the
// buffer from the first successful snapshot.
func (a *App) captureRewind() {
	if a.rewindDisabled {
		return
	}

	if a.rewind == nil {
		size := retro.SerializeSize()
		if size == 0 {
			a.rewindDisabled = true
			return
		}
		a.rewind = NewRewindBuffer(rewindBufferMB, rewindFrameStep, size)
		if a.rewind == nil {
			a.rewindDisabled = true
			return
		}
	}

	if err := a.rewind.Capture(retro.Serialize); err != nil {
		// Transient serialization failures just skip a snapshot.
		log.Printf("Rewind capture failed: %v", err)
	}
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.framePix == nil {
		return
	}
	a.renderer.Draw(screen, a.framePix, a.frameStride, a.frameW, a.frameH)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// Capabilities implements the retro host environment.
func (a *App) Capabilities() core.HostCapabilities {
	return core.HostCapabilities{
		GraphicsAPIs:       []render.API{render.APISoftware},
		PixelFormats:       []render.PixelFormat{render.PixelXRGB8888},
		MinSampleRate:      44100,
		MaxSampleRate:      48000,
		SupportsSaveStates: true,
	}
}

// Video receives the finished frame for the next Draw.
func (a *App) Video(pix []byte, width, height, stride int) {
	a.framePix = pix
	a.frameW = width
	a.frameH = height
	a.frameStride = stride
}

// AudioBatch queues pump audio for playback.
func (a *App) AudioBatch(samples []int16) int {
	if a.audio == nil {
		return len(samples)
	}
	a.audio.QueueSamples(samples)
	return len(samples)
}

// PollInput hands over the events gathered at the top of Update.
func (a *App) PollInput() []core.PortEvent {
	events := a.events
	a.events = nil
	return events
}

// Variable implements the option callback from the yaml config.
func (a *App) Variable(key string) (string, bool) {
	v, ok := a.vars[key]
	return v, ok
}

// VariablesUpdated reports pending option changes.
func (a *App) VariablesUpdated() bool {
	changed := a.varsChanged
	a.varsChanged = false
	return changed
}

// SetGeometry sizes the window to the movie.
func (a *App) SetGeometry(width, height int, aspectRatio float64) {
	if width < 320 {
		width = 320
	}
	if height < 240 {
		height = 240
	}
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowSizeLimits(320, 240, -1, -1)
}

// SaveDirectory gives the bridge a place for shared objects.
func (a *App) SaveDirectory() (string, bool) {
	dir, err := storage.SharedObjectsDir()
	if err != nil {
		return "", false
	}
	return dir, true
}

// configVariables flattens the yaml config into the option vocabulary
// the bridge reads back.
func configVariables(cfg core.Config) map[string]string {
	return map[string]string{
		core.VariablePrefix + "autoplay":               strconv.FormatBool(cfg.Autoplay),
		core.VariablePrefix + "letterbox":              cfg.Letterbox,
		core.VariablePrefix + "max_execution_duration": strconv.Itoa(int(cfg.MaxExecutionDuration.Seconds())),
		core.VariablePrefix + "sample_rate":            strconv.Itoa(cfg.SampleRate),
		core.VariablePrefix + "frame_rate":             strconv.FormatFloat(cfg.FrameRate, 'f', -1, 64),
		core.VariablePrefix + "load_behavior":          cfg.LoadBehavior,
	}
}
