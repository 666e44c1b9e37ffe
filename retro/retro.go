// Package retro exposes the bridge through a frontend-facing shim:
// package-level lifecycle functions a host frontend calls in its own
// frame loop, mirroring the init/load/run/serialize ordering of plugin
// emulator cores.
package retro

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"

	swfcore "github.com/user-none/eflash/api"
	"github.com/user-none/eflash/content"
	"github.com/user-none/eflash/core"
	"github.com/user-none/eflash/storage"
)

// Shim-level errors.
var (
	ErrNoFactory     = errors.New("retro: no engine factory registered")
	ErrNoEnvironment = errors.New("retro: no environment set")
	ErrNotLoaded     = errors.New("retro: no content loaded")
)

// SystemInfo identifies the core to the frontend.
type SystemInfo struct {
	CoreName    string
	CoreVersion string
	Extensions  []string
}

// AVInfo describes output timing and geometry after content load.
type AVInfo struct {
	Width      int
	Height     int
	FrameRate  float64
	SampleRate int
}

var (
	factory swfcore.Factory
	sysInfo SystemInfo

	env    Environment
	bridge *core.Bridge
	logger swfcore.Logger

	// Retained for Reset, which rebuilds the player from the same bytes.
	contentData []byte
	contentName string

	store io.Closer
)

// RegisterFactory sets the engine factory used by the shim. Must be
// called before any other function, typically from the frontend's init.
func RegisterFactory(f swfcore.Factory, info SystemInfo) {
	factory = f
	sysInfo = info
}

// SetEnvironment installs the host frontend. Must be called before Init.
func SetEnvironment(e Environment) {
	env = e
}

// GetSystemInfo returns the registered core identity.
func GetSystemInfo() SystemInfo {
	return sysInfo
}

// GetAVInfo returns output geometry and timing. Movie geometry is only
// meaningful after LoadGame.
func GetAVInfo() AVInfo {
	info := AVInfo{Width: 640, Height: 480, FrameRate: 30, SampleRate: 48000}
	if bridge == nil {
		return info
	}
	if e, ok := bridge.Env(); ok {
		info.SampleRate = e.SampleRate
	}
	if movie, ok := bridge.Movie(); ok {
		info.Width = movie.Width
		info.Height = movie.Height
	}
	if fps := bridge.FrameRate(); fps > 0 {
		info.FrameRate = fps
	}
	return info
}

// Init creates the bridge and negotiates an environment with the
// frontend's declared capabilities.
func Init() error {
	if factory == nil {
		return ErrNoFactory
	}
	if env == nil {
		return ErrNoEnvironment
	}

	bridge = core.NewBridge(factory)

	logger = newLogger(env)
	bridge.SetLogger(logger)

	if hw, ok := env.(HardwareContextProvider); ok {
		bridge.SetContextProvider(hw.HardwareContext)
	}

	cfg := core.DefaultConfig()
	applyVariables(&cfg)
	bridge.SetConfig(cfg)

	if err := bridge.Negotiate(env.Capabilities()); err != nil {
		bridge = nil
		return err
	}
	return nil
}

// Deinit tears the bridge down and releases storage. The shim can be
// re-initialized afterwards with Init.
func Deinit() {
	if bridge != nil {
		bridge.Teardown()
		bridge = nil
	}
	closeStore()
	contentData = nil
	contentName = ""
	env = nil
	logger = nil
}

// LoadGame loads a movie. When data is nil the file at path is read,
// extracting from zip, 7z, rar or gzip archives as needed. The bytes are
// retained so Reset can rebuild the player.
func LoadGame(path string, data []byte) error {
	if bridge == nil {
		return ErrNoEnvironment
	}

	name := filepath.Base(path)
	if data == nil {
		var err error
		data, name, err = content.Load(path)
		if err != nil {
			return err
		}
	}

	openStore(name)

	if err := bridge.LoadContent(data); err != nil {
		return err
	}

	contentData = data
	contentName = name
	notifyGeometry()
	return nil
}

// UnloadGame discards the loaded movie and returns the bridge to the
// negotiated-environment state.
func UnloadGame() {
	if bridge == nil {
		return
	}
	bridge.Reset()
	closeStore()
	contentData = nil
	contentName = ""
}

// Run executes one frame: option refresh, input poll, pump, video and
// audio delivery. The first call after LoadGame starts the player.
func Run() error {
	if bridge == nil {
		return ErrNoEnvironment
	}
	if contentData == nil {
		return ErrNotLoaded
	}

	if vars, ok := env.(VariableProvider); ok && vars.VariablesUpdated() {
		cfg := bridge.Config()
		applyVariables(&cfg)
		bridge.SetConfig(cfg)
	}

	if bridge.State() == core.StateContentLoaded {
		if err := bridge.Run(); err != nil {
			return err
		}
	}

	events := env.PollInput()
	res := bridge.Pump(events, batchSink{})
	if res.Err != nil {
		return res.Err
	}

	if pix, stride, w, h, ok := bridge.Frame(); ok {
		env.Video(pix, w, h, stride)
	}
	return nil
}

// Reset restarts the loaded movie from the beginning, reusing the
// negotiated environment and the retained movie bytes.
func Reset() error {
	if bridge == nil {
		return ErrNoEnvironment
	}
	if contentData == nil {
		return ErrNotLoaded
	}

	if err := bridge.Reset(); err != nil {
		return err
	}
	if err := bridge.LoadContent(contentData); err != nil {
		return err
	}
	notifyGeometry()
	return nil
}

// Pause suspends frame execution.
func Pause() error {
	if bridge == nil {
		return ErrNoEnvironment
	}
	return bridge.Suspend()
}

// Resume restarts frame execution after Pause.
func Resume() error {
	if bridge == nil {
		return ErrNoEnvironment
	}
	return bridge.Resume()
}

// SerializeSize returns the size of a save-state blob for the current
// state, or 0 when state saving is unavailable.
func SerializeSize() int {
	blob, err := Serialize()
	if err != nil {
		return 0
	}
	return len(blob)
}

// Serialize captures the current session into an opaque blob.
func Serialize() ([]byte, error) {
	if bridge == nil {
		return nil, ErrNoEnvironment
	}
	return bridge.Save()
}

// Unserialize restores a session from a Serialize blob.
func Unserialize(data []byte) error {
	if bridge == nil {
		return ErrNoEnvironment
	}
	return bridge.LoadState(data)
}

// ContextReset signals that the frontend's graphics context is live.
// Surface construction that was deferred at load time happens here.
func ContextReset() {
	if bridge == nil {
		return
	}
	bridge.OnContextReset()
}

// ContextDestroyed signals that the frontend's graphics context is gone.
// Frames keep running logic-only until the next ContextReset.
func ContextDestroyed() {
	if bridge == nil {
		return
	}
	bridge.OnContextLost()
}

// batchSink delivers pump audio to the frontend's batch callback.
type batchSink struct{}

func (batchSink) WriteSamples(samples []int16) int {
	return env.AudioBatch(samples)
}

// applyVariables reads every known option from the frontend into cfg.
func applyVariables(cfg *core.Config) {
	vars, ok := env.(VariableProvider)
	if !ok {
		return
	}
	for _, v := range Variables() {
		if value, set := vars.Variable(v.Key); set {
			cfg.ApplyVariable(v.Key, value)
		}
	}
}

// openStore attaches shared-object storage for a movie. Frontends with a
// save directory get an on-disk database; everyone else gets in-memory
// storage for the session.
func openStore(movieName string) {
	closeStore()

	if saver, ok := env.(SaveDirectoryProvider); ok {
		if dir, ok := saver.SaveDirectory(); ok {
			path := filepath.Join(dir, movieName+".db")
			db, err := storage.OpenSQLite(path)
			if err == nil {
				bridge.SetStorage(db)
				store = db
				return
			}
			logger.Warnf("shared object storage unavailable, using memory: %v", err)
		}
	}

	bridge.SetStorage(storage.NewMemory())
}

func closeStore() {
	if store != nil {
		store.Close()
		store = nil
	}
}

func notifyGeometry() {
	geo, ok := env.(GeometryNotifier)
	if !ok {
		return
	}
	movie, ok := bridge.Movie()
	if !ok || movie.Height == 0 {
		return
	}
	geo.SetGeometry(movie.Width, movie.Height, float64(movie.Width)/float64(movie.Height))
}

// newLogger routes diagnostics to the frontend's sink when it has one,
// falling back to stderr.
func newLogger(e Environment) swfcore.Logger {
	if sink, ok := e.(LogSink); ok {
		return sinkLogger{sink}
	}
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: sysInfo.CoreName,
	})
	return l
}

// sinkLogger adapts a LogSink to the engine logger interface.
type sinkLogger struct {
	sink LogSink
}

func (l sinkLogger) Debugf(format string, args ...interface{}) {
	l.sink.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l sinkLogger) Infof(format string, args ...interface{}) {
	l.sink.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l sinkLogger) Warnf(format string, args ...interface{}) {
	l.sink.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l sinkLogger) Errorf(format string, args ...interface{}) {
	l.sink.Log(LevelError, fmt.Sprintf(format, args...))
}
