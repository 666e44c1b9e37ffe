package standalone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferCapacity is ~167ms at 48kHz stereo 16-bit (~32KB).
const ringBufferCapacity = 32768

// AudioPlayer manages audio playback via oto.
// It writes int16 stereo samples to a ring buffer which oto's player
// reads from in a pull model.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
	audioBytes []byte // Pre-allocated buffer for int16-to-byte conversion
}

// oto context singleton, created at the first negotiated sample rate
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// NewAudioPlayer creates and initializes audio playback via oto at the
// negotiated sample rate.
func NewAudioPlayer(sampleRate int) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(ringBufferCapacity)
	player := ctx.NewPlayer(rb)
	// Keep oto's internal buffer small so buffered audio tracks the pump
	// closely instead of accumulating half a second at startup.
	player.SetBufferSize(19200)
	player.Play()

	return &AudioPlayer{
		player:     player,
		ringBuffer: rb,
		audioBytes: make([]byte, 0, 4096),
	}, nil
}

// QueueSamples converts int16 stereo samples to bytes and writes them
// to the ring buffer for oto to consume.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}

	needed := len(samples) * 2
	if cap(a.audioBytes) < needed {
		a.audioBytes = make([]byte, 0, needed)
	}
	a.audioBytes = a.audioBytes[:0]
	for _, sample := range samples {
		a.audioBytes = append(a.audioBytes, byte(sample), byte(sample>>8))
	}

	a.ringBuffer.Write(a.audioBytes)
}

// ClearQueue flushes all buffered audio from the ring buffer.
// Used when rewinding or loading a state to prevent stale playback.
func (a *AudioPlayer) ClearQueue() {
	a.ringBuffer.Clear()
}

// Close cleans up audio resources.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
