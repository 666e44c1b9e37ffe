package core

import (
	"fmt"
)

// AudioSink receives the frame's audio samples in production order.
type AudioSink interface {
	// WriteSamples consumes stereo int16 samples and returns how many
	// were accepted.
	WriteSamples(samples []int16) int
}

// FrameResult reports what one pump call did.
type FrameResult struct {
	// Drew reports whether the player rendered into a fresh surface.
	// False means a logic-only tick.
	Drew bool

	// AudioSamplesWritten counts samples delivered to the sink.
	AudioSamplesWritten int

	// Degraded reports that rendering was skipped because the backend
	// is awaiting rebuild after context loss.
	Degraded bool

	// Err is the lifecycle or frame error, nil on success.
	Err error
}

// Pump executes one host frame tick: input intake, fixed-step advance,
// draw submission, audio delivery, in that order. Valid only while
// Running; in every other state it is a no-op that reports why. After a
// player fault the bridge is Errored and every pump returns the same
// error until Reset.
func (b *Bridge) Pump(events []PortEvent, sink AudioSink) FrameResult {
	switch b.state {
	case StateRunning:
	case StateErrored:
		return FrameResult{Err: b.frameErr}
	case StateTornDown:
		return FrameResult{Err: ErrTornDown}
	default:
		return FrameResult{Err: fmt.Errorf("%w: pump in %s", ErrNotRunning, b.state)}
	}

	// Retry a pending backend rebuild before this frame draws. A
	// host-signaled context loss blocks the retry until the host
	// signals the context is back.
	if b.rebuildPending && !b.contextLost {
		b.tryBuildSurface()
	}

	// 1. Input intake. The snapshot is consumed here and discarded.
	vp := b.viewport()
	for _, ev := range mapEvents(events, vp, &b.mouse) {
		b.player.HandleEvent(ev)
	}

	// 2. Fixed-step advance.
	if err := b.player.Advance(b.frameDelta); err != nil {
		return FrameResult{Err: b.fail("advance", err)}
	}
	b.frameCount++
	b.elapsed += b.frameDelta

	// 3. Draw, only into a fresh surface. A stale or missing surface
	// downgrades this tick to logic-only rather than touching a dangling
	// handle.
	var res FrameResult
	if b.adapter.Fresh(b.surface) {
		if err := b.player.Render(b.surface.Target()); err != nil {
			return FrameResult{Err: b.fail("render", err)}
		}
		if err := b.surface.Flush(); err != nil {
			b.log.Warnf("surface flush: %v", err)
		}
		res.Drew = true
	} else {
		res.Degraded = true
	}

	// 4. Audio delivery, in production order, no reordering or
	// duplication across pumps.
	if sink != nil {
		for {
			got := b.player.DrainAudio(b.audioBuf)
			if got == 0 {
				break
			}
			res.AudioSamplesWritten += sink.WriteSamples(b.audioBuf[:got])
			if got < len(b.audioBuf) {
				break
			}
		}
	}

	return res
}

// fail records a player fault and moves the bridge to Errored. The
// process stays alive; the host sees the same error from every pump
// until an explicit Reset.
func (b *Bridge) fail(op string, err error) error {
	b.frameErr = fmt.Errorf("core: player fault during %s: %w", op, err)
	b.state = StateErrored
	b.log.Errorf("%v", b.frameErr)
	return b.frameErr
}
