package standalone

// RewindBuffer stores serialized session states in a ring buffer for
// stepping gameplay backwards. States are captured every frameStep
// frames and popped in reverse order (LIFO).
type RewindBuffer struct {
	buffer    [][]byte // Ring buffer slots
	head      int      // Next write position
	count     int      // Number of valid entries
	capacity  int      // Max entries
	frameStep int      // Capture every N frames
	frameTick int      // Frame counter for step timing
}

// NewRewindBuffer allocates a ring buffer sized to fit bufferSizeMB
// worth of serialized states, each stateSize bytes.
func NewRewindBuffer(bufferSizeMB, frameStep, stateSize int) *RewindBuffer {
	if stateSize <= 0 || bufferSizeMB <= 0 || frameStep <= 0 {
		return nil
	}
	capacity := (bufferSizeMB * 1024 * 1024) / stateSize
	if capacity == 0 {
		return nil
	}
	return &RewindBuffer{
		buffer:    make([][]byte, capacity),
		capacity:  capacity,
		frameStep: frameStep,
	}
}

// Capture stores a serialized state in the ring buffer. Only captures
// every frameStep frames; serialize is not called on skipped frames.
// Should be called after the frame runs.
func (rb *RewindBuffer) Capture(serialize func() ([]byte, error)) error {
	rb.frameTick++
	if rb.frameTick < rb.frameStep {
		return nil
	}
	rb.frameTick = 0

	state, err := serialize()
	if err != nil {
		return err
	}

	rb.buffer[rb.head] = state
	rb.head = (rb.head + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}

	return nil
}

// Rewind pops count states from the buffer and restores the last one.
// Returns false if the buffer is empty or restore fails.
func (rb *RewindBuffer) Rewind(restore func([]byte) error, count int) bool {
	if rb.count == 0 {
		return false
	}

	if count > rb.count {
		count = rb.count
	}

	// Move head back by count entries
	rb.head = (rb.head - count + rb.capacity) % rb.capacity
	rb.count -= count

	// head points to the next write slot, so the most recent entry is head-1
	idx := (rb.head - 1 + rb.capacity) % rb.capacity
	state := rb.buffer[idx]
	if state == nil {
		return false
	}

	return restore(state) == nil
}

// Reset clears the buffer. Call on movie load or save state load.
func (rb *RewindBuffer) Reset() {
	rb.head = 0
	rb.count = 0
	rb.frameTick = 0
	// Clear references to allow GC of old state data
	for i := range rb.buffer {
		rb.buffer[i] = nil
	}
}

// Count returns the number of valid entries in the buffer.
func (rb *RewindBuffer) Count() int {
	return rb.count
}

// Capacity returns the maximum number of entries the buffer can hold.
func (rb *RewindBuffer) Capacity() int {
	return rb.capacity
}

// rewindItemsForHoldDuration returns the number of rewind steps to take
// based on how many frames the rewind key has been held. Slow at first,
// faster the longer the key is held.
func rewindItemsForHoldDuration(holdDuration int) int {
	switch {
	case holdDuration <= 0:
		return 0
	case holdDuration == 1:
		return 1
	case holdDuration <= 15:
		// ~15 steps/sec: fire every 4th frame
		if holdDuration%4 == 0 {
			return 1
		}
		return 0
	case holdDuration <= 30:
		// ~30 steps/sec: fire every 2nd frame
		if holdDuration%2 == 0 {
			return 1
		}
		return 0
	case holdDuration <= 60:
		return 1
	default:
		return 2
	}
}
