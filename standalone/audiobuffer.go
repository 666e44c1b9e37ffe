package standalone

import (
	"io"
	"sync"
)

// AudioRingBuffer is a thread-safe byte ring buffer bridging the frame
// pump (writer) and oto's playback goroutine (reader). When the writer
// outpaces the reader the oldest bytes are dropped, keeping latency
// bounded at the cost of a glitch.
type AudioRingBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	readPos  int
	writePos int
	count    int
	closed   bool
}

// NewAudioRingBuffer creates a ring buffer with the given byte capacity.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{buf: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write copies data into the buffer, dropping the oldest bytes on
// overflow. Writes to a closed buffer are silently ignored.
func (rb *AudioRingBuffer) Write(data []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed {
		return
	}

	// Data larger than the whole buffer: only the tail survives.
	if len(data) > len(rb.buf) {
		data = data[len(data)-len(rb.buf):]
	}

	// Drop oldest bytes to make room.
	overflow := rb.count + len(data) - len(rb.buf)
	if overflow > 0 {
		rb.readPos = (rb.readPos + overflow) % len(rb.buf)
		rb.count -= overflow
	}

	for _, b := range data {
		rb.buf[rb.writePos] = b
		rb.writePos = (rb.writePos + 1) % len(rb.buf)
	}
	rb.count += len(data)

	rb.cond.Signal()
}

// Read implements io.Reader. It blocks until data is available or the
// buffer is closed, then returns io.EOF once closed and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 && !rb.closed {
		rb.cond.Wait()
	}

	if rb.count == 0 && rb.closed {
		return 0, io.EOF
	}

	n := len(p)
	if n > rb.count {
		n = rb.count
	}
	for i := 0; i < n; i++ {
		p[i] = rb.buf[rb.readPos]
		rb.readPos = (rb.readPos + 1) % len(rb.buf)
	}
	rb.count -= n

	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Clear discards all buffered data.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// Close marks the buffer closed and unblocks any waiting reader.
// Remaining data can still be read; then Read returns io.EOF.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
