package jcli

import "sync"

// defaultBufferSize caps the unconsumed console output kept per session (1 MB).
const defaultBufferSize = 1024 * 1024

// outputBuffer accumulates console output between prompt boundaries. A
// reader goroutine appends to it while Expect polls it for rule matches.
type outputBuffer struct {
	mu     sync.Mutex
	data   []byte
	maxLen int
	closed bool
	err    error
	notify chan struct{} // signaled (non-blocking) when data arrives or the stream ends
}

func newOutputBuffer(maxLen int) *outputBuffer {
	if maxLen <= 0 {
		maxLen = defaultBufferSize
	}
	return &outputBuffer{
		maxLen: maxLen,
		notify: make(chan struct{}, 1),
	}
}

// Write appends p, trimming from the front if the total exceeds maxLen.
func (b *outputBuffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	b.mu.Lock()
	b.data = append(b.data, p...)
	if len(b.data) > b.maxLen {
		b.data = b.data[len(b.data)-b.maxLen:]
	}
	b.mu.Unlock()
	b.signal()
}

// CloseWithError marks the end of the stream. Data already buffered stays
// available so that a final prompt can still be matched.
func (b *outputBuffer) CloseWithError(err error) {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		b.err = err
	}
	b.mu.Unlock()
	b.signal()
}

// Snapshot returns the buffered text and the end-of-stream state.
func (b *outputBuffer) Snapshot() (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data), b.closed, b.err
}

// Consume discards the first n bytes, typically everything up to the end of
// a matched prompt.
func (b *outputBuffer) Consume(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	b.data = append(b.data[:0], b.data[n:]...)
}

func (b *outputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

func (b *outputBuffer) Notify() <-chan struct{} {
	return b.notify
}

func (b *outputBuffer) signal() {
	select {
	case b.notify <- struct{}{}:
	default:
	}
}
