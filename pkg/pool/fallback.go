package pool

import (
	"os"
	"sync"
)

// Fallback is the single reserved slab that keeps decompression moving
// when the pool and the backing heap both come up empty. It is sized once
// at init, rounded up to the page size, and guarded by one mutex: callers
// that reach it serialise against each other but never fail.
type Fallback struct {
	mu  sync.Mutex
	buf []byte
}

// NewFallback reserves a slab of at least size bytes.
func NewFallback(size int) *Fallback {
	page := os.Getpagesize()
	size = (size + page - 1) / page * page
	return &Fallback{buf: make([]byte, size)}
}

// Size returns the reserved slab size in bytes.
func (f *Fallback) Size() int { return len(f.buf) }

// Acquire blocks until the slab is free and lends it out. Returns nil if
// the request exceeds the reservation or the slab was already torn down.
func (f *Fallback) Acquire(size int) *Allocation {
	f.mu.Lock()
	if size > len(f.buf) {
		f.mu.Unlock()
		return nil
	}
	return &Allocation{kind: KindFallback, buf: f.buf[:size], fb: f}
}

// Close waits for the current holder, if any, and releases the slab.
// Acquire fails afterwards.
func (f *Fallback) Close() {
	f.mu.Lock()
	f.buf = nil
	f.mu.Unlock()
}
