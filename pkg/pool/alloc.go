package pool

// Kind discriminates how an Allocation must be released. Every buffer
// handed to a codec context carries one of these tags so the release path
// never needs to know where the buffer came from.
type Kind uint8

const (
	// KindHeap marks a buffer allocated directly from the backing heap
	// because the pool was saturated. Releasing it just drops the
	// reference.
	KindHeap Kind = iota + 1

	// KindPooled marks a buffer owned by a pool slot. The slot mutex is
	// held from acquisition until release; releasing unlocks the slot and
	// leaves the buffer in place for reuse.
	KindPooled

	// KindFallback marks the single reserved fallback slab. Releasing it
	// unlocks the slab for the next last-resort decompression.
	KindFallback
)

// Allocation is the tagged handle for one buffer lent to a codec context.
// It is owned by exactly one consumer between Get/Acquire and Release.
type Allocation struct {
	kind Kind
	buf  []byte
	slot *slot
	fb   *Fallback
}

// Bytes returns the lent buffer. Valid until Release.
func (a *Allocation) Bytes() []byte { return a.buf }

// Kind reports which release policy applies to this allocation.
func (a *Allocation) Kind() Kind { return a.kind }

// Release returns the buffer to its owner. Must be called exactly once;
// the allocation must not be used afterwards.
func (a *Allocation) Release() {
	switch a.kind {
	case KindHeap:
		a.buf = nil
	case KindPooled:
		s := a.slot
		a.buf = nil
		a.slot = nil
		s.mu.Unlock()
	case KindFallback:
		fb := a.fb
		a.buf = nil
		a.fb = nil
		fb.mu.Unlock()
	}
}
