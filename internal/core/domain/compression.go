package domain

import "time"

// AdapterOptions configures the compression adapter's resource behavior.
// The on-disk frame format and the level enumeration are fixed; only the
// pooling characteristics are tunable.
type AdapterOptions struct {
	// PoolSlots sets how many codec contexts may hold pooled buffers at
	// once, per direction (one pool serves compression, one serves
	// decompression). Zero selects max(16, 4 × CPU count). Saturating the
	// pool does not fail operations; further contexts fall back to plain
	// heap allocations.
	PoolSlots int

	// SlotTimeout sets how long an idle pooled buffer is kept before a
	// later allocation reclaims it. Zero selects two minutes. The timer is
	// wall-clock idleness, not a request deadline.
	SlotTimeout time.Duration
}
