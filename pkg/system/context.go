// Package system carries small process-lifecycle helpers shared by
// binaries embedding the adapter.
package system

import (
	"context"
)

// Teardown runs a resource release function under a deadline-carrying
// context. Releasing the adapter blocks slot by slot until in-flight
// codec contexts let go of their buffers, and on the fallback mutex until
// the last-resort decompression finishes, so an impatient caller bounds
// the wait with a context deadline.
//
// The release itself gets an independent context: a teardown that has
// started must run to completion, or slots and the fallback slab are left
// with their mutexes held. When the caller's deadline fires first, the
// release is signalled to hurry but still waited out; its own error wins
// over the deadline error.
func Teardown(ctx context.Context, release func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	releaseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so the release goroutine exits even if nobody is left to
	// read the result.
	done := make(chan error, 1)

	go func() {
		done <- release(releaseCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		if err := <-done; err != nil {
			return err
		}
		return ctx.Err()
	}
}
