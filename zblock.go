// Package zblock is a per-block Zstandard compression adapter for
// copy-on-write block storage. Every compressed block is framed with an
// 8-byte big-endian header carrying the payload length, the codec format
// version and the logical compression level, so the stored level survives
// format evolution and can be recovered on read.
//
// Compression is best-effort: any failure makes Compress return the input
// length, signalling the dispatcher to store the block raw. Decompression
// of a well-formed frame never fails for want of memory; a slab reserved
// at Init guarantees forward progress under pressure.
package zblock

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iamNilotpal/zblock/config"
	"github.com/iamNilotpal/zblock/internal/adapters/compression"
	"github.com/iamNilotpal/zblock/internal/core/domain"
	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/levels"
)

// The dispatcher-facing surface is process-wide, mirroring the module
// lifecycle of the block layer it serves: one Init at load, one Fini at
// unload, stateless calls in between.
var (
	mu      sync.RWMutex
	adapter *compression.Adapter
)

// Init sets up the context pools and the decompression fallback
// reservation. A nil cfg selects defaults; a nil log disables diagnostics.
// Calling Init on an initialized package is a no-op.
func Init(cfg *config.Config, log *zap.SugaredLogger) error {
	mu.Lock()
	defer mu.Unlock()

	if adapter != nil {
		return nil
	}

	opts := compression.DefaultOptions()
	if cfg != nil {
		opts = &domain.AdapterOptions{
			PoolSlots:   cfg.PoolSlots,
			SlotTimeout: time.Duration(cfg.SlotTimeout),
		}
	}

	a, err := compression.New(opts, log)
	if err != nil {
		return err
	}

	adapter = a
	return nil
}

// Fini waits out in-flight consumers and releases the pools, the fallback
// reservation and the codec. Idempotent.
func Fini() error {
	mu.Lock()
	defer mu.Unlock()

	if adapter == nil {
		return nil
	}

	err := adapter.Close()
	adapter = nil
	return err
}

func current() *compression.Adapter {
	mu.RLock()
	defer mu.RUnlock()
	return adapter
}

// Compress frames the compressed form of src into dst and returns the
// total bytes written. A return equal to len(src) means compression was
// declined and the block should be stored raw; an uninitialized package
// always declines.
func Compress(dst, src []byte, level levels.Level) int {
	a := current()
	if a == nil {
		return len(src)
	}
	return a.Compress(dst, src, level)
}

// Decompress expands the frame in src into dst.
func Decompress(dst, src []byte) error {
	a := current()
	if a == nil {
		return zerrors.NewAdapterError(zerrors.ErrorState, "decompress", zerrors.ErrClosed)
	}
	return a.Decompress(dst, src)
}

// DecompressLevel decompresses and reports the logical level the frame
// was written with.
func DecompressLevel(dst, src []byte) (levels.Level, error) {
	a := current()
	if a == nil {
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorState, "decompress", zerrors.ErrClosed)
	}
	return a.DecompressLevel(dst, src)
}

// GetLevel inspects the stored logical level of a frame without
// decompressing it.
func GetLevel(src []byte) (levels.Level, error) {
	a := current()
	if a == nil {
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorState, "get level", zerrors.ErrClosed)
	}
	return a.GetLevel(src)
}
