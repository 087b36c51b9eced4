// Package compression implements the per-block zstd facade: it frames
// compressed blocks with a self-describing header, maps logical levels to
// codec cookies, and feeds the codec from bounded context pools.
//
// The failure policy is asymmetric. Compression is best-effort: any
// failure is converted into "store the block raw" by returning the input
// length. Decompression of a well-formed frame must succeed, so its last
// allocation resort is a slab reserved at init.
package compression

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iamNilotpal/zblock/internal/adapters/codec"
	"github.com/iamNilotpal/zblock/internal/core/domain"
	"github.com/iamNilotpal/zblock/internal/core/ports"
	"github.com/iamNilotpal/zblock/internal/serialize"
	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/levels"
	"github.com/iamNilotpal/zblock/pkg/pool"
)

// Adapter composes the header codec, the level map, the bounded pools and
// the zstd codec into the entry points the block layer dispatches to.
type Adapter struct {
	log   *zap.SugaredLogger
	codec ports.Codec

	cctxPool *pool.Pool
	dctxPool *pool.Pool
	fallback *pool.Fallback

	mu     sync.RWMutex // Guards closed.
	closed bool
}

var _ ports.BlockCompressor = (*Adapter)(nil)

// cctxAllocator feeds compression contexts from the compression pool.
// There is no last resort on this side: a failed allocation surfaces as
// declined compression.
type cctxAllocator struct {
	pool *pool.Pool
}

func (a cctxAllocator) Alloc(size int) ports.Allocation {
	if alloc := a.pool.Get(size); alloc != nil {
		return alloc
	}
	return nil
}

// dctxAllocator feeds decompression contexts: the pool first, then the
// reserved slab. The slab acquisition blocks until the previous
// last-resort consumer is done, so it is only reached after every pool
// try-lock has been released.
type dctxAllocator struct {
	pool     *pool.Pool
	fallback *pool.Fallback
}

func (a dctxAllocator) Alloc(size int) ports.Allocation {
	if alloc := a.pool.Get(size); alloc != nil {
		return alloc
	}
	if alloc := a.fallback.Acquire(size); alloc != nil {
		return alloc
	}
	return nil
}

// New creates an adapter with its two context pools and the decompression
// fallback reservation. A nil opts selects defaults; a nil log disables
// diagnostics.
func New(opts *domain.AdapterOptions, log *zap.SugaredLogger) (*Adapter, error) {
	if opts == nil {
		opts = DefaultOptions()
	} else if err := Validate(opts); err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	zc, err := codec.NewZstd()
	if err != nil {
		return nil, fmt.Errorf("failed to create codec: %w", err)
	}

	return &Adapter{
		log:      log,
		codec:    zc,
		cctxPool: pool.New(opts.PoolSlots, opts.SlotTimeout),
		dctxPool: pool.New(opts.PoolSlots, opts.SlotTimeout),
		fallback: pool.NewFallback(zc.EstimateDCtxSize()),
	}, nil
}

// Compress frames the compressed form of src into dst and returns the
// total bytes written, header included. A return equal to len(src) means
// compression was declined — the destination budget was too small, the
// codec failed, or no context memory was available — and the block layer
// should store the block raw. The destination must not exceed the source
// length; compression that grows a block is never stored.
func (a *Adapter) Compress(dst, src []byte, level levels.Level) int {
	declined := len(src)

	if len(dst) < serialize.HeaderSize || a.isClosed() {
		return declined
	}

	switch {
	case level == levels.LevelInherit || level == levels.LevelDefault:
		level = levels.Default
	case !level.Concrete():
		// An unmapped level here means the caller's state is corrupt.
		a.log.Errorw("invalid compression level, using default", "level", uint8(level))
		level = levels.Default
	}
	cookie := levels.CookieOf(level)

	cctx, err := a.codec.NewCCtx(cctxAllocator{pool: a.cctxPool})
	if err != nil {
		// Out of memory. Gently fall through, the block layer stores raw.
		return declined
	}
	defer cctx.Close()

	n, err := cctx.Compress(dst[serialize.HeaderSize:len(dst):len(dst)], src, cookie)
	if err != nil {
		return declined
	}

	if _, err := serialize.EncodeHeader(dst, uint32(n), serialize.FormatVersion, level); err != nil {
		return declined
	}

	return n + serialize.HeaderSize
}

// Decompress expands the frame in src into dst. The destination must be at
// least as large as the source frame. Corrupt frames and codec failures
// return an error; dst is never partially committed for a rejected frame.
func (a *Adapter) Decompress(dst, src []byte) error {
	_, err := a.decompress(dst, src)
	return err
}

// DecompressLevel decompresses like Decompress and reports the logical
// level recorded in the frame header.
func (a *Adapter) DecompressLevel(dst, src []byte) (levels.Level, error) {
	return a.decompress(dst, src)
}

func (a *Adapter) decompress(dst, src []byte) (levels.Level, error) {
	const op = "decompress"

	if a.isClosed() {
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorState, op, zerrors.ErrClosed)
	}

	hdr, err := serialize.DecodeHeader(src)
	if err != nil {
		a.reportHeaderError(err)
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorHeader, op, err)
	}

	if len(dst) < len(src) {
		return levels.Default, zerrors.NewAdapterError(
			zerrors.ErrorHeader, op,
			fmt.Errorf("%w: %d bytes for a %d byte frame", zerrors.ErrDestinationTooSmall, len(dst), len(src)),
		)
	}

	dctx, err := a.codec.NewDCtx(dctxAllocator{pool: a.dctxPool, fallback: a.fallback})
	if err != nil {
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorResource, op, err)
	}
	defer dctx.Close()

	payload := src[serialize.HeaderSize : serialize.HeaderSize+int(hdr.PayloadLen)]
	if _, err := dctx.Decompress(dst, payload); err != nil {
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorCodec, op, err)
	}

	return hdr.Level, nil
}

// GetLevel inspects the stored logical level of a frame. Pure inspection,
// no allocation.
func (a *Adapter) GetLevel(src []byte) (levels.Level, error) {
	hdr, err := serialize.DecodeHeader(src)
	if err != nil {
		a.reportHeaderError(err)
		return levels.Default, zerrors.NewAdapterError(zerrors.ErrorHeader, "get level", err)
	}
	return hdr.Level, nil
}

// Close releases the pools, the fallback reservation, and the codec.
// Idempotent; operations after Close fail closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	err := a.codec.Close()
	a.cctxPool.Close()
	a.dctxPool.Close()
	a.fallback.Close()
	return err
}

func (a *Adapter) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

// reportHeaderError emits the diagnostic for level bytes outside the
// enumeration. Those indicate corrupt state rather than a torn frame.
func (a *Adapter) reportHeaderError(err error) {
	if errors.Is(err, levels.ErrUnknownLevel) {
		a.log.Errorw("unknown compression level in block header", "error", err)
	}
}
