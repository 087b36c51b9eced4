// Package codec adapts the klauspost zstd implementation to the context
// surface the compression facade consumes. Contexts draw their working
// memory through the caller-supplied allocator, so whether a context can be
// created is decided by that allocator, not by the codec.
package codec

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"

	"github.com/iamNilotpal/zblock/internal/core/ports"
	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
)

const (
	// cctxWorkspaceSize is the working memory charged to one compression
	// context against its pool.
	cctxWorkspaceSize = 1 << 20 // 1MB

	// dctxWorkspaceSize is the working memory charged to one decompression
	// context. The fallback reservation is sized from this.
	dctxWorkspaceSize = 160 * 1024 // 160KB
)

// Zstd implements ports.Codec on top of klauspost zstd. Encoders are
// created lazily per speed tier and shared across contexts; EncodeAll and
// DecodeAll are safe for concurrent use on shared instances.
type Zstd struct {
	mu       sync.RWMutex
	encoders map[zstd.EncoderLevel]*zstd.Encoder
	decoder  *zstd.Decoder
}

var _ ports.Codec = (*Zstd)(nil)

// NewZstd creates the codec with its shared decoder.
//
// Returns an error if the decoder initialization fails.
func NewZstd() (*Zstd, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &Zstd{
		decoder:  decoder,
		encoders: make(map[zstd.EncoderLevel]*zstd.Encoder),
	}, nil
}

// encoderLevel maps a signed level cookie onto the encoder's speed scale.
// Negative cookies are the fast levels; klauspost folds them all into its
// fastest tier. The logical level stored in the frame header stays exact,
// only the effort spent producing the payload is approximated.
func encoderLevel(cookie int32) zstd.EncoderLevel {
	if cookie < 0 {
		return zstd.SpeedFastest
	}
	return zstd.EncoderLevelFromZstd(int(cookie))
}

// encoder returns the shared encoder for a speed tier, creating it on
// first use.
func (z *Zstd) encoder(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	z.mu.RLock()
	enc := z.encoders[level]
	z.mu.RUnlock()
	if enc != nil {
		return enc, nil
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if enc := z.encoders[level]; enc != nil {
		return enc, nil
	}

	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(level),
		zstd.WithEncoderConcurrency(runtime.NumCPU()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	z.encoders[level] = enc
	return enc, nil
}

// NewCCtx creates a compression context. The workspace obtained from mem
// is the context's pool reservation; it is returned on Close.
func (z *Zstd) NewCCtx(mem ports.ContextAllocator) (ports.CompressionContext, error) {
	ws := mem.Alloc(cctxWorkspaceSize)
	if ws == nil {
		return nil, zerrors.ErrContextUnavailable
	}
	return &cctx{z: z, ws: ws}, nil
}

// NewDCtx creates a decompression context backed by mem.
func (z *Zstd) NewDCtx(mem ports.ContextAllocator) (ports.DecompressionContext, error) {
	ws := mem.Alloc(dctxWorkspaceSize)
	if ws == nil {
		return nil, zerrors.ErrContextUnavailable
	}
	return &dctx{z: z, ws: ws}, nil
}

// EstimateDCtxSize reports the decompression context workspace size.
func (z *Zstd) EstimateDCtxSize() int { return dctxWorkspaceSize }

// Close releases the shared decoder and every encoder tier.
func (z *Zstd) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	var errs error
	for level, enc := range z.encoders {
		if err := enc.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("error closing encoder %v: %w", level, err))
		}
		delete(z.encoders, level)
	}

	z.decoder.Close()
	return errs
}

// cctx is one in-flight compression holding its pool reservation.
type cctx struct {
	z  *Zstd
	ws ports.Allocation
}

// Compress writes the compressed form of src into dst. The output must fit
// dst exactly as given: the encoder appends into dst's storage, and an
// append that outgrew it means the destination budget was exceeded.
func (c *cctx) Compress(dst, src []byte, cookie int32) (int, error) {
	enc, err := c.z.encoder(encoderLevel(cookie))
	if err != nil {
		return 0, err
	}

	res := enc.EncodeAll(src, dst[:0])
	if len(res) > len(dst) {
		return 0, zerrors.ErrDestinationTooSmall
	}
	if len(res) > 0 && &res[0] != &dst[0] {
		return 0, zerrors.ErrDestinationTooSmall
	}

	return len(res), nil
}

func (c *cctx) Close() { c.ws.Release() }

// dctx is one in-flight decompression holding its pool reservation.
type dctx struct {
	z  *Zstd
	ws ports.Allocation
}

// Decompress expands src into dst. Output larger than dst is an error, not
// a partial write.
func (d *dctx) Decompress(dst, src []byte) (int, error) {
	res, err := d.z.decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, fmt.Errorf("decompression failed: %w", err)
	}

	if len(res) > len(dst) {
		return 0, zerrors.ErrDestinationTooSmall
	}
	if len(res) > 0 && &res[0] != &dst[0] {
		return 0, zerrors.ErrDestinationTooSmall
	}

	return len(res), nil
}

func (d *dctx) Close() { d.ws.Release() }
