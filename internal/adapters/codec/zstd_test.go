package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/zblock/internal/core/ports"
	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/pool"
)

type poolAllocator struct{ p *pool.Pool }

func (a poolAllocator) Alloc(size int) ports.Allocation {
	if alloc := a.p.Get(size); alloc != nil {
		return alloc
	}
	return nil
}

type failingAllocator struct{}

func (failingAllocator) Alloc(int) ports.Allocation { return nil }

func newTestCodec(t *testing.T) (*Zstd, ports.ContextAllocator) {
	t.Helper()

	z, err := NewZstd()
	require.NoError(t, err)
	t.Cleanup(func() { z.Close() })

	p := pool.New(4, time.Minute)
	t.Cleanup(p.Close)

	return z, poolAllocator{p: p}
}

func TestContextRoundTrip(t *testing.T) {
	z, mem := newTestCodec(t)

	src := bytes.Repeat([]byte("abcd"), 1024)
	dst := make([]byte, len(src))

	cctx, err := z.NewCCtx(mem)
	require.NoError(t, err)
	n, err := cctx.Compress(dst, src, 3)
	cctx.Close()
	require.NoError(t, err)
	require.Greater(t, n, 0)
	require.Less(t, n, len(src))

	out := make([]byte, len(src))
	dctx, err := z.NewDCtx(mem)
	require.NoError(t, err)
	m, err := dctx.Decompress(out, dst[:n])
	dctx.Close()
	require.NoError(t, err)
	require.Equal(t, len(src), m)
	require.Equal(t, src, out)
}

func TestNegativeCookieCompresses(t *testing.T) {
	z, mem := newTestCodec(t)

	src := bytes.Repeat([]byte("abcd"), 1024)
	dst := make([]byte, len(src))

	cctx, err := z.NewCCtx(mem)
	require.NoError(t, err)
	defer cctx.Close()

	n, err := cctx.Compress(dst, src, -1000)
	require.NoError(t, err)
	require.Greater(t, n, 0)
}

func TestCompressReportsTooSmallDestination(t *testing.T) {
	z, mem := newTestCodec(t)

	src := bytes.Repeat([]byte("abcd"), 1024)

	cctx, err := z.NewCCtx(mem)
	require.NoError(t, err)
	defer cctx.Close()

	_, err = cctx.Compress(make([]byte, 4), src, 3)
	require.ErrorIs(t, err, zerrors.ErrDestinationTooSmall)

	_, err = cctx.Compress(nil, src, 3)
	require.ErrorIs(t, err, zerrors.ErrDestinationTooSmall)
}

func TestDecompressReportsTooSmallDestination(t *testing.T) {
	z, mem := newTestCodec(t)

	src := bytes.Repeat([]byte("abcd"), 1024)
	dst := make([]byte, len(src))

	cctx, err := z.NewCCtx(mem)
	require.NoError(t, err)
	n, err := cctx.Compress(dst, src, 3)
	cctx.Close()
	require.NoError(t, err)

	dctx, err := z.NewDCtx(mem)
	require.NoError(t, err)
	defer dctx.Close()

	_, err = dctx.Decompress(make([]byte, len(src)/2), dst[:n])
	require.ErrorIs(t, err, zerrors.ErrDestinationTooSmall)
}

func TestContextCreationFailsWithoutMemory(t *testing.T) {
	z, err := NewZstd()
	require.NoError(t, err)
	defer z.Close()

	_, err = z.NewCCtx(failingAllocator{})
	require.ErrorIs(t, err, zerrors.ErrContextUnavailable)

	_, err = z.NewDCtx(failingAllocator{})
	require.ErrorIs(t, err, zerrors.ErrContextUnavailable)
}

func TestEncoderLevelMapping(t *testing.T) {
	require.Equal(t, zstd.SpeedFastest, encoderLevel(-1))
	require.Equal(t, zstd.SpeedFastest, encoderLevel(-1000))
	require.Equal(t, zstd.SpeedFastest, encoderLevel(1))
	require.Equal(t, zstd.SpeedDefault, encoderLevel(3))
	require.Equal(t, zstd.SpeedBestCompression, encoderLevel(19))
}
