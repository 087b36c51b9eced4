package ports

import "github.com/iamNilotpal/zblock/pkg/levels"

// Defines the interface for per-block compression operations.
// This allows us to swap the adapter implementation without changing
// the upstream dispatcher wiring.
type BlockCompressor interface {
	// Compress frames the compressed form of src into dst and returns the
	// total bytes written. A return equal to len(src) means compression
	// was declined and the block should be stored raw.
	Compress(dst, src []byte, level levels.Level) int

	// Decompress expands the frame in src into dst.
	Decompress(dst, src []byte) error

	// DecompressLevel decompresses and reports the level the frame was
	// written with.
	DecompressLevel(dst, src []byte) (levels.Level, error)

	// GetLevel inspects a frame's stored level without decompressing.
	GetLevel(src []byte) (levels.Level, error)

	// Close releases pools, the fallback reservation, and codec state.
	Close() error
}
