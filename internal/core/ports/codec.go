package ports

// Defines the dependency surface required of the compression codec.
// The codec is consumed as a black box: the adapter supplies allocators
// and buffers, the codec supplies the transform. This allows swapping
// codec implementations without touching the framing or pooling logic.

// CompressionContext is one in-flight compression. Its working memory was
// obtained through the adapter's allocator at creation; Close returns it.
type CompressionContext interface {
	// Compress writes the compressed form of src into dst at the level
	// selected by the signed cookie. Returns the number of bytes written,
	// or an error if dst cannot hold the output or the codec fails.
	Compress(dst, src []byte, cookie int32) (int, error)

	// Close releases the context's working memory.
	Close()
}

// DecompressionContext is one in-flight decompression.
type DecompressionContext interface {
	// Decompress expands src into dst, returning the decompressed size.
	Decompress(dst, src []byte) (int, error)

	// Close releases the context's working memory.
	Close()
}

// Codec creates contexts backed by adapter-supplied memory.
type Codec interface {
	// NewCCtx creates a compression context. Fails when mem declines the
	// workspace allocation.
	NewCCtx(mem ContextAllocator) (CompressionContext, error)

	// NewDCtx creates a decompression context. Fails when mem declines the
	// workspace allocation.
	NewDCtx(mem ContextAllocator) (DecompressionContext, error)

	// EstimateDCtxSize reports the workspace size a decompression context
	// needs. The fallback reservation is sized from this at init.
	EstimateDCtxSize() int

	// Close releases codec-internal state shared across contexts.
	Close() error
}
