package persist

// ZstdCodec gives the best compression ratio of the built-in codecs, at the
// cost of slower compression. The best fit for cold-stored matrices that
// are written once and read rarely.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a Zstd codec. Compress/Decompress are implemented in
// zstd_pure.go (via klauspost/compress/zstd), with or without cgo; the
// valyala/gozstd variant in zstd_cgo.go is built only under the nobuild tag.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }
