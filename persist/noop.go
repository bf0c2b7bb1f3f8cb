package persist

// NoOpCodec bypasses compression entirely. Useful when the control stream
// is already near-incompressible (heavy block/diagonal substructure tends
// to leave little redundancy for a byte-level compressor to find) or when
// CPU matters more than on-disk size.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

// NewNoOpCodec returns a codec that returns its input unchanged.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
