// Package persist serializes an assembled CsxMatrix to a byte stream and
// back, with an optional generic compressor layered on top of the encoded
// control stream and values array. The geometric encoding already strips
// most of the redundancy a general-purpose compressor would find, but long
// delta-list runs and repeated small pattern deltas still compress well in
// practice, so the layering mirrors the encode-then-compress split the rest
// of this module's corpus uses for its own payloads.
package persist

import (
	"fmt"

	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
)

// Compressor compresses a byte slice for storage or transmission.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Implementations must be safe for
// concurrent use since a single codec instance is shared across partitions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec builds a Codec for the given compression type. target
// names the caller in the error returned for an unsupported type.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %s (%s)", errs.ErrUnsupportedCompression, compressionType, target)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// CompressionStats reports the effect of compressing one section of a
// persisted matrix, useful for choosing a compression type per workload.
type CompressionStats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns CompressedSize / OriginalSize; values below 1.0 indicate a
// net size reduction.
func (s CompressionStats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the percentage of bytes saved, 0-100.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}
