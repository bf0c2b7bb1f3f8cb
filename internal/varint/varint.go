// Package varint implements the two integer codecs the control-stream
// builder needs: a base-128 unsigned varint (used for row jump counts and
// column references, where small values dominate) and a smallest-fit
// fixed-width packer (used for column deltas and full-index column
// references, where a whole run shares one
// width so the decoder can stride through it without per-element tag bytes).
package varint

import (
	"encoding/binary"

	"github.com/gocsx/csx/internal/endian"
)

var eng = endian.LittleEndian()

// AppendUvarint appends the base-128 little-endian varint encoding of v to
// dst and returns the extended slice. Single-byte values take a direct
// append; larger values fall back to the standard library encoder.
func AppendUvarint(dst []byte, v uint64) []byte {
	if v <= 0x7F {
		return append(dst, byte(v))
	}

	return binary.AppendUvarint(dst, v)
}

// ReadUvarint decodes a base-128 varint from data starting at offset. It
// returns the decoded value, the offset just past the varint, and false if
// data is exhausted before the varint terminates.
func ReadUvarint(data []byte, offset int) (uint64, int, bool) {
	if offset >= len(data) {
		return 0, offset, false
	}

	cur := offset
	b0 := data[cur]
	cur++
	if b0 < 0x80 {
		return uint64(b0), cur, true
	}

	shift := uint(7)
	value := uint64(b0 & 0x7F)
	for i := 1; i < binary.MaxVarintLen64; i++ {
		if cur >= len(data) {
			return 0, offset, false
		}

		b := data[cur]
		cur++
		value |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return value, cur, true
		}
		shift += 7
	}

	return 0, offset, false
}

// FixedWidths enumerates the control-stream's fixed widths, narrowest
// first. A run of values is packed at the narrowest width that fits every
// element, never per-element.
var FixedWidths = [4]int{1, 2, 4, 8}

// SmallestFitWidth returns the narrowest width in FixedWidths that can hold
// every value in vs without truncation. An empty vs fits in 1 byte.
func SmallestFitWidth(vs []int64) int {
	width := 1
	for _, v := range vs {
		for width < 8 && !fitsWidth(v, width) {
			width *= 2
		}
	}

	return width
}

// SmallestFitWidthUnsigned is SmallestFitWidth for non-negative magnitudes,
// used for column-delta runs which the assembler always packs unsigned.
func SmallestFitWidthUnsigned(vs []int64) int {
	width := 1
	for _, v := range vs {
		for width < 8 && !fitsWidthUnsigned(v, width) {
			width *= 2
		}
	}

	return width
}

func fitsWidth(v int64, width int) bool {
	switch width {
	case 1:
		return v >= -(1<<7) && v < 1<<7
	case 2:
		return v >= -(1<<15) && v < 1<<15
	case 4:
		return v >= -(1<<31) && v < 1<<31
	default:
		return true
	}
}

func fitsWidthUnsigned(v int64, width int) bool {
	switch width {
	case 1:
		return v >= 0 && v < 1<<8
	case 2:
		return v >= 0 && v < 1<<16
	case 4:
		return v >= 0 && v < 1<<32
	default:
		return v >= 0
	}
}

// AppendFixedUnsigned appends v to dst as an unsigned little-endian integer
// of the given width (1, 2, 4 or 8 bytes).
func AppendFixedUnsigned(dst []byte, v uint64, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return eng.AppendUint16(dst, uint16(v))
	case 4:
		return eng.AppendUint32(dst, uint32(v))
	case 8:
		return eng.AppendUint64(dst, v)
	default:
		panic("varint: invalid fixed width")
	}
}

// AppendFixedSigned appends v to dst as a signed little-endian two's
// complement integer of the given width.
func AppendFixedSigned(dst []byte, v int64, width int) []byte {
	return AppendFixedUnsigned(dst, uint64(v), width) //nolint:gosec
}

// ReadFixedUnsigned reads an unsigned little-endian integer of the given
// width from data at offset. It returns false if data is too short.
func ReadFixedUnsigned(data []byte, offset, width int) (uint64, int, bool) {
	if offset+width > len(data) {
		return 0, offset, false
	}

	switch width {
	case 1:
		return uint64(data[offset]), offset + 1, true
	case 2:
		return uint64(eng.Uint16(data[offset:])), offset + 2, true
	case 4:
		return uint64(eng.Uint32(data[offset:])), offset + 4, true
	case 8:
		return eng.Uint64(data[offset:]), offset + 8, true
	default:
		panic("varint: invalid fixed width")
	}
}

// ReadFixedSigned reads a signed little-endian two's complement integer of
// the given width from data at offset, sign-extended to int64.
func ReadFixedSigned(data []byte, offset, width int) (int64, int, bool) {
	u, next, ok := ReadFixedUnsigned(data, offset, width)
	if !ok {
		return 0, offset, false
	}

	switch width {
	case 1:
		return int64(int8(u)), next, true //nolint:gosec
	case 2:
		return int64(int16(u)), next, true //nolint:gosec
	case 4:
		return int64(int32(u)), next, true //nolint:gosec
	default:
		return int64(u), next, true //nolint:gosec
	}
}
