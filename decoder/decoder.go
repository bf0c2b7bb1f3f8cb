// Package decoder implements a reference decoder for the control stream:
// given an assembled CsxMatrix and the configuration it was built with, it
// reconstructs the original coordinate triples. It exists to make the
// format's round-trip and determinism properties testable, not as a
// performance-sensitive runtime path.
package decoder

import (
	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/element"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/varint"
	"github.com/gocsx/csx/partition"
)

// Decode walks mat.Ctl and reconstructs every nonzero it describes, in the
// same row-major order make_csx consumed them, as partition-local (1-based)
// coordinate triples.
func Decode(mat *assembler.CsxMatrix, opts format.Options) ([]partition.Coord, error) {
	out := make([]partition.Coord, 0, mat.NNZ)

	data := mat.Ctl
	offset := 0
	valueIdx := 0
	currentRow := 0
	lastCol := 0
	firstUnit := true

	for offset < len(data) {
		if offset+2 > len(data) {
			return nil, errs.ErrEncodingOverflow
		}

		flags := data[offset]
		size := int(data[offset+1])
		offset += 2

		rj := flags&format.CtlRJMP != 0
		nr := flags&format.CtlNR != 0
		flag := flags & format.CtlFlagMask

		if rj {
			rowJump, next, ok := varint.ReadUvarint(data, offset)
			if !ok {
				return nil, errs.ErrEncodingOverflow
			}
			offset = next
			currentRow += int(rowJump) //nolint:gosec
		} else if nr {
			currentRow++
		}

		if currentRow == 0 {
			currentRow = 1
		}

		if rj || nr || firstUnit {
			lastCol = 0
		}
		firstUnit = false

		var colRefVal uint64
		if opts.FullColumnIndices {
			offset = alignTo(offset, opts.IndexWidth)

			u, next, ok := varint.ReadFixedUnsigned(data, offset, opts.IndexWidth)
			if !ok {
				return nil, errs.ErrEncodingOverflow
			}
			colRefVal = u
			offset = next
		} else {
			u, next, ok := varint.ReadUvarint(data, offset)
			if !ok {
				return nil, errs.ErrEncodingOverflow
			}
			colRefVal = u
			offset = next
		}

		var startCol int
		if opts.FullColumnIndices {
			startCol = int(colRefVal) + 1 //nolint:gosec
		} else {
			startCol = lastCol + int(colRefVal) //nolint:gosec
		}

		if int(flag) >= len(mat.IDMap) {
			return nil, errs.ErrEncodingOverflow
		}
		patternID := mat.IDMap[flag]

		if width, ok := format.DecodeDeltaListPatternID(patternID); ok {
			offset = alignTo(offset, width)

			cols := make([]int, size)
			cols[0] = startCol

			for i := 1; i < size; i++ {
				d, next, ok := varint.ReadFixedUnsigned(data, offset, width)
				if !ok {
					return nil, errs.ErrEncodingOverflow
				}
				offset = next
				cols[i] = cols[i-1] + int(d) //nolint:gosec
			}

			for i := 0; i < size; i++ {
				if valueIdx >= len(mat.Values) {
					return nil, errs.ErrEncodingOverflow
				}
				out = append(out, partition.Coord{Row: currentRow, Col: cols[i], Val: mat.Values[valueIdx]})
				valueIdx++
			}

			lastCol = cols[size-1]

			continue
		}

		typ, delta, ok := format.DecodePatternID(patternID)
		if !ok {
			return nil, errs.ErrEncodingOverflow
		}

		desc := element.PatternDescriptor{Type: typ, Delta: delta, Size: size}
		for i := 0; i < size; i++ {
			r, c := desc.Coord(currentRow, startCol, i)
			if valueIdx >= len(mat.Values) {
				return nil, errs.ErrEncodingOverflow
			}
			out = append(out, partition.Coord{Row: r, Col: c, Val: mat.Values[valueIdx]})
			valueIdx++
		}

		lastCol = desc.LastCol(startCol)
	}

	return out, nil
}

func alignTo(offset, width int) int {
	if width <= 1 {
		return offset
	}

	pad := (width - offset%width) % width

	return offset + pad
}
