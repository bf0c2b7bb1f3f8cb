package persist

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/endian"
)

var eng = endian.LittleEndian()

// magic identifies a persisted CsxMatrix blob and doubles as a format
// version: a reader that sees an unrecognized magic knows immediately it is
// looking at a different (or future, incompatible) layout rather than
// corrupted data.
var magic = [4]byte{'C', 'S', 'X', '1'}

const headerSize = 4 + 1 + 8*4 + 1 + 8*4 + 8 // magic+compression+4 dims+rowjumps+4 lengths+checksum

// Save serializes mat into a self-contained blob, compressing the payload
// (control stream, values, row index and pattern map) with codecType.
func Save(mat *assembler.CsxMatrix, codecType format.CompressionType) ([]byte, error) {
	codec, err := CreateCodec(codecType, "persist.Save")
	if err != nil {
		return nil, err
	}

	payload := encodePayload(mat)

	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("csx: compress payload: %w", err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, magic[:]...)
	header = append(header, byte(codecType))
	header = eng.AppendUint64(header, uint64(mat.NNZ))     //nolint:gosec
	header = eng.AppendUint64(header, uint64(mat.NumRows)) //nolint:gosec
	header = eng.AppendUint64(header, uint64(mat.NumCols)) //nolint:gosec
	header = eng.AppendUint64(header, uint64(mat.RowStart)) //nolint:gosec
	if mat.RowJumps {
		header = append(header, 1)
	} else {
		header = append(header, 0)
	}
	header = eng.AppendUint64(header, uint64(len(mat.Ctl)))      //nolint:gosec
	header = eng.AppendUint64(header, uint64(len(mat.Values)))   //nolint:gosec
	header = eng.AppendUint64(header, uint64(len(mat.RowsInfo))) //nolint:gosec
	header = eng.AppendUint64(header, uint64(len(mat.IDMap)))    //nolint:gosec
	header = eng.AppendUint64(header, xxhash.Sum64(payload))

	out := make([]byte, 0, len(header)+len(compressed))
	out = append(out, header...)
	out = append(out, compressed...)

	return out, nil
}

// Load reverses Save, verifying the payload checksum before returning.
func Load(data []byte) (*assembler.CsxMatrix, error) {
	if len(data) < headerSize || [4]byte(data[0:4]) != magic {
		return nil, fmt.Errorf("csx: %w: bad header", errs.ErrEncodingOverflow)
	}

	codecType := format.CompressionType(data[4])
	off := 5

	readU64 := func() uint64 {
		v := eng.Uint64(data[off:])
		off += 8

		return v
	}

	nnz := int(readU64())
	numRows := int(readU64())
	numCols := int(readU64())
	rowStart := int(readU64())
	rowJumps := data[off] != 0
	off++
	ctlLen := int(readU64())
	valuesLen := int(readU64())
	rowsInfoLen := int(readU64())
	idMapLen := int(readU64())
	checksum := readU64()

	codec, err := CreateCodec(codecType, "persist.Load")
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(data[off:])
	if err != nil {
		return nil, fmt.Errorf("csx: decompress payload: %w", err)
	}

	if xxhash.Sum64(payload) != checksum {
		return nil, fmt.Errorf("csx: %w: checksum mismatch", errs.ErrEncodingOverflow)
	}

	mat := &assembler.CsxMatrix{
		NNZ:      nnz,
		NumRows:  numRows,
		NumCols:  numCols,
		RowStart: rowStart,
		RowJumps: rowJumps,
	}

	r := bytes.NewReader(payload)

	mat.Ctl = make([]byte, ctlLen)
	if _, err := io.ReadFull(r, mat.Ctl); err != nil {
		return nil, fmt.Errorf("csx: %w: truncated ctl", errs.ErrEncodingOverflow)
	}

	mat.Values = make([]float64, valuesLen)
	var buf8 [8]byte
	for i := range mat.Values {
		if _, err := io.ReadFull(r, buf8[:]); err != nil {
			return nil, fmt.Errorf("csx: %w: truncated values", errs.ErrEncodingOverflow)
		}
		mat.Values[i] = math.Float64frombits(eng.Uint64(buf8[:]))
	}

	mat.RowsInfo = make([]assembler.RowInfo, rowsInfoLen)
	for i := range mat.RowsInfo {
		var a, b, c [8]byte
		if _, err := io.ReadFull(r, a[:]); err != nil {
			return nil, fmt.Errorf("csx: %w: truncated row info", errs.ErrEncodingOverflow)
		}
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("csx: %w: truncated row info", errs.ErrEncodingOverflow)
		}
		if _, err := io.ReadFull(r, c[:]); err != nil {
			return nil, fmt.Errorf("csx: %w: truncated row info", errs.ErrEncodingOverflow)
		}
		mat.RowsInfo[i] = assembler.RowInfo{
			CtlOffset:   int(eng.Uint64(a[:])),
			ValueOffset: int(eng.Uint64(b[:])),
			Span:        int(eng.Uint64(c[:])),
		}
	}

	mat.IDMap = make([]int64, idMapLen)
	for i := range mat.IDMap {
		if _, err := io.ReadFull(r, buf8[:]); err != nil {
			return nil, fmt.Errorf("csx: %w: truncated id map", errs.ErrEncodingOverflow)
		}
		mat.IDMap[i] = int64(eng.Uint64(buf8[:])) //nolint:gosec
	}

	return mat, nil
}

func encodePayload(mat *assembler.CsxMatrix) []byte {
	var buf bytes.Buffer
	buf.Grow(len(mat.Ctl) + len(mat.Values)*8 + len(mat.RowsInfo)*24 + len(mat.IDMap)*8)

	buf.Write(mat.Ctl)

	var tmp [8]byte
	for _, v := range mat.Values {
		eng.PutUint64(tmp[:], math.Float64bits(v))
		buf.Write(tmp[:])
	}

	for _, ri := range mat.RowsInfo {
		eng.PutUint64(tmp[:], uint64(ri.CtlOffset)) //nolint:gosec
		buf.Write(tmp[:])
		eng.PutUint64(tmp[:], uint64(ri.ValueOffset)) //nolint:gosec
		buf.Write(tmp[:])
		eng.PutUint64(tmp[:], uint64(ri.Span)) //nolint:gosec
		buf.Write(tmp[:])
	}

	for _, id := range mat.IDMap {
		eng.PutUint64(tmp[:], uint64(id)) //nolint:gosec
		buf.Write(tmp[:])
	}

	return buf.Bytes()
}
