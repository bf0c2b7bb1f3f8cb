package persist

import (
	"fmt"
	"math"

	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
)

// symMagic distinguishes a symmetric blob from a plain Matrix blob so Load
// can reject the wrong shape early instead of misreading the header.
var symMagic = [4]byte{'C', 'S', 'X', 'S'}

// SaveSym serializes mat's diagonal followed by its lower-triangle Matrix
// (via Save), prefixed with symMagic and the diagonal length.
func SaveSym(mat *assembler.CsxSymMatrix, codecType format.CompressionType) ([]byte, error) {
	lower, err := Save(mat.Lower, codecType)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 4+8+len(mat.DValues)*8+len(lower))
	out = append(out, symMagic[:]...)
	out = eng.AppendUint64(out, uint64(len(mat.DValues))) //nolint:gosec

	var tmp [8]byte
	for _, v := range mat.DValues {
		eng.PutUint64(tmp[:], math.Float64bits(v))
		out = append(out, tmp[:]...)
	}

	out = append(out, lower...)

	return out, nil
}

// LoadSym reverses SaveSym.
func LoadSym(data []byte) (*assembler.CsxSymMatrix, error) {
	if len(data) < 12 || [4]byte(data[0:4]) != symMagic {
		return nil, fmt.Errorf("csx: %w: bad symmetric header", errs.ErrEncodingOverflow)
	}

	n := int(eng.Uint64(data[4:12]))
	off := 12

	if len(data) < off+n*8 {
		return nil, fmt.Errorf("csx: %w: truncated diagonal", errs.ErrEncodingOverflow)
	}

	dvalues := make([]float64, n)
	for i := range dvalues {
		dvalues[i] = math.Float64frombits(eng.Uint64(data[off:]))
		off += 8
	}

	lower, err := Load(data[off:])
	if err != nil {
		return nil, err
	}

	return &assembler.CsxSymMatrix{DValues: dvalues, Lower: lower}, nil
}
