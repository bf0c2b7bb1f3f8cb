package assembler

import (
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
)

// CsxSymMatrix is the encoded output for a symmetric matrix: the main
// diagonal stored densely, plus the strictly-lower triangle encoded as an
// ordinary CsxMatrix. A decoder reconstructs the upper triangle by mirroring
// the lower one across the diagonal rather than storing it twice.
type CsxSymMatrix struct {
	DValues []float64
	Lower   *CsxMatrix
}

// MakeCsxSym assembles a CsxSymMatrix from a matrix's main diagonal and a
// partition already restricted to the strictly-lower triangle (every
// element's Row must exceed its Col; callers are responsible for that
// split, mirroring the original's GetLowerMatrix/GetDiagonal separation).
func MakeCsxSym(diagonal []float64, lower *partition.SparsePartition, opts format.Options) (*CsxSymMatrix, error) {
	lowerCsx, err := MakeCsx(lower, opts)
	if err != nil {
		return nil, err
	}

	dvalues := make([]float64, len(diagonal))
	copy(dvalues, diagonal)

	return &CsxSymMatrix{DValues: dvalues, Lower: lowerCsx}, nil
}
