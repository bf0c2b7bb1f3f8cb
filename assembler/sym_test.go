package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocsx/csx/encodeplan"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
)

func TestMakeCsxSym_WrapsDiagonalAndLowerTriangle(t *testing.T) {
	diagonal := []float64{1, 2, 3}
	lowerCoords := []partition.Coord{
		{Row: 2, Col: 1, Val: 21},
		{Row: 3, Col: 1, Val: 31},
		{Row: 3, Col: 2, Val: 32},
	}

	p, err := partition.NewFromCoords(0, 3, 3, lowerCoords)
	require.NoError(t, err)

	opts := format.DefaultOptions()
	encodeplan.Plan(p, opts)

	sym, err := MakeCsxSym(diagonal, p, opts)
	require.NoError(t, err)
	require.Equal(t, diagonal, sym.DValues)
	require.Equal(t, 3, sym.Lower.NNZ)

	// Mutating the input diagonal after the call must not affect the copy.
	diagonal[0] = 999
	require.NotEqual(t, diagonal[0], sym.DValues[0])
}
