package encodeplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
	"github.com/gocsx/csx/stats"
)

func rowOfOnes(n int) []partition.Coord {
	out := make([]partition.Coord, n)
	for i := 0; i < n; i++ {
		out[i] = partition.Coord{Row: 1, Col: i + 1, Val: float64(i + 1)}
	}
	return out
}

func TestEncode_HorizontalDenseRun_BecomesOnePattern(t *testing.T) {
	// Scenario A: a full dense row of 8, min_limit=4.
	p, err := partition.NewFromCoords(0, 1, 8, rowOfOnes(8))
	require.NoError(t, err)

	table := stats.Generate(p, 4)
	filtered := stats.Filter(table, p.NumNonzeros(), 0.1)
	require.NotEmpty(t, filtered)

	opts := format.DefaultOptions()
	Encode(p, format.Horizontal, filtered, opts)

	require.Equal(t, format.Horizontal, p.Type())
	elems := p.Elements()
	require.Len(t, elems, 1)
	require.True(t, elems[0].IsPattern())
	require.Equal(t, 8, elems[0].Size())
	require.Equal(t, 1, elems[0].Row)
	require.Equal(t, 1, elems[0].Col)
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, elems[0].Values)
}

func TestEncode_MaxLimitChunksLongRun(t *testing.T) {
	p, err := partition.NewFromCoords(0, 1, 10, rowOfOnes(10))
	require.NoError(t, err)

	opts := format.DefaultOptions()
	opts.MaxLimit = 6
	opts.MinLimit = 2

	table := stats.Generate(p, opts.MinLimit)
	filtered := stats.Filter(table, p.NumNonzeros(), 0.0)

	Encode(p, format.Horizontal, filtered, opts)

	elems := p.Elements()
	require.Len(t, elems, 2)
	require.Equal(t, 6, elems[0].Size())
	require.Equal(t, 4, elems[1].Size())
	require.Equal(t, 1, elems[0].Col)
	require.Equal(t, 7, elems[1].Col)
}

func TestEncode_BelowMinLimit_StaysPlain(t *testing.T) {
	// Scenario C: a scattered row, no run clears min_limit.
	p, err := partition.NewFromCoords(0, 1, 10, []partition.Coord{
		{Row: 1, Col: 1, Val: 1},
		{Row: 1, Col: 3, Val: 2},
		{Row: 1, Col: 5, Val: 3},
		{Row: 1, Col: 9, Val: 4},
		{Row: 1, Col: 10, Val: 5},
	})
	require.NoError(t, err)

	opts := format.DefaultOptions()
	table := stats.Generate(p, opts.MinLimit)
	filtered := stats.Filter(table, p.NumNonzeros(), opts.MinPerc)

	Encode(p, format.Horizontal, filtered, opts)

	for _, e := range p.Elements() {
		require.False(t, e.IsPattern())
	}
	require.Len(t, p.Elements(), 5)
}

func TestEncode_BlockRow2_EmitsBlockPattern(t *testing.T) {
	// Scenario E: a dense 4x2 aligned block, repeated to clear 2*k=4.
	var coords []partition.Coord
	for row := 1; row <= 4; row++ {
		for col := 1; col <= 2; col++ {
			coords = append(coords, partition.Coord{Row: row, Col: col, Val: float64(row*10 + col)})
		}
	}

	p, err := partition.NewFromCoords(0, 4, 2, coords)
	require.NoError(t, err)

	p.Transform(format.BlockRow2)
	table := stats.Generate(p, 4)
	filtered := stats.Filter(table, p.NumNonzeros(), 0.1)
	require.NotEmpty(t, filtered)
	p.Transform(format.Horizontal)

	opts := format.DefaultOptions()
	Encode(p, format.BlockRow2, filtered, opts)

	require.Equal(t, format.Horizontal, p.Type())

	var patterns int
	var total int
	for _, e := range p.Elements() {
		total += e.Size()
		if e.IsPattern() {
			patterns++
			require.Equal(t, format.BlockRow2, e.Pattern.Type)
		}
	}
	require.Equal(t, 8, total)
	require.GreaterOrEqual(t, patterns, 1)
}

func TestEncode_BlockRow2_ReabsorbsPredecessorAnchoredAwayFromOrigin(t *testing.T) {
	// Same layout as the stats regression test
	// TestGenerate_BlockRow2_CreditsRunNotAnchoredAtOrigin in package stats:
	// a lone nonzero at (1,1)
	// precedes a dense aligned 2x2 block at cols 2-3. The block run starts
	// at vcol 4, so the encoder must pop the already-emitted plain element
	// for (1,2) back off and fold it into the block; failing to credit the
	// extra reabsorbed element drops the whole candidate below the 2*k
	// threshold and the run is left entirely plain.
	p, err := partition.NewFromCoords(0, 2, 3, []partition.Coord{
		{Row: 1, Col: 1, Val: 1},
		{Row: 1, Col: 2, Val: 2}, {Row: 2, Col: 2, Val: 3},
		{Row: 1, Col: 3, Val: 4}, {Row: 2, Col: 3, Val: 5},
	})
	require.NoError(t, err)

	p.Transform(format.BlockRow2)
	table := stats.Generate(p, 4)
	filtered := stats.Filter(table, p.NumNonzeros(), 0.1)
	require.Contains(t, filtered, int64(2))
	p.Transform(format.Horizontal)

	opts := format.DefaultOptions()
	Encode(p, format.BlockRow2, filtered, opts)

	require.Equal(t, format.Horizontal, p.Type())

	elems := p.Elements()
	require.Len(t, elems, 2)

	require.False(t, elems[0].IsPattern())
	require.Equal(t, 1, elems[0].Row)
	require.Equal(t, 1, elems[0].Col)
	require.Equal(t, 1.0, elems[0].Value())

	require.True(t, elems[1].IsPattern())
	require.Equal(t, format.BlockRow2, elems[1].Pattern.Type)
	require.Equal(t, 4, elems[1].Size())
	require.Equal(t, 1, elems[1].Row)
	require.Equal(t, 2, elems[1].Col)
	require.Equal(t, []float64{2, 3, 4, 5}, elems[1].Values)

	total := 0
	for _, e := range elems {
		total += e.Size()
	}
	require.Equal(t, 5, total)
}

func TestEncode_Diagonal_IdentityBecomesOnePattern(t *testing.T) {
	// Scenario B.
	var coords []partition.Coord
	for i := 1; i <= 6; i++ {
		coords = append(coords, partition.Coord{Row: i, Col: i, Val: float64(i)})
	}

	p, err := partition.NewFromCoords(0, 6, 6, coords)
	require.NoError(t, err)

	p.Transform(format.Diagonal)
	table := stats.Generate(p, 4)
	filtered := stats.Filter(table, p.NumNonzeros(), 0.1)
	p.Transform(format.Horizontal)

	opts := format.DefaultOptions()
	Encode(p, format.Diagonal, filtered, opts)

	elems := p.Elements()
	require.Len(t, elems, 1)
	require.True(t, elems[0].IsPattern())
	require.Equal(t, format.Diagonal, elems[0].Pattern.Type)
	require.Equal(t, 6, elems[0].Size())
}
