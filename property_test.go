package csx

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocsx/csx/format"
)

// randomSparseMatrix builds a numRows x numCols coordinate set at roughly
// density nonzeros per cell, biased toward the runs and blocks the planner
// is meant to discover rather than pure scatter, so the property suite
// actually exercises pattern encoding and not just the plain fallback.
func randomSparseMatrix(rng *rand.Rand, numRows, numCols int) []Coord {
	seen := make(map[[2]int]bool)
	var coords []Coord

	add := func(row, col int) {
		if row < 1 || row > numRows || col < 1 || col > numCols {
			return
		}
		key := [2]int{row, col}
		if seen[key] {
			return
		}
		seen[key] = true
		coords = append(coords, Coord{Row: row, Col: col, Val: rng.Float64()*100 - 50})
	}

	// A handful of dense row/diagonal runs so most trials actually produce
	// pattern units.
	for n := rng.Intn(3); n >= 0; n-- {
		row := rng.Intn(numRows) + 1
		start := rng.Intn(numCols) + 1
		length := rng.Intn(numCols-start+1) + 1
		for i := 0; i < length; i++ {
			add(row, start+i)
		}
	}
	for n := rng.Intn(2); n >= 0; n-- {
		start := rng.Intn(min(numRows, numCols)) + 1
		length := rng.Intn(min(numRows, numCols)-start+1) + 1
		for i := 0; i < length; i++ {
			add(start+i, start+i)
		}
	}

	// Plain scattered noise on top.
	extraRange := numRows * numCols / 3
	if extraRange <= 0 {
		return coords
	}
	extra := rng.Intn(extraRange)
	for i := 0; i < extra; i++ {
		add(rng.Intn(numRows)+1, rng.Intn(numCols)+1)
	}

	return coords
}

func sortedCopy(coords []Coord) []Coord {
	out := append([]Coord(nil), coords...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func TestProperty_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		numRows := rng.Intn(20) + 1
		numCols := rng.Intn(20) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)

		decoded, err := Decode(mat, DefaultOptions())
		require.NoError(t, err)

		require.Equal(t, sortedCopy(coords), sortedCopy(decoded))
	}
}

func TestProperty_ValueOrdering(t *testing.T) {
	// The i-th nonzero decoding yields in row-major order equals values[i]:
	// decode the raw control stream ourselves and compare it positionally
	// against mat.Values before any sort.Slice reordering.
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		numRows := rng.Intn(15) + 1
		numCols := rng.Intn(15) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)

		decoded, err := Decode(mat, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, decoded, len(mat.Values))

		for i, c := range decoded {
			require.Equal(t, mat.Values[i], c.Val)
		}
	}
}

func TestProperty_SizeConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 100; trial++ {
		numRows := rng.Intn(20) + 1
		numCols := rng.Intn(20) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, len(coords), mat.NNZ)

		decoded, err := Decode(mat, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, decoded, mat.NNZ)
		require.Len(t, mat.Values, mat.NNZ)
	}
}

func TestProperty_SpanUpperBound(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	for trial := 0; trial < 100; trial++ {
		numRows := rng.Intn(20) + 2
		numCols := rng.Intn(20) + 2
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)

		for row, info := range mat.RowsInfo {
			require.GreaterOrEqual(t, info.Span, 0)
			require.LessOrEqual(t, row+1+info.Span, numRows+1,
				"row %d span %d reaches past the matrix", row+1, info.Span)
		}
	}
}

func TestProperty_Determinism(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))

	for trial := 0; trial < 50; trial++ {
		numRows := rng.Intn(20) + 1
		numCols := rng.Intn(20) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		opts := DefaultOptions()
		m1, err := Encode(numRows, numCols, coords, opts)
		require.NoError(t, err)
		m2, err := Encode(numRows, numCols, coords, opts)
		require.NoError(t, err)

		require.Equal(t, m1.Ctl, m2.Ctl)
		require.Equal(t, m1.Values, m2.Values)
		require.Equal(t, m1.IDMap, m2.IDMap)
	}
}

func TestProperty_FlagMonotonicity(t *testing.T) {
	// Flags are assigned in first-appearance order and id_map is
	// terminated with -1 at k = n_distinct_patterns.
	rng := rand.New(rand.NewSource(55))

	for trial := 0; trial < 50; trial++ {
		numRows := rng.Intn(20) + 1
		numCols := rng.Intn(20) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)
		require.NotEmpty(t, mat.IDMap)
		require.Equal(t, int64(-1), mat.IDMap[len(mat.IDMap)-1])

		for _, id := range mat.IDMap[:len(mat.IDMap)-1] {
			require.NotEqual(t, int64(-1), id)
		}

		seen := make(map[int64]bool)
		for _, id := range mat.IDMap[:len(mat.IDMap)-1] {
			require.False(t, seen[id], "pattern id %d assigned a flag twice", id)
			seen[id] = true
		}
	}
}

func TestProperty_DeltaWidthMinimality(t *testing.T) {
	// A row of isolated columns spaced to force each fixed width in turn;
	// the resulting delta-list unit's pattern id must name that width, and
	// it must be the narrowest width the actual deltas fit in.
	widths := []struct {
		gap         int
		expectWidth int
	}{
		{gap: 1, expectWidth: 1},
		{gap: 300, expectWidth: 2},
		{gap: 70000, expectWidth: 4},
	}

	for _, w := range widths {
		var coords []Coord
		col := 1
		for i := 0; i < 5; i++ {
			coords = append(coords, Coord{Row: 1, Col: col, Val: float64(i + 1)})
			col += w.gap
		}

		opts := DefaultOptions()
		opts.MinLimit = 1000 // force every run to stay a delta-list, never a pattern

		mat, err := Encode(1, col, coords, opts)
		require.NoError(t, err)
		require.Len(t, mat.IDMap, 2) // one delta-list width, plus the -1 terminator

		width, ok := format.DecodeDeltaListPatternID(mat.IDMap[0])
		require.True(t, ok)
		require.Equal(t, w.expectWidth, width)
	}
}

func TestProperty_PlannerMonotonicity(t *testing.T) {
	// Restates the planner-monotonicity property at the public API's
	// level: a matrix the planner fully reduces to
	// patterns must still round-trip and conserve size, i.e. monotonic
	// score descent never loses or duplicates a nonzero.
	rng := rand.New(rand.NewSource(2024))

	for trial := 0; trial < 50; trial++ {
		numRows := rng.Intn(20) + 1
		numCols := rng.Intn(20) + 1
		coords := randomSparseMatrix(rng, numRows, numCols)
		if len(coords) == 0 {
			continue
		}

		mat, err := Encode(numRows, numCols, coords, DefaultOptions())
		require.NoError(t, err)

		decoded, err := Decode(mat, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, sortedCopy(coords), sortedCopy(decoded))
	}
}
