package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeltaEncode_DenseRowIsOneRun(t *testing.T) {
	cols := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	deltas := DeltaEncode(cols)
	require.Len(t, deltas, 10)

	value, count, ok := LongestRun(cols)
	require.True(t, ok)
	require.Equal(t, int64(1), value)
	require.Equal(t, 10, count)
}

func TestDeltaEncode_Empty(t *testing.T) {
	require.Nil(t, DeltaEncode(nil))
}

func TestDeltaEncode_FirstEntryIsAbsolute(t *testing.T) {
	cols := []int64{5, 7, 9}
	deltas := DeltaEncode(cols)
	require.Equal(t, []int64{5, 2, 2}, deltas)
}

func TestRunLengthEncode_Scattered(t *testing.T) {
	// cols {1, 3, 5, 9, 10}: deltas {1, 2, 2, 4, 1}
	cols := []int64{1, 3, 5, 9, 10}
	runs := RunLengthEncode(DeltaEncode(cols))
	require.Equal(t, []Run{
		{Value: 1, Count: 1},
		{Value: 2, Count: 2},
		{Value: 4, Count: 1},
		{Value: 1, Count: 1},
	}, runs)
}

func TestLongestRun_Empty(t *testing.T) {
	_, _, ok := LongestRun(nil)
	require.False(t, ok)
}

func TestLongestRun_TieKeepsFirst(t *testing.T) {
	// deltas: {3}(abs), then 1,1 then 2,2 -- first run of count 2 wins the tie.
	cols := []int64{3, 4, 5, 7, 9}
	value, count, ok := LongestRun(cols)
	require.True(t, ok)
	require.Equal(t, 2, count)
	require.Equal(t, int64(1), value)
}
