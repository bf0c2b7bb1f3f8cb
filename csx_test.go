package csx

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocsx/csx/format"
)

func TestEncodeDecode_DenseRow_RoundTrips(t *testing.T) {
	var coords []Coord
	for i := 1; i <= 10; i++ {
		coords = append(coords, Coord{Row: 1, Col: i, Val: float64(i)})
	}

	mat, err := Encode(1, 10, coords, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []byte{0, 10, 1}, mat.Ctl)

	got, err := Decode(mat, DefaultOptions())
	require.NoError(t, err)
	require.ElementsMatch(t, coords, got)
}

func TestEncode_RejectsOutOfRangeCoordinate(t *testing.T) {
	_, err := Encode(2, 2, []Coord{{Row: 5, Col: 1, Val: 1}}, DefaultOptions())
	require.Error(t, err)
}

func TestEncode_RejectsDuplicateCoordinate(t *testing.T) {
	_, err := Encode(2, 2, []Coord{
		{Row: 1, Col: 1, Val: 1},
		{Row: 1, Col: 1, Val: 2},
	}, DefaultOptions())
	require.Error(t, err)
}

func TestEncodeParallel_ConcatenatesAllPartitions(t *testing.T) {
	var coords []Coord
	for row := 1; row <= 16; row++ {
		coords = append(coords, Coord{Row: row, Col: 1, Val: float64(row)})
	}

	mat, err := EncodeParallel(16, 1, coords, DefaultOptions(), 4)
	require.NoError(t, err)
	require.Len(t, mat.Partitions, 4)

	total := 0
	for _, part := range mat.Partitions {
		total += part.NNZ
	}
	require.Equal(t, 16, total)
}

func TestSaveLoad_RoundTripsThroughCompression(t *testing.T) {
	coords := []Coord{
		{Row: 1, Col: 1, Val: 1},
		{Row: 1, Col: 2, Val: 2},
		{Row: 3, Col: 4, Val: 3},
	}

	mat, err := Encode(5, 5, coords, DefaultOptions())
	require.NoError(t, err)

	blob, err := Save(mat, format.CompressionZstd)
	require.NoError(t, err)

	got, err := Load(blob)
	require.NoError(t, err)
	require.Equal(t, mat.Ctl, got.Ctl)
	require.Equal(t, mat.Values, got.Values)

	decoded, err := Decode(got, DefaultOptions())
	require.NoError(t, err)

	sort.Slice(decoded, func(i, j int) bool {
		if decoded[i].Row != decoded[j].Row {
			return decoded[i].Row < decoded[j].Row
		}
		return decoded[i].Col < decoded[j].Col
	})
	require.Equal(t, coords, decoded)
}
