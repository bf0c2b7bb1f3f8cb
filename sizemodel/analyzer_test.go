package sizemodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/encodeplan"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
)

func TestAnalyze_RejectsTooFewSamples(t *testing.T) {
	_, err := Analyze([]Sample{{Density: 0.1, BytesPerNonzero: 4}})
	require.Error(t, err)

	_, err = Analyze(nil)
	require.Error(t, err)
}

func TestAnalyze_RecoversKnownLinearRelationship(t *testing.T) {
	// bpnz = 2 + 3*density, sampled exactly (no noise).
	samples := make([]Sample, 0, 20)
	for i := 1; i <= 20; i++ {
		d := float64(i) / 100
		samples = append(samples, Sample{Density: d, BytesPerNonzero: 2 + 3*d})
	}

	result, err := Analyze(samples)
	require.NoError(t, err)
	require.NotNil(t, result.BestFit)
	require.Len(t, result.AllModels, 5)

	// An exact linear relationship should fit the polynomial model (which
	// degrades gracefully toward linear) essentially perfectly.
	require.GreaterOrEqual(t, result.BestFit.RSquared, 0.999)

	// Models are ranked by R² descending.
	for i := 1; i < len(result.AllModels); i++ {
		require.GreaterOrEqual(t, result.AllModels[i-1].RSquared, result.AllModels[i].RSquared)
	}
}

func TestAnalyze_RecoversKnownPowerRelationship(t *testing.T) {
	// bpnz = 5 * density^(-0.5), a decent proxy for "sparser costs more
	// bytes per nonzero".
	samples := make([]Sample, 0, 20)
	for i := 1; i <= 20; i++ {
		d := float64(i) / 100
		samples = append(samples, Sample{Density: d, BytesPerNonzero: 5 * math.Pow(d, -0.5)})
	}

	result, err := Analyze(samples)
	require.NoError(t, err)
	require.Equal(t, ModelTypePower, result.BestFit.Type)
	require.InDelta(t, 5.0, result.BestFit.Coefficients[0], 0.1)
	require.InDelta(t, -0.5, result.BestFit.Coefficients[1], 0.05)
}

func TestModel_EstimatorPredictsConsistentlyWithFormula(t *testing.T) {
	samples := []Sample{
		{Density: 0.01, BytesPerNonzero: 9.1},
		{Density: 0.05, BytesPerNonzero: 5.3},
		{Density: 0.1, BytesPerNonzero: 4.0},
		{Density: 0.2, BytesPerNonzero: 3.1},
		{Density: 0.5, BytesPerNonzero: 2.2},
	}

	result, err := Analyze(samples)
	require.NoError(t, err)

	got := result.BestFit.Estimator.Estimate(0.1)
	require.False(t, math.IsNaN(got))
	require.False(t, math.IsInf(got, 0))
}

func sizeSampleMatrix(t *testing.T, row, col int, n int) *assembler.CsxMatrix {
	t.Helper()

	var coords []partition.Coord
	for i := 1; i <= n; i++ {
		coords = append(coords, partition.Coord{Row: row, Col: i, Val: float64(i)})
	}

	p, err := partition.NewFromCoords(0, row, col, coords)
	require.NoError(t, err)

	opts := format.DefaultOptions()
	encodeplan.Plan(p, opts)

	mat, err := assembler.MakeCsx(p, opts)
	require.NoError(t, err)

	return mat
}

func TestSamplesFromMatrices_ComputesDensityAndBytesPerNonzero(t *testing.T) {
	mat := sizeSampleMatrix(t, 1, 10, 10)

	samples := SamplesFromMatrices([]*assembler.CsxMatrix{mat})
	require.Len(t, samples, 1)

	wantDensity := float64(mat.NNZ) / float64(mat.NumRows*mat.NumCols)
	require.InDelta(t, wantDensity, samples[0].Density, 1e-9)

	wantBPNZ := (float64(len(mat.Ctl)) + float64(len(mat.Values))*8) / float64(mat.NNZ)
	require.InDelta(t, wantBPNZ, samples[0].BytesPerNonzero, 1e-9)
}

func TestSamplesFromMatrices_SkipsEmptyMatrices(t *testing.T) {
	empty, err := assembler.MakeCsx(mustEmptyPartition(t), format.DefaultOptions())
	require.NoError(t, err)

	samples := SamplesFromMatrices([]*assembler.CsxMatrix{empty})
	require.Empty(t, samples)
}

func mustEmptyPartition(t *testing.T) *partition.SparsePartition {
	t.Helper()

	p, err := partition.NewFromCoords(0, 3, 3, nil)
	require.NoError(t, err)

	encodeplan.Plan(p, format.DefaultOptions())

	return p
}

func TestModelTypeFromString_RoundTrips(t *testing.T) {
	for _, mt := range []ModelType{
		ModelTypeHyperbolic,
		ModelTypeLogarithmic,
		ModelTypePower,
		ModelTypeExponential,
		ModelTypePolynomial,
	} {
		require.Equal(t, mt, ModelTypeFromString(mt.String()))
	}

	require.Equal(t, ModelType(-1), ModelTypeFromString("nonsense"))
}
