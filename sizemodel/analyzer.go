package sizemodel

import (
	"fmt"
	"math"
	"slices"

	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/internal/pool"
)

// SamplesFromMatrices derives one (density, bytes-per-nonzero) sample per
// encoded matrix, skipping any with zero nonzeros (density and
// bytes-per-nonzero are both undefined there).
func SamplesFromMatrices(mats []*assembler.CsxMatrix) []Sample {
	samples := make([]Sample, 0, len(mats))

	for _, m := range mats {
		if m.NNZ == 0 || m.NumRows == 0 || m.NumCols == 0 {
			continue
		}

		encodedBytes := float64(len(m.Ctl)) + float64(len(m.Values))*8
		samples = append(samples, Sample{
			Density:         float64(m.NNZ) / float64(m.NumRows*m.NumCols),
			BytesPerNonzero: encodedBytes / float64(m.NNZ),
		})
	}

	return samples
}

// Analyze fits every candidate model to samples and returns the best fit
// by R², with every candidate ranked alongside it.
func Analyze(samples []Sample) (*Result, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("sizemodel: need at least 2 samples, got %d", len(samples))
	}

	x := make([]float64, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = s.Density
		y[i] = s.BytesPerNonzero
	}

	models := []*Model{
		fitHyperbolic(x, y),
		fitLogarithmic(x, y),
		fitPower(x, y),
		fitExponential(x, y),
		fitPolynomial(x, y),
	}

	slices.SortFunc(models, func(a, b *Model) int {
		switch {
		case a.RSquared > b.RSquared:
			return -1
		case a.RSquared < b.RSquared:
			return 1
		default:
			return 0
		}
	})

	return &Result{BestFit: models[0], AllModels: models}, nil
}

func fitHyperbolic(x, y []float64) *Model {
	n := len(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		xi := 1.0 / x[i]
		yi := y[i]
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	b := (sumXY - float64(n)*meanX*meanY) / (sumX2 - float64(n)*meanX*meanX)
	a := meanY - b*meanX

	predicted, cleanupPredicted := pool.GetFloat64Slice(n)
	defer cleanupPredicted()
	for i := range n {
		predicted[i] = a + b/x[i]
	}

	return &Model{
		Type:         ModelTypeHyperbolic,
		Coefficients: []float64{a, b},
		RSquared:     calculateRSquared(y, predicted),
		RMSE:         calculateRMSE(y, predicted),
		Formula:      fmt.Sprintf("bpnz = %.4f + %.4f / density", a, b),
		Estimator:    NewHyperbolicEstimator(a, b),
	}
}

func fitLogarithmic(x, y []float64) *Model {
	n := len(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		xi := math.Log(x[i])
		yi := y[i]
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	b := (sumXY - float64(n)*meanX*meanY) / (sumX2 - float64(n)*meanX*meanX)
	a := meanY - b*meanX

	predicted, cleanupPredicted := pool.GetFloat64Slice(n)
	defer cleanupPredicted()
	for i := range n {
		predicted[i] = a + b*math.Log(x[i])
	}

	return &Model{
		Type:         ModelTypeLogarithmic,
		Coefficients: []float64{a, b},
		RSquared:     calculateRSquared(y, predicted),
		RMSE:         calculateRMSE(y, predicted),
		Formula:      fmt.Sprintf("bpnz = %.4f + %.4f * ln(density)", a, b),
		Estimator:    NewLogarithmicEstimator(a, b),
	}
}

func fitPower(x, y []float64) *Model {
	n := len(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		xi := math.Log(x[i])
		yi := math.Log(y[i])
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	b := (sumXY - float64(n)*meanX*meanY) / (sumX2 - float64(n)*meanX*meanX)
	a := math.Exp(meanY - b*meanX)

	predicted, cleanupPredicted := pool.GetFloat64Slice(n)
	defer cleanupPredicted()
	for i := range n {
		predicted[i] = a * math.Pow(x[i], b)
	}

	return &Model{
		Type:         ModelTypePower,
		Coefficients: []float64{a, b},
		RSquared:     calculateRSquared(y, predicted),
		RMSE:         calculateRMSE(y, predicted),
		Formula:      fmt.Sprintf("bpnz = %.4f * density^%.4f", a, b),
		Estimator:    NewPowerEstimator(a, b),
	}
}

func fitExponential(x, y []float64) *Model {
	n := len(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		xi := x[i]
		yi := math.Log(y[i])
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	b := (sumXY - float64(n)*meanX*meanY) / (sumX2 - float64(n)*meanX*meanX)
	a := math.Exp(meanY - b*meanX)

	predicted, cleanupPredicted := pool.GetFloat64Slice(n)
	defer cleanupPredicted()
	for i := range n {
		predicted[i] = a * math.Exp(b*x[i])
	}

	return &Model{
		Type:         ModelTypeExponential,
		Coefficients: []float64{a, b},
		RSquared:     calculateRSquared(y, predicted),
		RMSE:         calculateRMSE(y, predicted),
		Formula:      fmt.Sprintf("bpnz = %.4f * e^(%.4f * density)", a, b),
		Estimator:    NewExponentialEstimator(a, b),
	}
}

func fitPolynomial(x, y []float64) *Model {
	n := len(x)
	if n < 3 {
		return fitLinear(x, y)
	}

	var sumX, sumX2, sumX3, sumX4, sumY, sumXY, sumX2Y float64
	for i := range n {
		xi := x[i]
		xi2 := xi * xi
		xi3 := xi2 * xi
		xi4 := xi3 * xi
		yi := y[i]

		sumX += xi
		sumX2 += xi2
		sumX3 += xi3
		sumX4 += xi4
		sumY += yi
		sumXY += xi * yi
		sumX2Y += xi2 * yi
	}

	det := float64(n)*sumX2*sumX4 + sumX*sumX3*sumX2 + sumX2*sumX*sumX3 -
		(sumX2*sumX2*sumX2 + sumX*sumX*sumX4 + sumX3*sumX3*float64(n))

	if math.Abs(det) < 1e-10 {
		return fitLinear(x, y)
	}

	detA := sumY*sumX2*sumX4 + sumXY*sumX3*sumX2 + sumX2Y*sumX*sumX3 -
		(sumX2Y*sumX2*sumX2 + sumXY*sumX*sumX4 + sumY*sumX3*sumX3)
	a := detA / det

	detB := float64(n)*sumXY*sumX4 + sumY*sumX3*sumX2 + sumX2*sumX2Y*sumX -
		(sumX2*sumXY*sumX2 + sumY*sumX*sumX4 + sumX2Y*sumX3*float64(n))
	b := detB / det

	detC := float64(n)*sumX2*sumX2Y + sumX*sumXY*sumX2 + sumY*sumX*sumX3 -
		(sumX2*sumX2*sumY + float64(n)*sumXY*sumX3 + sumX*sumX*sumX2Y)
	c := detC / det

	r2, rmse := calculateStatsOptimized(x, y, a, b, c)

	return &Model{
		Type:         ModelTypePolynomial,
		Coefficients: []float64{a, b, c},
		RSquared:     r2,
		RMSE:         rmse,
		Formula:      fmt.Sprintf("bpnz = %.4f + %.4f*density + %.4f*density²", a, b, c),
		Estimator:    NewPolynomialEstimator(a, b, c),
	}
}

// fitLinear is the degenerate fallback for fitPolynomial when too few
// samples (or a singular normal-equations matrix) rule out a quadratic
// term.
func fitLinear(x, y []float64) *Model {
	n := len(x)
	var sumX, sumY, sumXY, sumX2 float64
	for i := range n {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	b := (sumXY - float64(n)*meanX*meanY) / (sumX2 - float64(n)*meanX*meanX)
	a := meanY - b*meanX

	predicted, cleanupPredicted := pool.GetFloat64Slice(n)
	defer cleanupPredicted()
	for i := range n {
		predicted[i] = a + b*x[i]
	}

	return &Model{
		Type:         ModelTypePolynomial,
		Coefficients: []float64{a, b, 0},
		RSquared:     calculateRSquared(y, predicted),
		RMSE:         calculateRMSE(y, predicted),
		Formula:      fmt.Sprintf("bpnz = %.4f + %.4f*density", a, b),
		Estimator:    NewPolynomialEstimator(a, b, 0),
	}
}

func calculateRSquared(observed, predicted []float64) float64 {
	mean := calculateMean(observed)
	var ssTot, ssRes float64
	for i := range observed {
		ssTot += (observed[i] - mean) * (observed[i] - mean)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}

	if ssTot == 0 {
		return 0
	}

	return 1.0 - ssRes/ssTot
}

func calculateRMSE(observed, predicted []float64) float64 {
	var sumSq float64
	for i := range observed {
		d := observed[i] - predicted[i]
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(observed)))
}

func calculateMean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func calculateStatsOptimized(x, y []float64, a, b, c float64) (r2, rmse float64) {
	n := len(x)
	var meanY float64
	for _, yi := range y {
		meanY += yi
	}
	meanY /= float64(n)

	var ssTot, ssRes float64
	for i := range n {
		predicted := a + b*x[i] + c*x[i]*x[i]
		ssTot += (y[i] - meanY) * (y[i] - meanY)
		residual := y[i] - predicted
		ssRes += residual * residual
	}

	if ssTot == 0 {
		r2 = 0
	} else {
		r2 = 1.0 - ssRes/ssTot
	}

	rmse = math.Sqrt(ssRes / float64(n))

	return r2, rmse
}
