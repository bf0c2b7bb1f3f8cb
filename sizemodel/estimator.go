package sizemodel

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ModelType identifies the shape a model fits.
type ModelType int

const (
	// ModelTypeHyperbolic is bpnz = a + b/density.
	ModelTypeHyperbolic ModelType = iota
	// ModelTypeLogarithmic is bpnz = a + b*ln(density).
	ModelTypeLogarithmic
	// ModelTypePower is bpnz = a * density^b.
	ModelTypePower
	// ModelTypeExponential is bpnz = a * e^(b*density).
	ModelTypeExponential
	// ModelTypePolynomial is bpnz = a + b*density + c*density^2.
	ModelTypePolynomial
)

var modelTypeNames = map[ModelType]string{
	ModelTypeHyperbolic:  "hyperbolic",
	ModelTypeLogarithmic: "logarithmic",
	ModelTypePower:       "power",
	ModelTypeExponential: "exponential",
	ModelTypePolynomial:  "polynomial",
}

func (mt ModelType) String() string {
	if name, ok := modelTypeNames[mt]; ok {
		return name
	}

	return "unknown"
}

var modelTypeFromString = map[string]ModelType{
	"hyperbolic":  ModelTypeHyperbolic,
	"logarithmic": ModelTypeLogarithmic,
	"power":       ModelTypePower,
	"exponential": ModelTypeExponential,
	"polynomial":  ModelTypePolynomial,
}

// ModelTypeFromString returns ModelType(-1) for an unrecognized name.
func ModelTypeFromString(name string) ModelType {
	if mt, ok := modelTypeFromString[strings.ToLower(name)]; ok {
		return mt
	}

	return ModelType(-1)
}

func newEmptyEstimator(t ModelType) Estimator {
	switch t {
	case ModelTypeHyperbolic:
		return NewHyperbolicEstimator(0, 0)
	case ModelTypeLogarithmic:
		return NewLogarithmicEstimator(0, 0)
	case ModelTypePower:
		return NewPowerEstimator(0, 0)
	case ModelTypeExponential:
		return NewExponentialEstimator(0, 0)
	case ModelTypePolynomial:
		return NewPolynomialEstimator(0, 0, 0)
	default:
		return nil
	}
}

// Estimator predicts bytes-per-nonzero for a given density.
type Estimator interface {
	Estimate(density float64) float64
	Type() ModelType
	Coefficients() []float64
	SetCoefficients(coeffs []float64) error
}

// HyperbolicEstimator implements bpnz = a + b/density.
type HyperbolicEstimator struct {
	a, b   float64
	coeffs []float64
}

func NewHyperbolicEstimator(a, b float64) *HyperbolicEstimator {
	return &HyperbolicEstimator{a: a, b: b, coeffs: make([]float64, 2)}
}

func (h *HyperbolicEstimator) Estimate(density float64) float64 {
	if density <= 0 {
		return math.Inf(1)
	}

	return h.a + h.b/density
}

func (h *HyperbolicEstimator) Type() ModelType { return ModelTypeHyperbolic }

func (h *HyperbolicEstimator) Coefficients() []float64 {
	h.coeffs[0], h.coeffs[1] = h.a, h.b
	return h.coeffs
}

func (h *HyperbolicEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 2 {
		return fmt.Errorf("hyperbolic model expects 2 coefficients, got %d", len(coeffs))
	}
	h.a, h.b = coeffs[0], coeffs[1]

	return nil
}

// LogarithmicEstimator implements bpnz = a + b*ln(density).
type LogarithmicEstimator struct {
	a, b   float64
	coeffs []float64
}

func NewLogarithmicEstimator(a, b float64) *LogarithmicEstimator {
	return &LogarithmicEstimator{a: a, b: b, coeffs: make([]float64, 2)}
}

func (l *LogarithmicEstimator) Estimate(density float64) float64 {
	if density <= 0 {
		return math.Inf(1)
	}

	return l.a + l.b*math.Log(density)
}

func (l *LogarithmicEstimator) Type() ModelType { return ModelTypeLogarithmic }

func (l *LogarithmicEstimator) Coefficients() []float64 {
	l.coeffs[0], l.coeffs[1] = l.a, l.b
	return l.coeffs
}

func (l *LogarithmicEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 2 {
		return fmt.Errorf("logarithmic model expects 2 coefficients, got %d", len(coeffs))
	}
	l.a, l.b = coeffs[0], coeffs[1]

	return nil
}

// PowerEstimator implements bpnz = a * density^b.
type PowerEstimator struct {
	a, b   float64
	coeffs []float64
}

func NewPowerEstimator(a, b float64) *PowerEstimator {
	return &PowerEstimator{a: a, b: b, coeffs: make([]float64, 2)}
}

func (p *PowerEstimator) Estimate(density float64) float64 {
	if density <= 0 {
		return math.Inf(1)
	}

	return p.a * math.Pow(density, p.b)
}

func (p *PowerEstimator) Type() ModelType { return ModelTypePower }

func (p *PowerEstimator) Coefficients() []float64 {
	p.coeffs[0], p.coeffs[1] = p.a, p.b
	return p.coeffs
}

func (p *PowerEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 2 {
		return fmt.Errorf("power model expects 2 coefficients, got %d", len(coeffs))
	}
	p.a, p.b = coeffs[0], coeffs[1]

	return nil
}

// ExponentialEstimator implements bpnz = a * e^(b*density).
type ExponentialEstimator struct {
	a, b   float64
	coeffs []float64
}

func NewExponentialEstimator(a, b float64) *ExponentialEstimator {
	return &ExponentialEstimator{a: a, b: b, coeffs: make([]float64, 2)}
}

func (e *ExponentialEstimator) Estimate(density float64) float64 {
	if density <= 0 {
		return math.Inf(1)
	}

	return e.a * math.Exp(e.b*density)
}

func (e *ExponentialEstimator) Type() ModelType { return ModelTypeExponential }

func (e *ExponentialEstimator) Coefficients() []float64 {
	e.coeffs[0], e.coeffs[1] = e.a, e.b
	return e.coeffs
}

func (e *ExponentialEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 2 {
		return fmt.Errorf("exponential model expects 2 coefficients, got %d", len(coeffs))
	}
	e.a, e.b = coeffs[0], coeffs[1]

	return nil
}

// PolynomialEstimator implements bpnz = a + b*density + c*density^2.
type PolynomialEstimator struct {
	a, b, c float64
	coeffs  []float64
}

func NewPolynomialEstimator(a, b, c float64) *PolynomialEstimator {
	return &PolynomialEstimator{a: a, b: b, c: c, coeffs: make([]float64, 3)}
}

func (p *PolynomialEstimator) Estimate(density float64) float64 {
	if density <= 0 {
		return math.Inf(1)
	}

	return p.a + p.b*density + p.c*density*density
}

func (p *PolynomialEstimator) Type() ModelType { return ModelTypePolynomial }

func (p *PolynomialEstimator) Coefficients() []float64 {
	p.coeffs[0], p.coeffs[1], p.coeffs[2] = p.a, p.b, p.c
	return p.coeffs
}

func (p *PolynomialEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != 3 {
		return fmt.Errorf("polynomial model expects 3 coefficients, got %d", len(coeffs))
	}
	p.a, p.b, p.c = coeffs[0], coeffs[1], coeffs[2]

	return nil
}

// NewEstimator builds an Estimator by model name and coefficients.
func NewEstimator(name string, coeffs []float64) (Estimator, error) {
	mt := ModelTypeFromString(name)
	if mt == ModelType(-1) {
		var names []string
		for _, n := range modelTypeNames {
			names = append(names, n)
		}
		slices.Sort(names)

		return nil, fmt.Errorf("unknown model type: %s, supported: %s", name, strings.Join(names, ", "))
	}

	est := newEmptyEstimator(mt)
	if err := est.SetCoefficients(coeffs); err != nil {
		return nil, err
	}

	return est, nil
}
