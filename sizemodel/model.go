package sizemodel

import "fmt"

// Model is one fitted curve: its coefficients, goodness of fit, and a
// ready-to-use Estimator.
type Model struct {
	Type         ModelType
	Coefficients []float64
	RSquared     float64
	RMSE         float64
	Formula      string
	Estimator    Estimator
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.4f, Formula: %s}", m.Type, m.RSquared, m.RMSE, m.Formula)
}

// Result is the outcome of fitting every candidate model to one sample
// set.
type Result struct {
	BestFit   *Model
	AllModels []*Model
}

func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, TotalModels: %d}", r.BestFit, len(r.AllModels))
}

// Sample is one (density, bytes-per-nonzero) observation.
type Sample struct {
	Density         float64
	BytesPerNonzero float64
}
