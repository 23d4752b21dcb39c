package model

import "gonum.org/v1/gonum/mat"

// Fitter learns parameters from a feature matrix and a target column.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor scores a feature matrix, returning one prediction per row as an
// n×1 matrix.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is the opaque model the harness fits per horizon. Gradient boosting
// or any other backend plugs in by implementing it.
type Regressor interface {
	Fitter
	Predictor
}

// Factory creates an unfitted Regressor. The harness calls it once per horizon.
type Factory func() Regressor
