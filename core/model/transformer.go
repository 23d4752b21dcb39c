package model

import "gonum.org/v1/gonum/mat"

// Transformer learns a column-wise transformation and applies it.
type Transformer interface {
	// Fit learns the transformation parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and returns X transformed.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
