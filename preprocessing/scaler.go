// Package preprocessing holds feature transformations fitted on the training
// split and reapplied unchanged to evaluation and inference matrices.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// minScale replaces a column scale below it, so constant columns pass through
// centred instead of dividing by zero.
const minScale = 1e-8

// StandardScaler standardizes each column to zero mean and unit variance.
type StandardScaler struct {
	model.BaseEstimator

	// Mean is the per-column mean learned by Fit.
	Mean []float64
	// Scale is the per-column population standard deviation learned by Fit.
	Scale []float64
	// NFeatures is the column count seen by Fit.
	NFeatures int

	// WithMean subtracts the mean (default true).
	WithMean bool
	// WithStd divides by the standard deviation (default true).
	WithStd bool
}

// NewStandardScaler creates a StandardScaler.
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// NewStandardScalerDefault centres and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit learns the column statistics of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix("StandardScaler.Fit", X, r, c); err != nil {
		return err
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && math.Abs(std) >= minScale {
			s.Scale[j] = std
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the learned statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform fits on X and returns X standardized.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized values back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}
