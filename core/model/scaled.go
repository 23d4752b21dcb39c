package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// ScaledRegressor fits a Transformer on the training features and feeds the
// transformed matrix to the wrapped Regressor. Predict reuses the fitted
// transformation, so inference rows are scaled with training statistics.
type ScaledRegressor struct {
	BaseEstimator

	Transformer Transformer
	Regressor   Regressor
}

// NewScaledRegressor chains t in front of r.
func NewScaledRegressor(t Transformer, r Regressor) *ScaledRegressor {
	return &ScaledRegressor{Transformer: t, Regressor: r}
}

// Fit implements Fitter.
func (s *ScaledRegressor) Fit(X, y mat.Matrix) error {
	if s.Transformer == nil || s.Regressor == nil {
		return errors.NewValueError("ScaledRegressor.Fit", "transformer and regressor are required")
	}
	s.Reset()
	scaled, err := s.Transformer.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "ScaledRegressor.Fit")
	}
	if err := s.Regressor.Fit(scaled, y); err != nil {
		return err
	}
	s.SetFitted()
	return nil
}

// Predict implements Predictor.
func (s *ScaledRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ScaledRegressor", "Predict")
	}
	scaled, err := s.Transformer.Transform(X)
	if err != nil {
		return nil, errors.Wrap(err, "ScaledRegressor.Predict")
	}
	return s.Regressor.Predict(scaled)
}
