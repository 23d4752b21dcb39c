// Package model defines the estimator contracts the forecasting harness trains
// against: one Regressor per forecast horizon, fed the feature matrix of a
// pipeline run.
package model

// EstimatorState is the fit state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed successfully.
	NotFitted EstimatorState = iota
	// Fitted means the estimator holds learned parameters.
	Fitted
)

// BaseEstimator tracks fit state. Embed it in concrete estimators.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
