// Package linear provides the bundled reference regressor: ordinary least squares
// with an optional ridge penalty, solved from the normal equations.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/core/parallel"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// DefaultAlpha is the ridge penalty used when none is configured. Short training
// windows make some cyclical columns constant, and the penalty keeps the normal
// equations solvable.
const DefaultAlpha = 1.0

// parallelThreshold is the row count under which the design matrix is built
// sequentially.
const parallelThreshold = 1000

// LinearRegression fits y = X·w + b minimizing ‖y − Xw − b‖² + α‖w‖².
// The intercept is not penalized.
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense
	Intercept float64
	NFeatures int

	alpha        float64
	fitIntercept bool
}

// NewLinearRegression creates an unfitted model.
//
//	lr := linear.NewLinearRegression(linear.WithAlpha(0.1))
//	err := lr.Fit(X, y)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{alpha: DefaultAlpha, fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Alpha returns the ridge penalty.
func (lr *LinearRegression) Alpha() float64 {
	return lr.alpha
}

// Fit solves (XᵀX + αI)w = Xᵀy by Cholesky factorization.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if lr.alpha < 0 {
		return errors.NewConfigError("alpha", "must be non-negative", lr.alpha)
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", X, r, c); err != nil {
		return err
	}
	lr.Reset()

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	p := c + offset
	design := mat.NewDense(r, p, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				design.Set(i, 0, 1)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	var gram mat.SymDense
	gram.SymOuterK(1, design.T())
	for j := offset; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lr.alpha)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}
	var xty mat.VecDense
	xty.MulVec(design.T(), yVec)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}
	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "solve", err)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", w.RawVector().Data, 0); err != nil {
		return err
	}

	lr.Intercept = 0
	if offset == 1 {
		lr.Intercept = w.AtVec(0)
	}
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, w.AtVec(j+offset))
	}
	lr.NFeatures = c
	lr.SetFitted()
	return nil
}

// Predict returns X·w + b as an n×1 matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewVecDense(r, nil)
	predictions.MulVec(X, lr.Weights)
	for i := 0; i < r; i++ {
		predictions.SetVec(i, predictions.AtVec(i)+lr.Intercept)
	}
	return predictions, nil
}

// GetWeights returns a copy of the learned coefficients.
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return append([]float64(nil), lr.Weights.RawVector().Data...)
}

// GetIntercept returns the learned intercept, or 0 before Fit.
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score returns the R² of the predictions for X against y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - yPred.At(i, 0)) * (yTrue - yPred.At(i, 0))
	}
	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}
