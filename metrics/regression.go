// Package metrics scores forecasts against observed values.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// Regression bundles the scores reported per horizon.
type Regression struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	// MAPE is in percent and skips rows where the truth is zero.
	MAPE float64 `json:"mape"`
	Corr float64 `json:"corr"`
}

// ColumnVector copies an n×1 matrix into a vector.
func ColumnVector(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("ColumnVector", "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError("ColumnVector", "must be a column vector (n×1 matrix)")
	}
	if v, ok := m.(*mat.VecDense); ok {
		return mat.VecDenseCopyOf(v), nil
	}
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out, nil
}

func check(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE is the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := check("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// MSEMatrix is MSE for n×1 matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := ColumnVector(yTrue)
	if err != nil {
		return 0, err
	}
	p, err := ColumnVector(yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := check("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score is the coefficient of determination. A constant yTrue is an error.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := check("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	yMean := mat.Sum(yTrue) / float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// MAPE is the mean absolute percentage error over rows with non-zero truth.
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := check("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred.AtVec(i)) / math.Abs(t)
		valid++
	}
	if valid == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// Correlation is the Pearson correlation of truth and prediction. It is NaN when
// either side is constant.
func Correlation(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := check("Correlation", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	t := make([]float64, n)
	p := make([]float64, n)
	for i := 0; i < n; i++ {
		t[i], p[i] = yTrue.AtVec(i), yPred.AtVec(i)
	}
	return stat.Correlation(t, p, nil), nil
}

// SkillScore compares a model's MAE to a baseline's, in percent: 100 is perfect,
// 0 matches the baseline and negative values are worse than it.
func SkillScore(modelMAE, baselineMAE float64) float64 {
	if baselineMAE == 0 {
		if modelMAE == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	return (1 - modelMAE/baselineMAE) * 100
}

// Evaluate computes every Regression score. R2 and MAPE fall back to NaN when
// they are undefined for the data instead of failing the whole evaluation.
func Evaluate(yTrue, yPred *mat.VecDense) (Regression, error) {
	var out Regression
	var err error
	if out.MAE, err = MAE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if out.RMSE, err = RMSE(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	if out.R2, err = R2Score(yTrue, yPred); err != nil {
		out.R2 = math.NaN()
	}
	if out.MAPE, err = MAPE(yTrue, yPred); err != nil {
		out.MAPE = math.NaN()
	}
	if out.Corr, err = Correlation(yTrue, yPred); err != nil {
		return Regression{}, err
	}
	return out, nil
}
