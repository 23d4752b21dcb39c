package errors

import (
	"math"
)

// CheckNumericalStability returns an error at the first NaN or Inf in values.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckMatrix scans a matrix and reports the row of the first non-finite value.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		var unstable []float64
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstable = append(unstable, v)
			}
		}
		if len(unstable) > 0 {
			return NewNumericalInstabilityError(operation, unstable, i)
		}
	}
	return nil
}
