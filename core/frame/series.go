package frame

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// IsMissing reports whether v is the undefined value (NaN).
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NaNs returns a slice of n undefined values.
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Shift moves values n positions forward (n > 0, a lag) or backward (n < 0, a
// lead). Positions without a source value are NaN.
//
//	Shift([1 2 3], 1)  == [NaN 1 2]
//	Shift([1 2 3], -1) == [2 3 NaN]
func Shift(xs []float64, n int) []float64 {
	out := NaNs(len(xs))
	for i := range xs {
		src := i - n
		if src >= 0 && src < len(xs) {
			out[i] = xs[src]
		}
	}
	return out
}

// ForwardFill replaces each NaN with the last defined value before it.
// Leading NaNs are kept.
func ForwardFill(xs []float64) []float64 {
	out := make([]float64, len(xs))
	last := math.NaN()
	for i, v := range xs {
		if !IsMissing(v) {
			last = v
		}
		out[i] = last
	}
	return out
}

// BackwardFill replaces each NaN with the next defined value after it.
// Trailing NaNs are kept.
func BackwardFill(xs []float64) []float64 {
	out := make([]float64, len(xs))
	next := math.NaN()
	for i := len(xs) - 1; i >= 0; i-- {
		if !IsMissing(xs[i]) {
			next = xs[i]
		}
		out[i] = next
	}
	return out
}

// RollingMean is the trailing mean over window positions ending at i. NaNs inside
// the window are skipped; fewer than minPeriods defined values yield NaN.
func RollingMean(xs []float64, window, minPeriods int) []float64 {
	return rolling(xs, window, minPeriods, func(vals []float64) float64 {
		return stat.Mean(vals, nil)
	})
}

// RollingStd is the trailing sample standard deviation (n-1 denominator) over
// window positions ending at i. At least two defined values are needed.
func RollingStd(xs []float64, window, minPeriods int) []float64 {
	if minPeriods < 2 {
		minPeriods = 2
	}
	return rolling(xs, window, minPeriods, func(vals []float64) float64 {
		return stat.StdDev(vals, nil)
	})
}

func rolling(xs []float64, window, minPeriods int, agg func([]float64) float64) []float64 {
	out := NaNs(len(xs))
	if window <= 0 {
		return out
	}
	if minPeriods <= 0 {
		minPeriods = 1
	}
	vals := make([]float64, 0, window)
	for i := range xs {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		vals = vals[:0]
		for _, v := range xs[start : i+1] {
			if !IsMissing(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) >= minPeriods {
			out[i] = agg(vals)
		}
	}
	return out
}
