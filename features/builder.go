package features

import (
	"math"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/core/parallel"
)

// Rolling windows require this many defined values before producing a statistic.
const (
	TrainingMinPeriods  = airquality.RollingWindow
	InferenceMinPeriods = 1
)

// Builder derives the engineered columns from a loaded frame. The zero value is
// not usable; create one with NewBuilder.
type Builder struct {
	parallelThreshold int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithParallelThreshold sets the row count above which row-wise derivations are
// split across cores.
func WithParallelThreshold(n int) BuilderOption {
	return func(b *Builder) {
		b.parallelThreshold = n
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{parallelThreshold: parallel.DefaultThreshold}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a copy of f with derived columns added, in this order:
//
//  1. forward-fill then backward-fill every raw column
//  2. wind_u / wind_v from speed and direction
//  3. hour and month sine/cosine pairs
//  4. target lags 1 and 24
//  5. target rolling mean/std over 24 rows of the one-step-shifted series
//
// Later steps read the output of earlier ones. Columns whose inputs are absent are
// not created. f is not modified.
func (b *Builder) Build(f *frame.Frame, cfg airquality.Config) (*frame.Frame, error) {
	out := f.Clone()

	for _, col := range airquality.RawColumns() {
		values, ok := out.Column(col)
		if !ok {
			continue
		}
		if err := out.Set(col, frame.BackwardFill(frame.ForwardFill(values))); err != nil {
			return nil, err
		}
	}

	if err := b.addWind(out, cfg.Wind()); err != nil {
		return nil, err
	}
	if err := b.addCyclical(out); err != nil {
		return nil, err
	}
	if err := addTargetHistory(out, cfg); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) addWind(f *frame.Frame, convention airquality.WindConvention) error {
	speed, okSpeed := f.Column(airquality.ColWindSpeed)
	direction, okDir := f.Column(airquality.ColWindDirection)
	if !okSpeed || !okDir {
		return nil
	}
	u := make([]float64, f.Len())
	v := make([]float64, f.Len())
	parallel.ParallelizeWithThreshold(f.Len(), b.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			u[i], v[i] = WindComponents(speed[i], direction[i], convention)
		}
	})
	if err := f.Set(airquality.ColWindU, u); err != nil {
		return err
	}
	return f.Set(airquality.ColWindV, v)
}

// WindComponents splits a wind speed and a direction in degrees into u and v.
//
// WindMathematical uses the degrees as a plain trigonometric angle:
// u = speed·cos(θ), v = speed·sin(θ). WindCompass swaps the functions so a
// bearing of 0° lands entirely on v.
func WindComponents(speed, degrees float64, convention airquality.WindConvention) (u, v float64) {
	rad := degrees * math.Pi / 180
	if convention == airquality.WindCompass {
		return speed * math.Sin(rad), speed * math.Cos(rad)
	}
	return speed * math.Cos(rad), speed * math.Sin(rad)
}

func (b *Builder) addCyclical(f *frame.Frame) error {
	n := f.Len()
	cols := map[string][]float64{
		airquality.ColHourSin:  make([]float64, n),
		airquality.ColHourCos:  make([]float64, n),
		airquality.ColMonthSin: make([]float64, n),
		airquality.ColMonthCos: make([]float64, n),
	}
	hourSin, hourCos := cols[airquality.ColHourSin], cols[airquality.ColHourCos]
	monthSin, monthCos := cols[airquality.ColMonthSin], cols[airquality.ColMonthCos]
	parallel.ParallelizeWithThreshold(n, b.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ts := f.Time(i)
			hourSin[i], hourCos[i] = cyclical(float64(ts.Hour()), 24)
			monthSin[i], monthCos[i] = cyclical(float64(ts.Month()), 12)
		}
	})
	for _, name := range []string{airquality.ColHourSin, airquality.ColHourCos, airquality.ColMonthSin, airquality.ColMonthCos} {
		if err := f.Set(name, cols[name]); err != nil {
			return err
		}
	}
	return nil
}

func cyclical(value, period float64) (sin, cos float64) {
	angle := 2 * math.Pi * value / period
	return math.Sin(angle), math.Cos(angle)
}

// addTargetHistory adds the lag and rolling columns of the configured target.
// Every value at row i is computed from rows < i.
func addTargetHistory(f *frame.Frame, cfg airquality.Config) error {
	target := cfg.Target()
	series, ok := f.Column(string(target))
	if !ok {
		return nil
	}

	for _, lag := range []int{airquality.ShortLag, airquality.DailyLag} {
		if err := f.Set(airquality.LagColumn(target, lag), frame.Shift(series, lag)); err != nil {
			return err
		}
	}

	minPeriods := TrainingMinPeriods
	if cfg.Mode() == airquality.ModeInference {
		minPeriods = InferenceMinPeriods
	}
	past := frame.Shift(series, 1)
	window := airquality.RollingWindow
	if err := f.Set(airquality.RollingMeanColumn(target, window), frame.RollingMean(past, window, minPeriods)); err != nil {
		return err
	}
	return f.Set(airquality.RollingStdColumn(target, window), frame.RollingStd(past, window, minPeriods))
}
