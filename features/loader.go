// Package features turns an hourly observation sequence into the feature table a
// per-pollutant forecasting model is trained on and scored against.
//
// A Pipeline composes four stateless steps:
//
//	Load -> Builder.Build -> GenerateTargets (training only) -> row policy
//
// FeaturesFor names the exact, ordered feature columns for a target, so a model
// fit on a training table accepts the matrix produced from an inference table.
package features

import (
	"sort"
	"time"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// Load copies obs into a Frame sorted ascending by time. The sort is stable and
// duplicates are kept; lag and rolling arithmetic work on row order only.
//
// A raw column is present only when at least one observation carries it; single
// gaps stay NaN and are filled by the Builder.
func Load(obs []airquality.Observation) *frame.Frame {
	order := make([]int, len(obs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return obs[order[a]].Time.Before(obs[order[b]].Time)
	})

	sorted := make([]airquality.Observation, len(obs))
	times := make([]time.Time, len(obs))
	for k, i := range order {
		sorted[k] = obs[i]
		times[k] = obs[i].Time
	}

	f := frame.New(times)
	for _, col := range airquality.RawColumns() {
		values := frame.NaNs(len(sorted))
		seen := false
		for i, o := range sorted {
			if v, ok := o.Value(col); ok {
				values[i] = v
				seen = true
			}
		}
		if !seen {
			continue
		}
		// lengths always match
		_ = f.Set(col, values)
	}
	return f
}

// CheckOrder reports the first row whose timestamp does not strictly follow the
// previous one. Load never fails on this; callers decide how strict to be.
func CheckOrder(f *frame.Frame) error {
	for i := 1; i < f.Len(); i++ {
		prev, cur := f.Time(i-1), f.Time(i)
		if !cur.After(prev) {
			reason := "timestamps are not strictly increasing"
			if cur.Equal(prev) {
				reason = "duplicate timestamp"
			}
			return errors.NewValidationError("time", reason, map[string]interface{}{
				"row":  i,
				"time": cur,
			})
		}
	}
	return nil
}
