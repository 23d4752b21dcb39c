package features

import (
	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// GenerateTargets returns a copy of f with one target_<h>h column per horizon,
// where target_<h>h[i] is the target's value at row i+h. The last h rows have no
// such value and hold NaN.
func GenerateTargets(f *frame.Frame, target airquality.Pollutant, horizons []int) (*frame.Frame, error) {
	series, ok := f.Column(string(target))
	if !ok {
		return nil, errors.NewMissingFeatureError("GenerateTargets", []string{string(target)})
	}
	out := f.Clone()
	for _, h := range horizons {
		if h <= 0 {
			return nil, errors.NewConfigError("horizons", "horizons must be positive", h)
		}
		if err := out.Set(airquality.TargetColumn(h), frame.Shift(series, -h)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
